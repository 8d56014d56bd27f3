package redis

import (
	"context"

	"github.com/zwp88/goapflow/domain/process"
)

// CachedProcessStore layers a Redis snapshot cache over another process
// store. Reads are served from the cache when possible; cache failures fall
// back to the inner store so a flaky Redis never loses data.
type CachedProcessStore struct {
	inner process.Store
	cache *SnapshotCache
}

// NewCachedProcessStore wraps the inner store with the given cache.
func NewCachedProcessStore(inner process.Store, cache *SnapshotCache) *CachedProcessStore {
	return &CachedProcessStore{inner: inner, cache: cache}
}

// Save writes through to the inner store, then refreshes the cache on a
// best-effort basis.
func (s *CachedProcessStore) Save(ctx context.Context, snap process.Snapshot) error {
	if err := s.inner.Save(ctx, snap); err != nil {
		return err
	}
	_ = s.cache.Set(ctx, snap)
	return nil
}

// Get serves from the cache when present, otherwise loads from the inner
// store and backfills the cache.
func (s *CachedProcessStore) Get(ctx context.Context, id string) (process.Snapshot, error) {
	if snap, ok, err := s.cache.Get(ctx, id); err == nil && ok {
		return snap, nil
	}

	snap, err := s.inner.Get(ctx, id)
	if err != nil {
		return process.Snapshot{}, err
	}
	_ = s.cache.Set(ctx, snap)
	return snap, nil
}

// List delegates to the inner store.
func (s *CachedProcessStore) List(ctx context.Context) ([]process.Snapshot, error) {
	return s.inner.List(ctx)
}

// Delete removes from the inner store and invalidates the cache.
func (s *CachedProcessStore) Delete(ctx context.Context, id string) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, id)
	return nil
}

// Close closes the cache and then the inner store.
func (s *CachedProcessStore) Close() error {
	cacheErr := s.cache.Close()
	if err := s.inner.Close(); err != nil {
		return err
	}
	return cacheErr
}

var _ process.Store = (*CachedProcessStore)(nil)

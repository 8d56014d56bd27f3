package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/zwp88/goapflow/domain/process"
)

// ProcessStore is an in-memory implementation of process.Store. Snapshots
// are stored as serialized JSON so callers never share mutable state with
// the store.
type ProcessStore struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

// NewProcessStore creates an empty in-memory process store.
func NewProcessStore() *ProcessStore {
	return &ProcessStore{
		snaps: make(map[string][]byte),
	}
}

// Save implements process.Store.
func (s *ProcessStore) Save(ctx context.Context, snap process.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.ID] = data
	return nil
}

// Get implements process.Store.
func (s *ProcessStore) Get(ctx context.Context, id string) (process.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return process.Snapshot{}, err
	}

	s.mu.RLock()
	data, ok := s.snaps[id]
	s.mu.RUnlock()
	if !ok {
		return process.Snapshot{}, process.ErrNotFound
	}

	var snap process.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return process.Snapshot{}, err
	}
	return snap, nil
}

// List implements process.Store, ordered by creation time.
func (s *ProcessStore) List(ctx context.Context) ([]process.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]process.Snapshot, 0, len(s.snaps))
	for _, data := range s.snaps {
		var snap process.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete implements process.Store.
func (s *ProcessStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[id]; !ok {
		return process.ErrNotFound
	}
	delete(s.snaps, id)
	return nil
}

// Close implements process.Store.
func (s *ProcessStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = make(map[string][]byte)
	return nil
}

var _ process.Store = (*ProcessStore)(nil)

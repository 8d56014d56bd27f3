package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zwp88/goapflow/domain/process"
)

// ErrCacheUnavailable is returned when the Redis server cannot be reached.
var ErrCacheUnavailable = errors.New("redis: cache unavailable")

// SnapshotCache caches process snapshots in Redis.
type SnapshotCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewSnapshotCache creates a snapshot cache with the given configuration,
// verifying connectivity before returning.
func NewSnapshotCache(cfg Config, opts ...ConfigOption) (*SnapshotCache, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(ErrCacheUnavailable, err)
	}

	return &SnapshotCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// NewSnapshotCacheFromClient creates a cache from an existing Redis client.
func NewSnapshotCacheFromClient(client *redis.Client, keyPrefix string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Key returns the Redis key for a process ID.
func (c *SnapshotCache) Key(id string) string {
	return c.keyPrefix + "process:" + id
}

// Get retrieves a cached snapshot. The second return reports whether the
// snapshot was present.
func (c *SnapshotCache) Get(ctx context.Context, id string) (process.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return process.Snapshot{}, false, err
	}

	data, err := c.client.Get(ctx, c.Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return process.Snapshot{}, false, nil
		}
		return process.Snapshot{}, false, errors.Join(ErrCacheUnavailable, err)
	}

	var snap process.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return process.Snapshot{}, false, err
	}

	c.hits.Add(1)
	return snap, true, nil
}

// Set stores a snapshot under the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, snap process.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, c.Key(snap.ID), data, c.ttl).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a cached snapshot.
func (c *SnapshotCache) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.client.Del(ctx, c.Key(id)).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

// Stats reports cache hit and miss counts.
func (c *SnapshotCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Ping checks the Redis connection.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client.
func (c *SnapshotCache) Client() *redis.Client {
	return c.client
}

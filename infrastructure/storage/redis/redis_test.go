package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/zwp88/goapflow/domain/process"
	"github.com/zwp88/goapflow/infrastructure/storage/memory"
)

// unreachableClient returns a client whose dials fail immediately, for
// exercising fallback paths without a server.
func unreachableClient() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Address == "" {
		t.Error("Address must not be empty")
	}
	if cfg.KeyPrefix != "goapflow:" {
		t.Errorf("KeyPrefix = %s, want goapflow:", cfg.KeyPrefix)
	}
	if cfg.TTL <= 0 {
		t.Error("TTL should default to a positive duration")
	}
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, opt := range []ConfigOption{
		WithAddress("redis.internal:6380"),
		WithDB(3),
		WithKeyPrefix("test:"),
		WithTTL(time.Minute),
	} {
		opt(&cfg)
	}

	if cfg.Address != "redis.internal:6380" || cfg.DB != 3 || cfg.KeyPrefix != "test:" || cfg.TTL != time.Minute {
		t.Errorf("options not applied: %+v", cfg)
	}
}

func TestSnapshotCache_Key(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCacheFromClient(unreachableClient(), "goapflow:", time.Hour)
	defer func() { _ = c.Close() }()

	if got := c.Key("p-1"); got != "goapflow:process:p-1" {
		t.Errorf("Key() = %s, want goapflow:process:p-1", got)
	}
}

func TestSnapshotCache_GetUnavailable(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCacheFromClient(unreachableClient(), "goapflow:", time.Hour)
	defer func() { _ = c.Close() }()

	_, _, err := c.Get(context.Background(), "p-1")
	if !errors.Is(err, ErrCacheUnavailable) {
		t.Errorf("Get() error = %v, want ErrCacheUnavailable", err)
	}
}

func TestCachedProcessStore_FallsBackWhenCacheDown(t *testing.T) {
	t.Parallel()

	inner := memory.NewProcessStore()
	cache := NewSnapshotCacheFromClient(unreachableClient(), "goapflow:", time.Hour)
	store := NewCachedProcessStore(inner, cache)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	snap := process.Snapshot{
		ID:        "p-1",
		Agent:     "billing",
		Status:    process.StatusCompleted,
		CreatedAt: time.Now(),
	}

	// Save succeeds even though the cache write fails.
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Get falls back to the inner store.
	got, err := store.Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Agent != "billing" {
		t.Errorf("Get() = %+v", got)
	}

	list, err := store.List(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("List() = %v, %v; want one snapshot", list, err)
	}

	if err := store.Delete(ctx, "p-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "p-1"); !errors.Is(err, process.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestNewSnapshotCache_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1:1"
	cfg.DialTimeout = 50 * time.Millisecond
	cfg.MaxRetries = -1

	if _, err := NewSnapshotCache(cfg); !errors.Is(err, ErrCacheUnavailable) {
		t.Errorf("NewSnapshotCache() error = %v, want ErrCacheUnavailable", err)
	}
}

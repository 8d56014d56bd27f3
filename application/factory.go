package application

import (
	"context"
	"fmt"

	"github.com/zwp88/goapflow/domain/event"
	"github.com/zwp88/goapflow/domain/process"
	"github.com/zwp88/goapflow/infrastructure/config"
	"github.com/zwp88/goapflow/infrastructure/logging"
	"github.com/zwp88/goapflow/infrastructure/planner"
	"github.com/zwp88/goapflow/infrastructure/resilience"
	"github.com/zwp88/goapflow/infrastructure/storage/memory"
	"github.com/zwp88/goapflow/infrastructure/storage/postgres"
	"github.com/zwp88/goapflow/infrastructure/storage/redis"
	"github.com/zwp88/goapflow/infrastructure/storage/sqlite"
	"github.com/zwp88/goapflow/infrastructure/telemetry"
)

// BuildServices assembles the service bundle the configuration selects:
// planner depth, runner limits, storage backends, the optional Redis snapshot
// cache, and a logging+metrics listener.
func BuildServices(ctx context.Context, cfg config.Config) (Services, error) {
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	s := Services{
		Planner: planner.NewForwardWithDepth(cfg.Planner.MaxDepth),
		Runner: resilience.NewRunner(resilience.RunnerConfig{
			MaxConcurrent:           cfg.Runner.MaxConcurrent,
			CircuitBreakerThreshold: cfg.Runner.CircuitBreakerThreshold,
			CircuitBreakerTimeout:   cfg.Runner.CircuitBreakerTimeout.Duration(),
		}),
		Listener: event.Multicast(
			logging.Listener(),
			telemetry.Listener(telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())),
		),
	}

	events, err := buildEventStore(ctx, cfg.Storage)
	if err != nil {
		return Services{}, err
	}
	s.Events = events

	processes, err := buildProcessStore(cfg.Storage)
	if err != nil {
		return Services{}, err
	}

	// A configured Redis address layers the snapshot cache over the store.
	if cfg.Storage.Redis.Addr != "" {
		cache, err := redis.NewSnapshotCache(redis.DefaultConfig(),
			redis.WithAddress(cfg.Storage.Redis.Addr),
			redis.WithPassword(cfg.Storage.Redis.Password),
			redis.WithDB(cfg.Storage.Redis.DB),
			redis.WithKeyPrefix(cfg.Storage.Redis.KeyPrefix),
			redis.WithTTL(cfg.Storage.Redis.TTL.Duration()),
		)
		if err != nil {
			return Services{}, err
		}
		processes = redis.NewCachedProcessStore(processes, cache)
	}
	s.Processes = processes

	return s, nil
}

// NewPlatformFromConfig builds a platform from a loaded configuration.
func NewPlatformFromConfig(ctx context.Context, name string, cfg config.Config) (*Platform, error) {
	services, err := BuildServices(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPlatform(name, WithServices(services))
}

func buildEventStore(ctx context.Context, cfg config.StorageConfig) (event.Store, error) {
	switch cfg.Events {
	case "", "memory":
		return memory.NewEventStore(), nil
	case "sqlite":
		return sqlite.NewEventStore(sqliteConfig(cfg.SQLite))
	case "postgres":
		pool, err := postgres.NewPool(ctx, postgresConfig(cfg.Postgres))
		if err != nil {
			return nil, err
		}
		store := postgres.NewEventStore(pool, cfg.Postgres.Schema)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown event store backend %q", config.ErrValidationFailed, cfg.Events)
	}
}

func buildProcessStore(cfg config.StorageConfig) (process.Store, error) {
	switch cfg.Processes {
	case "", "memory":
		return memory.NewProcessStore(), nil
	case "sqlite":
		return sqlite.NewProcessStore(sqliteConfig(cfg.SQLite))
	default:
		return nil, fmt.Errorf("%w: unknown process store backend %q", config.ErrValidationFailed, cfg.Processes)
	}
}

func sqliteConfig(cfg config.SQLiteConfig) sqlite.Config {
	out := sqlite.DefaultConfig()
	if cfg.Path != "" {
		out.DSN = "file:" + cfg.Path
	}
	out.AutoMigrate = cfg.AutoMigrate
	return out
}

func postgresConfig(cfg config.PostgresConfig) postgres.Config {
	out := postgres.DefaultConfig()
	out.DSN = cfg.DSN
	if cfg.Schema != "" {
		out.Schema = cfg.Schema
	}
	return out
}

// Package config provides platform configuration loading and parsing.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/zwp88/goapflow/domain/policy"
	"github.com/zwp88/goapflow/domain/process"
)

// Configuration errors.
var (
	// ErrConfigNotFound is returned when the config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidFormat is returned when the config cannot be parsed.
	ErrInvalidFormat = errors.New("invalid config format")

	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed is returned when the config fails validation.
	ErrValidationFailed = errors.New("config validation failed")
)

// Config is the full platform configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Runner  RunnerConfig  `yaml:"runner" json:"runner"`
	Planner PlannerConfig `yaml:"planner" json:"planner"`
	Process ProcessConfig `yaml:"process" json:"process"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// RunnerConfig configures the resilient action runner.
type RunnerConfig struct {
	MaxConcurrent           int      `yaml:"max_concurrent" json:"max_concurrent"`
	CircuitBreakerThreshold int      `yaml:"circuit_breaker_threshold" json:"circuit_breaker_threshold"`
	CircuitBreakerTimeout   Duration `yaml:"circuit_breaker_timeout" json:"circuit_breaker_timeout"`
}

// PlannerConfig configures the forward planner.
type PlannerConfig struct {
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
}

// ProcessConfig configures default process options.
type ProcessConfig struct {
	AllowGoalChange bool         `yaml:"allow_goal_change" json:"allow_goal_change"`
	Budget          BudgetConfig `yaml:"budget" json:"budget"`
}

// BudgetConfig configures process resource ceilings. Zero means unlimited.
type BudgetConfig struct {
	Actions int     `yaml:"actions" json:"actions"`
	Tokens  int     `yaml:"tokens" json:"tokens"`
	Cost    float64 `yaml:"cost" json:"cost"`
}

// StorageConfig selects and configures persistence backends.
type StorageConfig struct {
	// Events selects the event store backend: memory, sqlite or postgres.
	Events string `yaml:"events" json:"events"`

	// Processes selects the process store backend: memory or sqlite.
	Processes string `yaml:"processes" json:"processes"`

	SQLite   SQLiteConfig   `yaml:"sqlite" json:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres" json:"postgres"`
	Redis    RedisConfig    `yaml:"redis" json:"redis"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	Path        string `yaml:"path" json:"path"`
	AutoMigrate bool   `yaml:"auto_migrate" json:"auto_migrate"`
}

// PostgresConfig configures the postgres backend.
type PostgresConfig struct {
	DSN    string `yaml:"dsn" json:"dsn"`
	Schema string `yaml:"schema" json:"schema"`
}

// RedisConfig configures the blackboard snapshot cache.
type RedisConfig struct {
	Addr      string   `yaml:"addr" json:"addr"`
	Password  string   `yaml:"password" json:"password"`
	DB        int      `yaml:"db" json:"db"`
	KeyPrefix string   `yaml:"key_prefix" json:"key_prefix"`
	TTL       Duration `yaml:"ttl" json:"ttl"`
}

// Default returns a configuration with sensible defaults: console logging,
// in-memory storage, the default budget.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Runner: RunnerConfig{
			MaxConcurrent:           10,
			CircuitBreakerThreshold: 5,
			CircuitBreakerTimeout:   Duration(30 * time.Second),
		},
		Planner: PlannerConfig{
			MaxDepth: 20,
		},
		Process: ProcessConfig{
			AllowGoalChange: true,
			Budget: BudgetConfig{
				Actions: 50,
				Cost:    2.0,
			},
		},
		Storage: StorageConfig{
			Events:    "memory",
			Processes: "memory",
			SQLite: SQLiteConfig{
				AutoMigrate: true,
			},
		},
	}
}

// Validate checks the configuration for usage errors.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrValidationFailed, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrValidationFailed, c.Logging.Format)
	}

	if c.Process.Budget.Actions < 0 || c.Process.Budget.Tokens < 0 || c.Process.Budget.Cost < 0 {
		return fmt.Errorf("%w: budget ceilings must be non-negative", ErrValidationFailed)
	}
	if c.Planner.MaxDepth < 0 {
		return fmt.Errorf("%w: planner max_depth must be non-negative", ErrValidationFailed)
	}

	switch c.Storage.Events {
	case "", "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown event store backend %q", ErrValidationFailed, c.Storage.Events)
	}
	switch c.Storage.Processes {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("%w: unknown process store backend %q", ErrValidationFailed, c.Storage.Processes)
	}

	return nil
}

// ProcessOptions converts the process section into domain options.
func (c *Config) ProcessOptions() process.Options {
	return process.Options{
		AllowGoalChange: c.Process.AllowGoalChange,
		Budget: policy.Budget{
			Actions: c.Process.Budget.Actions,
			Tokens:  c.Process.Budget.Tokens,
			Cost:    c.Process.Budget.Cost,
		},
	}
}

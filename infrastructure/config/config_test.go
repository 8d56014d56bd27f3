package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Process.Budget.Actions != 50 {
		t.Errorf("Budget.Actions = %d, want 50", cfg.Process.Budget.Actions)
	}
	if cfg.Storage.Events != "memory" {
		t.Errorf("Storage.Events = %s, want memory", cfg.Storage.Events)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadString_YAML(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader().LoadString(`
logging:
  level: debug
  format: json
runner:
  max_concurrent: 4
  circuit_breaker_threshold: 2
  circuit_breaker_timeout: 5s
process:
  allow_goal_change: false
  budget:
    actions: 7
    cost: 0.5
storage:
  events: sqlite
  sqlite:
    path: /tmp/goapflow.db
    auto_migrate: true
`, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Runner.MaxConcurrent != 4 {
		t.Errorf("Runner.MaxConcurrent = %d, want 4", cfg.Runner.MaxConcurrent)
	}
	if cfg.Runner.CircuitBreakerTimeout.Duration() != 5*time.Second {
		t.Errorf("Runner.CircuitBreakerTimeout = %v, want 5s", cfg.Runner.CircuitBreakerTimeout)
	}
	if cfg.Process.AllowGoalChange {
		t.Error("AllowGoalChange should be false")
	}
	if cfg.Process.Budget.Actions != 7 || cfg.Process.Budget.Cost != 0.5 {
		t.Errorf("budget = %+v", cfg.Process.Budget)
	}
	if cfg.Storage.Events != "sqlite" || cfg.Storage.SQLite.Path != "/tmp/goapflow.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}

	// Untouched sections keep their defaults.
	if cfg.Planner.MaxDepth != 20 {
		t.Errorf("Planner.MaxDepth = %d, want the default 20", cfg.Planner.MaxDepth)
	}
}

func TestLoadString_EnvExpansion(t *testing.T) {
	t.Setenv("GOAPFLOW_TEST_LEVEL", "warn")

	cfg, err := NewLoader().LoadString(`
logging:
  level: ${GOAPFLOW_TEST_LEVEL}
storage:
  postgres:
    dsn: ${GOAPFLOW_TEST_DSN:-postgres://localhost/goapflow}
`, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want the env value", cfg.Logging.Level)
	}
	if cfg.Storage.Postgres.DSN != "postgres://localhost/goapflow" {
		t.Errorf("Postgres.DSN = %s, want the default fallback", cfg.Storage.Postgres.DSN)
	}
}

func TestLoadString_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"negative budget", "process:\n  budget:\n    actions: -1\n"},
		{"bad event backend", "storage:\n  events: cassandra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewLoader().LoadString(tt.yaml, FormatYAML); !errors.Is(err, ErrValidationFailed) {
				t.Errorf("LoadString() error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("yaml file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "platform.yaml")
		if err := os.WriteFile(path, []byte("planner:\n  max_depth: 8\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cfg, err := NewLoader().LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.Planner.MaxDepth != 8 {
			t.Errorf("Planner.MaxDepth = %d, want 8", cfg.Planner.MaxDepth)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadFile() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "platform.toml")
		if err := os.WriteFile(path, []byte("x = 1"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if _, err := NewLoader().LoadFile(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("LoadFile() error = %v, want ErrUnsupportedFormat", err)
		}
	})
}

func TestProcessOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Process.AllowGoalChange = false
	cfg.Process.Budget.Tokens = 1000

	opts := cfg.ProcessOptions()
	if opts.AllowGoalChange {
		t.Error("AllowGoalChange should carry over")
	}
	if opts.Budget.Tokens != 1000 || opts.Budget.Actions != 50 {
		t.Errorf("budget = %+v", opts.Budget)
	}
}

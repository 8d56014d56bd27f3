package application_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zwp88/goapflow/application"
	"github.com/zwp88/goapflow/domain/process"
	"github.com/zwp88/goapflow/infrastructure/config"
)

func TestBuildServices_Defaults(t *testing.T) {
	t.Parallel()

	s, err := application.BuildServices(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("BuildServices() error = %v", err)
	}
	if s.Planner == nil || s.Runner == nil || s.Listener == nil {
		t.Error("defaults should populate planner, runner and listener")
	}
	if s.Events == nil || s.Processes == nil {
		t.Error("defaults should populate in-memory stores")
	}
	_ = s.Events.Close()
	_ = s.Processes.Close()
}

func TestBuildServices_SQLite(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Storage.Events = "sqlite"
	cfg.Storage.Processes = "sqlite"
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "platform.db")

	ctx := context.Background()
	s, err := application.BuildServices(ctx, cfg)
	if err != nil {
		t.Fatalf("BuildServices() error = %v", err)
	}
	defer func() {
		_ = s.Events.Close()
		_ = s.Processes.Close()
	}()

	// The migrated store is usable immediately.
	if err := s.Processes.Save(ctx, process.Snapshot{ID: "p-1", Agent: "a"}); err != nil {
		t.Errorf("Save() against sqlite store error = %v", err)
	}
}

func TestBuildServices_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Storage.Events = "etcd"

	if _, err := application.BuildServices(context.Background(), cfg); err == nil {
		t.Error("BuildServices() with unknown backend should fail")
	}
}

func TestNewPlatformFromConfig(t *testing.T) {
	t.Parallel()

	p, err := application.NewPlatformFromConfig(context.Background(), "configured", config.Default())
	if err != nil {
		t.Fatalf("NewPlatformFromConfig() error = %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Name() != "configured" {
		t.Errorf("Name() = %s, want configured", p.Name())
	}
}

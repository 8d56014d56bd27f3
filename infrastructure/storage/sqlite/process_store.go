package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/zwp88/goapflow/domain/process"
)

// ProcessStore is a SQLite-backed implementation of process.Store.
type ProcessStore struct {
	db *sql.DB
}

// NewProcessStore creates a SQLite process store with the given configuration.
func NewProcessStore(cfg Config, opts ...Option) (*ProcessStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &ProcessStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewProcessStoreFromDB creates a process store from an existing database connection.
func NewProcessStoreFromDB(db *sql.DB) (*ProcessStore, error) {
	s := &ProcessStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate creates the processes table if it doesn't exist.
func (s *ProcessStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS processes (
			id TEXT PRIMARY KEY,
			agent TEXT NOT NULL,
			status TEXT NOT NULL,
			goal TEXT,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_processes_status ON processes(status);
		CREATE INDEX IF NOT EXISTS idx_processes_agent ON processes(agent);
		CREATE INDEX IF NOT EXISTS idx_processes_created_at ON processes(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Save inserts or replaces a process snapshot.
func (s *ProcessStore) Save(ctx context.Context, snap process.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO processes (id, agent, status, goal, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status = excluded.status, goal = excluded.goal,
			data = excluded.data, updated_at = excluded.updated_at`,
		snap.ID, snap.Agent, string(snap.Status), snap.Goal,
		data, snap.CreatedAt.Unix(), now,
	)
	return err
}

// Get retrieves a process snapshot by ID.
func (s *ProcessStore) Get(ctx context.Context, id string) (process.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return process.Snapshot{}, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM processes WHERE id = ?",
		id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return process.Snapshot{}, process.ErrNotFound
	}
	if err != nil {
		return process.Snapshot{}, err
	}

	var snap process.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return process.Snapshot{}, err
	}
	return snap, nil
}

// List returns all process snapshots ordered by creation time.
func (s *ProcessStore) List(ctx context.Context) ([]process.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM processes ORDER BY created_at",
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snaps []process.Snapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var snap process.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue // skip malformed entries
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Delete removes a process snapshot by ID.
func (s *ProcessStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM processes WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return process.ErrNotFound
	}
	return nil
}

// Close closes the database connection.
func (s *ProcessStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *ProcessStore) DB() *sql.DB {
	return s.db
}

var _ process.Store = (*ProcessStore)(nil)

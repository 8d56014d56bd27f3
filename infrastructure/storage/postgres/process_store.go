package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zwp88/goapflow/domain/process"
)

// ProcessStore is a PostgreSQL-backed implementation of process.Store.
type ProcessStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewProcessStore creates a PostgreSQL process store on an existing pool.
func NewProcessStore(pool *pgxpool.Pool, schema string) *ProcessStore {
	if schema == "" {
		schema = "public"
	}
	return &ProcessStore{pool: pool, schema: schema}
}

// Schema returns the configured database schema.
func (s *ProcessStore) Schema() string {
	return s.schema
}

func (s *ProcessStore) tableName() string {
	return fmt.Sprintf("%s.processes", s.schema)
}

// Migrate creates the processes table if it doesn't exist.
func (s *ProcessStore) Migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			agent TEXT NOT NULL,
			status TEXT NOT NULL,
			goal TEXT,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_processes_status ON %s (status);
		CREATE INDEX IF NOT EXISTS idx_processes_agent ON %s (agent);
	`, s.tableName(), s.tableName(), s.tableName())

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return errors.Join(ErrConnectionFailed, err)
	}
	return nil
}

// Save inserts or replaces a process snapshot.
func (s *ProcessStore) Save(ctx context.Context, snap process.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, agent, status, goal, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status, goal = EXCLUDED.goal,
			data = EXCLUDED.data, updated_at = NOW()
	`, s.tableName())

	_, err = s.pool.Exec(ctx, query,
		snap.ID, snap.Agent, string(snap.Status), snap.Goal, data, snap.CreatedAt,
	)
	if err != nil {
		return errors.Join(ErrConnectionFailed, err)
	}
	return nil
}

// Get retrieves a process snapshot by ID.
func (s *ProcessStore) Get(ctx context.Context, id string) (process.Snapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE id = $1", s.tableName()),
		id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return process.Snapshot{}, process.ErrNotFound
	}
	if err != nil {
		return process.Snapshot{}, errors.Join(ErrConnectionFailed, err)
	}

	var snap process.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return process.Snapshot{}, err
	}
	return snap, nil
}

// List returns all process snapshots ordered by creation time.
func (s *ProcessStore) List(ctx context.Context) ([]process.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT data FROM %s ORDER BY created_at", s.tableName()),
	)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	defer rows.Close()

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
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName()),
		id,
	)
	if err != nil {
		return errors.Join(ErrConnectionFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return process.ErrNotFound
	}
	return nil
}

// Close releases the connection pool.
func (s *ProcessStore) Close() error {
	s.pool.Close()
	return nil
}

var _ process.Store = (*ProcessStore)(nil)

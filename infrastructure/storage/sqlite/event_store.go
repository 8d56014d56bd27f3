package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zwp88/goapflow/domain/event"
)

// EventStore is a SQLite-backed implementation of event.Store.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a SQLite event store with the given configuration.
func NewEventStore(cfg Config, opts ...Option) (*EventStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &EventStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewEventStoreFromDB creates an event store from an existing database connection.
func NewEventStoreFromDB(db *sql.DB) (*EventStore, error) {
	s := &EventStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate creates the events table if it doesn't exist.
func (s *EventStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			process_id TEXT NOT NULL,
			type TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_process_id ON events(process_id);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_events_process_seq ON events(process_id, sequence);
		CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Append persists events atomically, assigning per-process sequence numbers.
func (s *EventStore) Append(ctx context.Context, events ...event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (id, process_id, type, sequence, timestamp, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().Unix()

	// Current sequence high-water mark per process.
	sequences := make(map[string]uint64)
	for _, e := range events {
		if e.Type == "" || e.ProcessID == "" {
			return event.ErrInvalidEvent
		}
		if _, ok := sequences[e.ProcessID]; ok {
			continue
		}
		var maxSeq sql.NullInt64
		err := tx.QueryRowContext(ctx,
			"SELECT MAX(sequence) FROM events WHERE process_id = ?",
			e.ProcessID,
		).Scan(&maxSeq)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if maxSeq.Valid {
			sequences[e.ProcessID] = uint64(maxSeq.Int64)
		}
	}

	for i := range events {
		e := events[i]

		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		sequences[e.ProcessID]++
		e.Sequence = sequences[e.ProcessID]

		data, err := json.Marshal(e)
		if err != nil {
			return err
		}

		if _, err := stmt.ExecContext(ctx,
			e.ID, e.ProcessID, string(e.Type), e.Sequence, e.Timestamp.Unix(), data, now,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load retrieves all events for a process in sequence order.
func (s *EventStore) Load(ctx context.Context, processID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM events WHERE process_id = ? ORDER BY sequence",
		processID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []event.Event
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var e event.Event
		if err := json.Unmarshal(data, &e); err != nil {
			continue // skip malformed entries
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, event.ErrProcessNotFound
	}
	return events, nil
}

// Close closes the database connection.
func (s *EventStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *EventStore) DB() *sql.DB {
	return s.db
}

var _ event.Store = (*EventStore)(nil)

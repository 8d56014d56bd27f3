package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zwp88/goapflow/domain/event"
)

// EventStore is a PostgreSQL-backed implementation of event.Store.
type EventStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewEventStore creates a PostgreSQL event store on an existing pool.
func NewEventStore(pool *pgxpool.Pool, schema string) *EventStore {
	if schema == "" {
		schema = "public"
	}
	return &EventStore{pool: pool, schema: schema}
}

// Schema returns the configured database schema.
func (s *EventStore) Schema() string {
	return s.schema
}

func (s *EventStore) tableName() string {
	return fmt.Sprintf("%s.events", s.schema)
}

// Migrate creates the events table if it doesn't exist.
func (s *EventStore) Migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			process_id TEXT NOT NULL,
			type TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			payload JSONB,
			sequence BIGINT NOT NULL,
			UNIQUE (process_id, sequence)
		);
		CREATE INDEX IF NOT EXISTS idx_events_process_id ON %s (process_id);
	`, s.tableName(), s.tableName())

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return s.wrapError(err)
	}
	return nil
}

// Append persists events atomically, assigning per-process sequence numbers.
func (s *EventStore) Append(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return s.wrapError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Current sequence high-water mark per process.
	sequences := make(map[string]uint64)
	for _, e := range events {
		if e.Type == "" || e.ProcessID == "" {
			return event.ErrInvalidEvent
		}
		if _, ok := sequences[e.ProcessID]; ok {
			continue
		}
		var maxSeq *uint64
		err := tx.QueryRow(ctx,
			fmt.Sprintf("SELECT MAX(sequence) FROM %s WHERE process_id = $1", s.tableName()),
			e.ProcessID,
		).Scan(&maxSeq)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return s.wrapError(err)
		}
		if maxSeq != nil {
			sequences[e.ProcessID] = *maxSeq
		}
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (id, process_id, type, timestamp, payload, sequence)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.tableName())

	for i := range events {
		e := events[i]

		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		sequences[e.ProcessID]++
		e.Sequence = sequences[e.ProcessID]

		if _, err := tx.Exec(ctx, insertQuery,
			e.ID, e.ProcessID, string(e.Type), e.Timestamp, e.Payload, e.Sequence,
		); err != nil {
			return s.wrapError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return s.wrapError(err)
	}
	return nil
}

// Load retrieves all events for a process in sequence order.
func (s *EventStore) Load(ctx context.Context, processID string) ([]event.Event, error) {
	query := fmt.Sprintf(`
		SELECT id, process_id, type, timestamp, payload, sequence
		FROM %s
		WHERE process_id = $1
		ORDER BY sequence ASC
	`, s.tableName())

	rows, err := s.pool.Query(ctx, query, processID)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var e event.Event
		var eventType string

		if err := rows.Scan(
			&e.ID, &e.ProcessID, &eventType, &e.Timestamp, &e.Payload, &e.Sequence,
		); err != nil {
			return nil, s.wrapError(err)
		}

		e.Type = event.Type(eventType)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapError(err)
	}
	if len(events) == 0 {
		return nil, event.ErrProcessNotFound
	}
	return events, nil
}

// Close releases the connection pool.
func (s *EventStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *EventStore) wrapError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(event.ErrConnectionFailed, err)
}

var _ event.Store = (*EventStore)(nil)

package event

import "context"

// Store persists agentic events per process, append-ordered with sequence
// numbers. Implementations may be in-memory, SQLite or PostgreSQL.
type Store interface {
	// Append stores events, assigning per-process sequence numbers.
	Append(ctx context.Context, events ...Event) error

	// Load returns all events for a process in sequence order.
	Load(ctx context.Context, processID string) ([]Event, error)

	// Close releases any resources held by the store.
	Close() error
}

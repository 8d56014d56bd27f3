// Package memory provides in-memory implementations of the storage ports,
// the default backends for tests and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zwp88/goapflow/domain/event"
)

// EventStore is an in-memory implementation of event.Store.
type EventStore struct {
	mu     sync.RWMutex
	events map[string][]event.Event
}

// NewEventStore creates an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string][]event.Event),
	}
}

// Append implements event.Store, assigning per-process sequence numbers.
func (s *EventStore) Append(ctx context.Context, events ...event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e.Type == "" || e.ProcessID == "" {
			return event.ErrInvalidEvent
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.Sequence = uint64(len(s.events[e.ProcessID])) + 1
		s.events[e.ProcessID] = append(s.events[e.ProcessID], e)
	}
	return nil
}

// Load implements event.Store.
func (s *EventStore) Load(ctx context.Context, processID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.events[processID]
	if !ok {
		return nil, event.ErrProcessNotFound
	}
	out := make([]event.Event, len(stored))
	copy(out, stored)
	return out, nil
}

// Close implements event.Store.
func (s *EventStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]event.Event)
	return nil
}

var _ event.Store = (*EventStore)(nil)

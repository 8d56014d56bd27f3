package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for platform logging.

// ProcessID adds a process id field.
func ProcessID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("process_id", id)
	}
}

// AgentName adds an agent field.
func AgentName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("agent", name)
	}
}

// ActionName adds an action field.
func ActionName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", name)
	}
}

// GoalName adds a goal field.
func GoalName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal", name)
	}
}

// Status adds a status field.
func Status(s string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("status", s)
	}
}

// FromStatus adds a from_status field for transitions.
func FromStatus(s string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_status", s)
	}
}

// ToStatus adds a to_status field for transitions.
func ToStatus(s string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_status", s)
	}
}

// EventType adds an event type field.
func EventType(t string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("event_type", t)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

package event

import "errors"

// Domain errors for event store operations.
var (
	// ErrProcessNotFound is returned when no events exist for a process.
	ErrProcessNotFound = errors.New("process not found in event store")

	// ErrInvalidEvent is returned when an event is malformed.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrConnectionFailed is returned when connection to the store backend fails.
	ErrConnectionFailed = errors.New("event store connection failed")
)

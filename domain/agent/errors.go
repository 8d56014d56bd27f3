package agent

import "errors"

// Usage errors raised at agent definition time.
var (
	// ErrBlankName is returned when an agent name is blank.
	ErrBlankName = errors.New("agent name must not be blank")

	// ErrNoGoals is returned when an agent declares no goals.
	ErrNoGoals = errors.New("agent must declare at least one goal")
)

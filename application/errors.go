package application

import "errors"

// Platform errors.
var (
	// ErrAgentExists is returned when deploying an agent whose name is taken.
	ErrAgentExists = errors.New("agent already deployed")

	// ErrAgentNotFound is returned when no deployed agent has the given name.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrProcessNotFound is returned when no process has the given id.
	ErrProcessNotFound = errors.New("process not found")

	// ErrBlankPlatformName is returned when constructing a nameless platform.
	ErrBlankPlatformName = errors.New("platform name must not be blank")
)

package action

import "errors"

// Domain errors for action definition and execution.
var (
	// ErrNoHandler is returned when an action has no executable body.
	ErrNoHandler = errors.New("action has no handler")

	// ErrBlankName is returned when an action name is blank.
	ErrBlankName = errors.New("action name must not be blank")
)

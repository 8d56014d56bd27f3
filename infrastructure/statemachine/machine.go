// Package statemachine provides the statekit-backed process lifecycle. The
// statechart is the authority on which status transitions exist; the plain
// in-domain lifecycle accepts anything, this one rejects transitions the
// chart does not model.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/zwp88/goapflow/domain/process"
)

// Context carries process identity through the state machine.
type Context struct {
	ProcessID string
}

// State IDs as StateID type for statekit.
const (
	stateNotStarted statekit.StateID = statekit.StateID(process.StatusNotStarted)
	stateRunning    statekit.StateID = statekit.StateID(process.StatusRunning)
	stateCompleted  statekit.StateID = statekit.StateID(process.StatusCompleted)
	stateFailed     statekit.StateID = statekit.StateID(process.StatusFailed)
	stateWaiting    statekit.StateID = statekit.StateID(process.StatusWaiting)
	statePaused     statekit.StateID = statekit.StateID(process.StatusPaused)
	stateStuck      statekit.StateID = statekit.StateID(process.StatusStuck)
	stateTerminated statekit.StateID = statekit.StateID(process.StatusTerminated)
	stateKilled     statekit.StateID = statekit.StateID(process.StatusKilled)
)

// NewProcessMachine creates the canonical process lifecycle statechart.
// Resumable statuses (waiting, paused, stuck, failed) transition back to
// running; completed, terminated and killed are final.
func NewProcessMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("process").
		WithInitial(stateNotStarted).
		WithContext(&Context{}).
		WithAction("logEntry", logStateEntry).
		State(stateNotStarted).
			OnEntry("logEntry").
			On("RUN").Target(stateRunning).
			On("KILL").Target(stateKilled).
			Done().
		State(stateRunning).
			OnEntry("logEntry").
			On("COMPLETE").Target(stateCompleted).
			On("FAIL").Target(stateFailed).
			On("WAIT").Target(stateWaiting).
			On("PAUSE").Target(statePaused).
			On("STICK").Target(stateStuck).
			On("TERMINATE").Target(stateTerminated).
			On("KILL").Target(stateKilled).
			Done().
		State(stateWaiting).
			OnEntry("logEntry").
			On("RUN").Target(stateRunning).
			On("KILL").Target(stateKilled).
			Done().
		State(statePaused).
			OnEntry("logEntry").
			On("RUN").Target(stateRunning).
			On("KILL").Target(stateKilled).
			Done().
		State(stateStuck).
			OnEntry("logEntry").
			On("RUN").Target(stateRunning).
			On("KILL").Target(stateKilled).
			Done().
		State(stateFailed).
			OnEntry("logEntry").
			On("RUN").Target(stateRunning).
			On("KILL").Target(stateKilled).
			Done().
		State(stateCompleted).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateTerminated).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateKilled).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}

// EventForTransition returns the event type that reaches the target status.
func EventForTransition(to process.Status) statekit.EventType {
	switch to {
	case process.StatusRunning:
		return "RUN"
	case process.StatusCompleted:
		return "COMPLETE"
	case process.StatusFailed:
		return "FAIL"
	case process.StatusWaiting:
		return "WAIT"
	case process.StatusPaused:
		return "PAUSE"
	case process.StatusStuck:
		return "STICK"
	case process.StatusTerminated:
		return "TERMINATE"
	case process.StatusKilled:
		return "KILL"
	default:
		return statekit.EventType(to)
	}
}

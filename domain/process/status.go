// Package process provides the AgentProcess: one run of an agent, driving
// the plan-then-execute tick loop over its own blackboard.
package process

// Status is the lifecycle state of a process.
type Status string

const (
	// StatusNotStarted means the process has never been run.
	StatusNotStarted Status = "NOT_STARTED"

	// StatusRunning means the tick loop is advancing.
	StatusRunning Status = "RUNNING"

	// StatusCompleted means a goal was reached. Terminal.
	StatusCompleted Status = "COMPLETED"

	// StatusFailed means an action failed after retries, or a usage error
	// surfaced. The process halts; a caller may intervene and run again.
	StatusFailed Status = "FAILED"

	// StatusWaiting means an action needs external input before the process
	// can proceed. Resolved by binding a response and running again.
	StatusWaiting Status = "WAITING"

	// StatusPaused means an action requested a pause pending intervention.
	StatusPaused Status = "PAUSED"

	// StatusStuck means the planner found no path to any goal.
	StatusStuck Status = "STUCK"

	// StatusTerminated means an early-termination policy fired. Terminal.
	StatusTerminated Status = "TERMINATED"

	// StatusKilled means an operator killed the process. Terminal.
	StatusKilled Status = "KILLED"
)

// IsTerminal reports whether a process in this status refuses to restart.
// Failed, waiting, paused and stuck processes may be run again after
// external intervention; completed, terminated and killed ones may not.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusTerminated, StatusKilled:
		return true
	default:
		return false
	}
}

package process

import "errors"

var (
	// ErrNilAgent is returned when a process is created without an agent.
	ErrNilAgent = errors.New("process requires an agent")

	// ErrNilPlanner is returned when a process is created without a planner.
	ErrNilPlanner = errors.New("process requires a planner")

	// ErrGoalChange is the failure cause when the planner switches goals
	// mid-run and the process forbids goal changes. This is a usage error in
	// the agent definition, not a runtime fault.
	ErrGoalChange = errors.New("goal changed mid-run")

	// ErrNotFound is returned by stores when no process has the given id.
	ErrNotFound = errors.New("process not found")
)

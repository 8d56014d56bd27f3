package process

import "github.com/zwp88/goapflow/domain/policy"

// Options govern one process run.
type Options struct {
	// AllowGoalChange permits the planner to switch to a different goal
	// between ticks. When false, a goal switch fails the process with
	// ErrGoalChange.
	AllowGoalChange bool

	// Budget caps the run's resource consumption. Zero ceilings are
	// unlimited. Ignored when EarlyTermination is set explicitly.
	Budget policy.Budget

	// EarlyTermination overrides the budget-derived termination policy.
	EarlyTermination policy.EarlyTerminationPolicy
}

// DefaultOptions returns permissive goal selection under the default budget.
func DefaultOptions() Options {
	return Options{
		AllowGoalChange: true,
		Budget:          policy.DefaultBudget(),
	}
}

// terminationPolicy resolves the effective policy for the run.
func (o Options) terminationPolicy() policy.EarlyTerminationPolicy {
	if o.EarlyTermination != nil {
		return o.EarlyTermination
	}
	return o.Budget.EarlyTerminationPolicy()
}

// Package plan defines the planner port the platform drives: the symbolic
// world state, the GOAP system handed to the planner, and the plan it
// returns. The search algorithm itself lives behind the Planner interface.
package plan

import (
	"context"
	"sort"
	"strings"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/condition"
	"github.com/zwp88/goapflow/domain/goal"
)

// WorldState maps condition names to their current determinations, computed
// fresh from the blackboard every tick.
type WorldState map[string]condition.Determination

// Satisfies reports whether every required determination matches the state.
// Unknown never satisfies a requirement; the planner must treat "cannot
// determine" as unsatisfied.
func (ws WorldState) Satisfies(required map[string]condition.Determination) bool {
	for name, want := range required {
		if ws[name] != want {
			return false
		}
	}
	return true
}

// Apply returns a copy of the state with the given effects applied.
func (ws WorldState) Apply(effects map[string]condition.Determination) WorldState {
	next := make(WorldState, len(ws)+len(effects))
	for k, v := range ws {
		next[k] = v
	}
	for k, v := range effects {
		next[k] = v
	}
	return next
}

// Key returns a canonical string form of the state, usable as a visited-set
// key during search.
func (ws WorldState) Key() string {
	names := make([]string, 0, len(ws))
	for name := range ws {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(ws[name].String())
		sb.WriteByte(';')
	}
	return sb.String()
}

// System is the GOAP problem handed to the planner: the available actions,
// the candidate goals, and the current world state.
type System struct {
	Actions []*action.Action
	Goals   []*goal.Goal
	State   WorldState
}

// Plan is an ordered action sequence toward a chosen goal.
type Plan struct {
	// Actions are the remaining actions, first to execute at index 0.
	Actions []*action.Action

	// Goal is the goal the plan reaches.
	Goal *goal.Goal

	// Cost is the summed cost of the remaining actions.
	Cost float64
}

// IsComplete reports whether the goal is already reached, with no remaining
// actions to execute.
func (p *Plan) IsComplete() bool {
	return len(p.Actions) == 0
}

// NetValue is the goal value less the plan cost, the quantity best-value
// selection maximizes.
func (p *Plan) NetValue() float64 {
	return p.Goal.Value() - p.Cost
}

// ActionNames returns the remaining action names in order.
func (p *Plan) ActionNames() []string {
	names := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		names[i] = a.Name()
	}
	return names
}

// Planner is the injected planning algorithm. BestValuePlanToAnyGoal returns
// the highest net-value plan reaching any of the system's goals from the
// current state, or nil when no goal is reachable.
type Planner interface {
	BestValuePlanToAnyGoal(ctx context.Context, sys System) (*Plan, error)
}

package process

import (
	"context"
	"strings"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/agent"
	"github.com/zwp88/goapflow/domain/bind"
	"github.com/zwp88/goapflow/domain/blackboard"
	"github.com/zwp88/goapflow/domain/condition"
	"github.com/zwp88/goapflow/domain/plan"
)

// WorldStateDeterminer computes the symbolic world state handed to the
// planner. It runs fresh at every tick; nothing about condition truth is
// cached across ticks.
type WorldStateDeterminer interface {
	Determine(ctx context.Context, ag *agent.Agent, bb *blackboard.Blackboard) plan.WorldState
}

// blackboardDeterminer is the default determiner. It collects every condition
// name referenced by the agent's actions and goals and determines each one:
//
//   - binding-form names ("name:Type") are TRUE iff the blackboard resolves
//     a satisfying value;
//   - rerun-guard names default FALSE until the guarded action has run;
//   - names with a registered condition evaluate it, tri-valued;
//   - remaining names read the explicit flag, UNKNOWN when unset.
type blackboardDeterminer struct{}

// NewDeterminer returns the default blackboard-backed determiner.
func NewDeterminer() WorldStateDeterminer {
	return blackboardDeterminer{}
}

func (blackboardDeterminer) Determine(_ context.Context, ag *agent.Agent, bb *blackboard.Blackboard) plan.WorldState {
	names := make(map[string]struct{})
	for _, act := range ag.Actions() {
		for name := range act.Preconditions() {
			names[name] = struct{}{}
		}
		for name := range act.Effects() {
			names[name] = struct{}{}
		}
	}
	for _, g := range ag.Goals() {
		for name := range g.Preconditions() {
			names[name] = struct{}{}
		}
	}

	conditions := ag.Conditions()
	ws := make(plan.WorldState, len(names))
	for name := range names {
		ws[name] = determine(name, conditions, bb)
	}
	return ws
}

func determine(name string, conditions map[string]condition.Condition, bb *blackboard.Blackboard) condition.Determination {
	if bind.IsConditionName(name) {
		b := bind.MustParse(name)
		_, ok := bb.GetValue(b.Name(), b.TypeName())
		return condition.FromBool(ok)
	}

	if strings.HasPrefix(name, action.HasRunPrefix) {
		v, set := bb.GetCondition(name)
		return condition.FromBool(set && v)
	}

	if c, ok := conditions[name]; ok {
		return c.Evaluate(bb)
	}

	if v, set := bb.GetCondition(name); set {
		return condition.FromBool(v)
	}
	return condition.Unknown
}

// Package agent provides the immutable agent aggregate: actions, goals,
// conditions and inferred domain types, the unit of deployability.
package agent

import (
	"context"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/bind"
	"github.com/zwp88/goapflow/domain/blackboard"
	"github.com/zwp88/goapflow/domain/condition"
	"github.com/zwp88/goapflow/domain/goal"
)

// StuckOutcome is the result of a stuck handler invocation.
type StuckOutcome string

const (
	// OutcomeReplan means the handler changed state and the process should
	// resume ticking.
	OutcomeReplan StuckOutcome = "REPLAN"

	// OutcomeUnresolved means the impasse stands pending external
	// intervention.
	OutcomeUnresolved StuckOutcome = "UNRESOLVED"
)

// StuckHandler is invoked when a process becomes stuck or paused. It may
// mutate the blackboard to resolve the impasse.
type StuckHandler func(ctx context.Context, bb *blackboard.Blackboard) StuckOutcome

// Scope is the read view over a set of actions, goals and conditions. Both a
// single agent and a platform's aggregate of all deployed agents satisfy it.
type Scope interface {
	Name() string
	Actions() []*action.Action
	Goals() []*goal.Goal
	Conditions() map[string]condition.Condition
}

// Agent is an immutable bundle of actions, goals, conditions and inferred
// domain types. Many concurrent processes may run against the same agent.
type Agent struct {
	name         string
	description  string
	actions      []*action.Action
	goals        []*goal.Goal
	conditions   map[string]condition.Condition
	types        bind.Types
	aggregations map[string]blackboard.Factory
	stuckHandler StuckHandler
}

// Option configures an agent under construction.
type Option func(*Agent) error

// WithActions adds actions to the agent.
func WithActions(actions ...*action.Action) Option {
	return func(a *Agent) error {
		a.actions = append(a.actions, actions...)
		return nil
	}
}

// WithGoals adds goals to the agent.
func WithGoals(goals ...*goal.Goal) Option {
	return func(a *Agent) error {
		a.goals = append(a.goals, goals...)
		return nil
	}
}

// WithConditions registers named conditions evaluated at plan time.
func WithConditions(conditions ...condition.Condition) Option {
	return func(a *Agent) error {
		for _, c := range conditions {
			a.conditions[c.Name()] = c
		}
		return nil
	}
}

// WithTypes registers explicit domain types, typically Go-backed references
// that widen structural matching beyond simple names.
func WithTypes(types ...bind.DomainType) Option {
	return func(a *Agent) error {
		for _, dt := range types {
			if err := a.types.Merge(dt); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithAggregation registers a factory synthesizing a composite type from
// parts already on the blackboard.
func WithAggregation(typeName string, f blackboard.Factory) Option {
	return func(a *Agent) error {
		a.aggregations[typeName] = f
		return nil
	}
}

// WithStuckHandler attaches a handler invoked when a process gets stuck.
func WithStuckHandler(h StuckHandler) Option {
	return func(a *Agent) error {
		a.stuckHandler = h
		return nil
	}
}

// New constructs an immutable agent, inferring its domain type set by
// scanning all declared input and output bindings. An agent must declare at
// least one goal; that is validated here, at definition time.
func New(name, description string, opts ...Option) (*Agent, error) {
	if name == "" {
		return nil, ErrBlankName
	}

	a := &Agent{
		name:         name,
		description:  description,
		conditions:   make(map[string]condition.Condition),
		types:        bind.Types{},
		aggregations: make(map[string]blackboard.Factory),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if len(a.goals) == 0 {
		return nil, ErrNoGoals
	}

	// Infer domain types from every referenced binding. References merge:
	// two mentions of the same name union their properties.
	for _, act := range a.actions {
		for _, b := range act.Inputs() {
			if err := a.types.Merge(bind.DomainType{Name: b.TypeName()}); err != nil {
				return nil, err
			}
		}
		for _, b := range act.Outputs() {
			if err := a.types.Merge(bind.DomainType{Name: b.TypeName()}); err != nil {
				return nil, err
			}
		}
	}
	for _, g := range a.goals {
		if g.OutputTypeName() != "" {
			if err := a.types.Merge(bind.DomainType{Name: g.OutputTypeName()}); err != nil {
				return nil, err
			}
		}
	}

	return a, nil
}

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Description returns the agent description.
func (a *Agent) Description() string { return a.description }

// Actions returns the agent's actions.
func (a *Agent) Actions() []*action.Action {
	out := make([]*action.Action, len(a.actions))
	copy(out, a.actions)
	return out
}

// Goals returns the agent's goals.
func (a *Agent) Goals() []*goal.Goal {
	out := make([]*goal.Goal, len(a.goals))
	copy(out, a.goals)
	return out
}

// Conditions returns the agent's registered conditions by name.
func (a *Agent) Conditions() map[string]condition.Condition {
	out := make(map[string]condition.Condition, len(a.conditions))
	for k, v := range a.conditions {
		out[k] = v
	}
	return out
}

// Types returns the agent's inferred domain type set.
func (a *Agent) Types() bind.Types {
	return a.types.Clone()
}

// StuckHandler returns the optional stuck handler.
func (a *Agent) StuckHandler() StuckHandler { return a.stuckHandler }

// NewBlackboard creates a process blackboard seeded with the agent's domain
// types and aggregation factories.
func (a *Agent) NewBlackboard() *blackboard.Blackboard {
	bb := blackboard.New(a.types.Clone())
	for typeName, f := range a.aggregations {
		bb.RegisterAggregation(typeName, f)
	}
	return bb
}

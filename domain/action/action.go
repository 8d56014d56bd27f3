package action

import (
	"context"

	"github.com/zwp88/goapflow/domain/bind"
	"github.com/zwp88/goapflow/domain/blackboard"
	"github.com/zwp88/goapflow/domain/condition"
)

// HasRunPrefix prefixes the synthetic condition guarding non-rerunnable
// actions against a second selection within one process.
const HasRunPrefix = "hasRun_"

// HasRunConditionName returns the synthetic rerun-guard condition name for an
// action.
func HasRunConditionName(actionName string) string {
	return HasRunPrefix + actionName
}

// Context is the execution context handed to an action body.
type Context struct {
	// ProcessID identifies the owning process run.
	ProcessID string

	// Blackboard is the process state store the body reads from and the
	// platform binds outputs onto.
	Blackboard *blackboard.Blackboard
}

// Handler is the executable body of an action. It returns an explicit Result
// rather than signalling suspension through errors.
type Handler func(ctx context.Context, ec *Context) Result

// Action is an immutable descriptor of a unit of work. It is stateless and
// reusable across many processes; preconditions and effects are computed once
// at build time, while their truth is re-evaluated against the live
// blackboard every planning tick.
type Action struct {
	name        string
	description string
	inputs      []bind.Binding
	outputs     []bind.Binding
	pres        []string
	posts       []string
	cost        float64
	value       float64
	canRerun    bool
	qos         QoS
	toolGroups  []string
	handler     Handler

	preconditions map[string]condition.Determination
	effects       map[string]condition.Determination
}

// Name returns the action name.
func (a *Action) Name() string { return a.name }

// Description returns the human-readable description.
func (a *Action) Description() string { return a.description }

// Inputs returns the declared input bindings.
func (a *Action) Inputs() []bind.Binding { return a.inputs }

// Outputs returns the declared output bindings.
func (a *Action) Outputs() []bind.Binding { return a.outputs }

// Cost returns the planning cost of executing the action.
func (a *Action) Cost() float64 { return a.cost }

// Value returns the planning value of the action.
func (a *Action) Value() float64 { return a.value }

// CanRerun reports whether the planner may select the action more than once
// within one process.
func (a *Action) CanRerun() bool { return a.canRerun }

// QoS returns the retry/timeout policy.
func (a *Action) QoS() QoS { return a.qos }

// ToolGroups returns the tool group names the action requires, resolved
// through the platform's tool group resolver port.
func (a *Action) ToolGroups() []string { return a.toolGroups }

// Preconditions returns the condition determinations required before the
// planner may select the action: each explicit precondition name and each
// input binding must be TRUE; for non-rerunnable actions the synthetic
// hasRun condition must be FALSE.
func (a *Action) Preconditions() map[string]condition.Determination {
	return cloneDeterminations(a.preconditions)
}

// Effects returns the condition determinations holding after the action
// succeeds: each explicit effect name and each output binding becomes TRUE,
// and for non-rerunnable actions the synthetic hasRun condition becomes TRUE.
func (a *Action) Effects() map[string]condition.Determination {
	return cloneDeterminations(a.effects)
}

// Execute runs the action body. On success the produced output is bound to
// the declared single output name, or added anonymously when no output is
// declared. On a waiting result the awaitable marker is added to the
// blackboard. The caller is responsible for retry per the QoS policy.
func (a *Action) Execute(ctx context.Context, ec *Context) Result {
	if a.handler == nil {
		return Failed(ErrNoHandler)
	}

	res := a.handler(ctx, ec)
	switch res.Status {
	case StatusSucceeded:
		if res.Value != nil {
			if len(a.outputs) == 1 {
				ec.Blackboard.Bind(a.outputs[0].Name(), res.Value)
			} else {
				ec.Blackboard.Add(res.Value)
			}
		}
	case StatusWaiting:
		if res.Awaitable != nil {
			ec.Blackboard.Add(res.Awaitable)
		}
	}
	return res
}

func cloneDeterminations(m map[string]condition.Determination) map[string]condition.Determination {
	out := make(map[string]condition.Determination, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Builder provides a fluent API for constructing actions.
type Builder struct {
	a   *Action
	err error
}

// NewBuilder creates an action builder with the given name.
func NewBuilder(name string) *Builder {
	b := &Builder{
		a: &Action{
			name:     name,
			cost:     0,
			value:    0,
			canRerun: true,
			qos:      DefaultQoS(),
		},
	}
	if name == "" {
		b.err = ErrBlankName
	}
	return b
}

// WithDescription sets the action description.
func (b *Builder) WithDescription(desc string) *Builder {
	if b.err != nil {
		return b
	}
	b.a.description = desc
	return b
}

// WithInput declares an input binding from a "name:Type" spec.
func (b *Builder) WithInput(spec string) *Builder {
	if b.err != nil {
		return b
	}
	binding, err := bind.Parse(spec)
	if err != nil {
		b.err = err
		return b
	}
	b.a.inputs = append(b.a.inputs, binding)
	return b
}

// WithOutput declares an output binding from a "name:Type" spec.
func (b *Builder) WithOutput(spec string) *Builder {
	if b.err != nil {
		return b
	}
	binding, err := bind.Parse(spec)
	if err != nil {
		b.err = err
		return b
	}
	b.a.outputs = append(b.a.outputs, binding)
	return b
}

// WithPrecondition adds explicit precondition names required TRUE.
func (b *Builder) WithPrecondition(names ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.a.pres = append(b.a.pres, names...)
	return b
}

// WithEffect adds explicit effect names set TRUE on success.
func (b *Builder) WithEffect(names ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.a.posts = append(b.a.posts, names...)
	return b
}

// WithCost sets the planning cost.
func (b *Builder) WithCost(cost float64) *Builder {
	if b.err != nil {
		return b
	}
	b.a.cost = cost
	return b
}

// WithValue sets the planning value.
func (b *Builder) WithValue(value float64) *Builder {
	if b.err != nil {
		return b
	}
	b.a.value = value
	return b
}

// SingleUse marks the action as non-rerunnable within one process.
func (b *Builder) SingleUse() *Builder {
	if b.err != nil {
		return b
	}
	b.a.canRerun = false
	return b
}

// WithQoS sets the retry/timeout policy.
func (b *Builder) WithQoS(qos QoS) *Builder {
	if b.err != nil {
		return b
	}
	b.a.qos = qos
	return b
}

// WithToolGroups declares the tool groups the action requires.
func (b *Builder) WithToolGroups(groups ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.a.toolGroups = append(b.a.toolGroups, groups...)
	return b
}

// WithHandler sets the executable body.
func (b *Builder) WithHandler(h Handler) *Builder {
	if b.err != nil {
		return b
	}
	b.a.handler = h
	return b
}

// Build finalizes the action, deriving its preconditions and effects.
func (b *Builder) Build() (*Action, error) {
	if b.err != nil {
		return nil, b.err
	}

	a := b.a
	a.preconditions = make(map[string]condition.Determination)
	a.effects = make(map[string]condition.Determination)

	for _, name := range a.pres {
		a.preconditions[name] = condition.True
	}
	for _, in := range a.inputs {
		a.preconditions[in.String()] = condition.True
	}
	for _, name := range a.posts {
		a.effects[name] = condition.True
	}
	for _, out := range a.outputs {
		a.effects[out.String()] = condition.True
	}
	if !a.canRerun {
		guard := HasRunConditionName(a.name)
		a.preconditions[guard] = condition.False
		a.effects[guard] = condition.True
	}

	return a, nil
}

// MustBuild is like Build but panics on error. Actions are defined at agent
// construction time, so a build failure is a programming error.
func (b *Builder) MustBuild() *Action {
	a, err := b.Build()
	if err != nil {
		panic("action: " + err.Error())
	}
	return a
}

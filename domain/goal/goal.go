// Package goal provides the immutable goal descriptor: a named target
// condition set the planner tries to reach, optionally satisfied by producing
// an instance of a given output type.
package goal

import (
	"errors"

	"github.com/zwp88/goapflow/domain/bind"
	"github.com/zwp88/goapflow/domain/condition"
)

// ErrBlankName is returned when a goal name is blank.
var ErrBlankName = errors.New("goal name must not be blank")

// Goal is an immutable target. One agent may declare several; each tick the
// planner selects the best-value reachable one.
type Goal struct {
	name           string
	description    string
	pres           []string
	inputs         []bind.Binding
	outputTypeName string
	value          float64
	export         map[string]string

	preconditions map[string]condition.Determination
}

// Name returns the goal name.
func (g *Goal) Name() string { return g.name }

// Description returns the human-readable description.
func (g *Goal) Description() string { return g.description }

// Value returns the goal's value weight for best-value selection.
func (g *Goal) Value() float64 { return g.value }

// OutputTypeName returns the type whose production satisfies the goal, or
// empty when the goal is purely condition-based.
func (g *Goal) OutputTypeName() string { return g.outputTypeName }

// Export returns deployment/export metadata attached to the goal.
func (g *Goal) Export() map[string]string {
	out := make(map[string]string, len(g.export))
	for k, v := range g.export {
		out[k] = v
	}
	return out
}

// Preconditions returns the determinations that must hold for the goal to be
// satisfied, derived at build time exactly as for actions.
func (g *Goal) Preconditions() map[string]condition.Determination {
	out := make(map[string]condition.Determination, len(g.preconditions))
	for k, v := range g.preconditions {
		out[k] = v
	}
	return out
}

// Builder provides a fluent API for constructing goals.
type Builder struct {
	g   *Goal
	err error
}

// NewBuilder creates a goal builder with the given name.
func NewBuilder(name string) *Builder {
	b := &Builder{g: &Goal{name: name, value: 1.0}}
	if name == "" {
		b.err = ErrBlankName
	}
	return b
}

// WithDescription sets the goal description.
func (b *Builder) WithDescription(desc string) *Builder {
	if b.err != nil {
		return b
	}
	b.g.description = desc
	return b
}

// WithPrecondition adds condition names required TRUE for satisfaction.
func (b *Builder) WithPrecondition(names ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.g.pres = append(b.g.pres, names...)
	return b
}

// WithInput declares an input binding required for satisfaction.
func (b *Builder) WithInput(spec string) *Builder {
	if b.err != nil {
		return b
	}
	binding, err := bind.Parse(spec)
	if err != nil {
		b.err = err
		return b
	}
	b.g.inputs = append(b.g.inputs, binding)
	return b
}

// SatisfiedByType declares the goal satisfied by producing an instance of the
// named type.
func (b *Builder) SatisfiedByType(typeName string) *Builder {
	if b.err != nil {
		return b
	}
	b.g.outputTypeName = typeName
	return b
}

// WithValue sets the goal's value weight.
func (b *Builder) WithValue(value float64) *Builder {
	if b.err != nil {
		return b
	}
	b.g.value = value
	return b
}

// WithExport attaches export metadata.
func (b *Builder) WithExport(key, value string) *Builder {
	if b.err != nil {
		return b
	}
	if b.g.export == nil {
		b.g.export = make(map[string]string)
	}
	b.g.export[key] = value
	return b
}

// Build finalizes the goal, deriving its preconditions.
func (b *Builder) Build() (*Goal, error) {
	if b.err != nil {
		return nil, b.err
	}

	g := b.g
	g.preconditions = make(map[string]condition.Determination)
	for _, name := range g.pres {
		g.preconditions[name] = condition.True
	}
	for _, in := range g.inputs {
		g.preconditions[in.String()] = condition.True
	}
	if g.outputTypeName != "" {
		g.preconditions[bind.Named(bind.DefaultName, g.outputTypeName).String()] = condition.True
	}

	return g, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Goal {
	g, err := b.Build()
	if err != nil {
		panic("goal: " + err.Error())
	}
	return g
}

// Package blackboard provides the per-process shared state store. Actions
// declare the types they need and produce; the blackboard performs structural
// type resolution, supertype matching and on-demand aggregation synthesis so
// actions can fire as soon as their inputs independently exist.
package blackboard

import (
	"time"

	"github.com/zwp88/goapflow/domain/bind"
)

// Entry is one append-ordered object on the blackboard.
type Entry struct {
	// Name is the binding name the value was stored under.
	Name string

	// Value is the stored object.
	Value any

	// At is when the entry was added.
	At time.Time
}

// Observer is notified of every bind/add. It is the extension point the
// event/telemetry collaborators hook into.
type Observer func(name string, value any)

// Blackboard is the mutable, ordered, type-queryable store for one process
// run. Objects are never removed; a binding name resolves last-write-wins.
//
// A blackboard is owned by a single process and is not safe for concurrent
// mutation; callers driving one process from multiple goroutines must
// synchronize externally.
type Blackboard struct {
	bindings     map[string]any
	objects      []Entry
	conditions   map[string]bool
	types        bind.Types
	aggregations map[string]Factory
	observers    []Observer
}

// New creates an empty blackboard over the given domain type set.
func New(types bind.Types) *Blackboard {
	if types == nil {
		types = bind.Types{}
	}
	return &Blackboard{
		bindings:     make(map[string]any),
		conditions:   make(map[string]bool),
		types:        types,
		aggregations: make(map[string]Factory),
	}
}

// Bind stores a value under a name, appends it to the object list in
// insertion order, and notifies observers.
func (b *Blackboard) Bind(name string, v any) {
	if name == "" {
		name = bind.DefaultName
	}
	b.bindings[name] = v
	b.objects = append(b.objects, Entry{Name: name, Value: v, At: time.Now()})
	for _, o := range b.observers {
		o(name, v)
	}
}

// Add appends a value under the default binding name.
func (b *Blackboard) Add(v any) {
	b.Bind(bind.DefaultName, v)
}

// Get returns the raw value bound to a name, with no type filtering.
func (b *Blackboard) Get(name string) (any, bool) {
	v, ok := b.bindings[name]
	return v, ok
}

// GetValue resolves a typed value. The named binding wins if its runtime type
// structurally satisfies the requested type. Otherwise, a registered
// aggregation factory for the type is tried; a synthesized instance is added
// to the blackboard. For the default variable only, resolution falls back to
// scanning the object list for the most recent satisfying entry; explicit
// variables must match precisely or resolve to nothing.
func (b *Blackboard) GetValue(variable, typeName string) (any, bool) {
	if variable == "" {
		variable = bind.DefaultName
	}

	if v, ok := b.bindings[variable]; ok && bind.Satisfies(v, typeName, b.types) {
		return v, true
	}

	if f, ok := b.aggregations[typeName]; ok {
		if v, ok := f(b); ok {
			b.Add(v)
			return v, true
		}
	}

	if variable != bind.DefaultName {
		return nil, false
	}

	return b.LastOfType(typeName)
}

// LastOfType returns the most recently added object satisfying the named type.
func (b *Blackboard) LastOfType(typeName string) (any, bool) {
	for i := len(b.objects) - 1; i >= 0; i-- {
		if bind.Satisfies(b.objects[i].Value, typeName, b.types) {
			return b.objects[i].Value, true
		}
	}
	return nil, false
}

// CountOfType returns how many objects satisfy the named type.
func (b *Blackboard) CountOfType(typeName string) int {
	n := 0
	for _, e := range b.objects {
		if bind.Satisfies(e.Value, typeName, b.types) {
			n++
		}
	}
	return n
}

// AllOfType returns all objects satisfying the named type, in insertion order.
func (b *Blackboard) AllOfType(typeName string) []any {
	var out []any
	for _, e := range b.objects {
		if bind.Satisfies(e.Value, typeName, b.types) {
			out = append(out, e.Value)
		}
	}
	return out
}

// Objects returns a copy of the append-ordered entry list.
func (b *Blackboard) Objects() []Entry {
	out := make([]Entry, len(b.objects))
	copy(out, b.objects)
	return out
}

// SetCondition sets an explicit boolean condition flag. Flags are the escape
// hatch for plan conditions with no natural object representation.
func (b *Blackboard) SetCondition(name string, v bool) {
	b.conditions[name] = v
}

// GetCondition returns an explicit condition flag and whether it was set.
func (b *Blackboard) GetCondition(name string) (bool, bool) {
	v, ok := b.conditions[name]
	return v, ok
}

// ConditionFlag implements condition.Context.
func (b *Blackboard) ConditionFlag(name string) (bool, bool) {
	return b.GetCondition(name)
}

// Observe registers an observer for subsequent binds and adds.
func (b *Blackboard) Observe(o Observer) {
	b.observers = append(b.observers, o)
}

// Spawn produces an independent blackboard preloaded from the current state.
// The copy shares stored values but not containers: subsequent mutations of
// either side are invisible to the other. Observers do not carry over.
func (b *Blackboard) Spawn() *Blackboard {
	child := &Blackboard{
		bindings:     make(map[string]any, len(b.bindings)),
		objects:      make([]Entry, len(b.objects)),
		conditions:   make(map[string]bool, len(b.conditions)),
		types:        b.types.Clone(),
		aggregations: make(map[string]Factory, len(b.aggregations)),
	}
	for k, v := range b.bindings {
		child.bindings[k] = v
	}
	copy(child.objects, b.objects)
	for k, v := range b.conditions {
		child.conditions[k] = v
	}
	for k, f := range b.aggregations {
		child.aggregations[k] = f
	}
	return child
}

// Last returns the most recently added object assignable to T.
func Last[T any](b *Blackboard) (T, bool) {
	for i := len(b.objects) - 1; i >= 0; i-- {
		if v, ok := b.objects[i].Value.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// All returns every object assignable to T, in insertion order.
func All[T any](b *Blackboard) []T {
	var out []T
	for _, e := range b.objects {
		if v, ok := e.Value.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Count returns how many objects are assignable to T.
func Count[T any](b *Blackboard) int {
	n := 0
	for _, e := range b.objects {
		if _, ok := e.Value.(T); ok {
			n++
		}
	}
	return n
}

// Package bind provides named, typed slot identifiers used to wire action
// inputs and outputs through the blackboard.
package bind

import "strings"

// DefaultName is the binding name used when a spec omits one. A binding named
// "it" has widened retrieval semantics on the blackboard: if no binding under
// the name satisfies the requested type, the object list is scanned for the
// most recent satisfying entry.
const DefaultName = "it"

// Binding identifies a named slot of a declared type ("name:Type").
// It is immutable after construction.
type Binding struct {
	name     string
	typeName string
}

// Parse builds a binding from a "name:Type" spec. A spec without a colon is
// taken as a bare type name bound under DefaultName.
func Parse(spec string) (Binding, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Binding{}, ErrBlankBinding
	}

	name, typeName, ok := strings.Cut(spec, ":")
	if !ok {
		return Binding{name: DefaultName, typeName: spec}, nil
	}

	name = strings.TrimSpace(name)
	typeName = strings.TrimSpace(typeName)
	if name == "" {
		name = DefaultName
	}
	if typeName == "" {
		return Binding{}, ErrBlankBinding
	}

	return Binding{name: name, typeName: typeName}, nil
}

// MustParse is like Parse but panics on an invalid spec. Bindings are created
// at agent definition time, so an invalid spec is a programming error.
func MustParse(spec string) Binding {
	b, err := Parse(spec)
	if err != nil {
		panic("bind: invalid binding spec " + strings.TrimSpace(spec))
	}
	return b
}

// Named builds a binding from an explicit name and type.
func Named(name, typeName string) Binding {
	if name == "" {
		name = DefaultName
	}
	return Binding{name: name, typeName: typeName}
}

// Name returns the slot name.
func (b Binding) Name() string {
	return b.name
}

// TypeName returns the declared type name.
func (b Binding) TypeName() string {
	return b.typeName
}

// String returns the canonical "name:Type" form. This form doubles as the
// condition name the planner uses for the slot.
func (b Binding) String() string {
	return b.name + ":" + b.typeName
}

// IsZero reports whether the binding is the zero value.
func (b Binding) IsZero() bool {
	return b.typeName == ""
}

// IsConditionName reports whether a condition name is in binding form.
func IsConditionName(name string) bool {
	return strings.Contains(name, ":")
}

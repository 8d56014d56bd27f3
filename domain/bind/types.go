package bind

import "reflect"

// DomainType describes a data shape referenced by actions and goals: either a
// loosely typed named property bag (schema use) or a reference backed by a Go
// type for structural matching.
type DomainType struct {
	// Name is the type name actions refer to. Unique within an agent.
	Name string

	// Properties holds named schema properties for loosely typed shapes.
	Properties map[string]string

	// RType is the backing Go type, when one exists. Assignability to RType
	// widens structural matching to interfaces and embedded types.
	RType reflect.Type
}

// TypeOf builds a DomainType backed by the Go type T, named by its simple name.
func TypeOf[T any]() DomainType {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return DomainType{Name: simpleName(rt), RType: rt}
}

// TypeNamed builds a DomainType backed by the Go type T under an explicit name.
func TypeNamed[T any](name string) DomainType {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return DomainType{Name: name, RType: rt}
}

// SchemaType builds a loosely typed DomainType from a name and properties.
func SchemaType(name string, properties map[string]string) DomainType {
	return DomainType{Name: name, Properties: properties}
}

// Types is the set of domain types inferred for an agent, keyed by name.
type Types map[string]DomainType

// Merge unions another type reference into the set. Two references to the same
// name union their properties; a conflicting backing Go type is an error.
func (ts Types) Merge(dt DomainType) error {
	existing, ok := ts[dt.Name]
	if !ok {
		ts[dt.Name] = dt
		return nil
	}

	if existing.RType != nil && dt.RType != nil && existing.RType != dt.RType {
		return ErrDuplicateType
	}
	if existing.RType == nil {
		existing.RType = dt.RType
	}
	if len(dt.Properties) > 0 {
		if existing.Properties == nil {
			existing.Properties = make(map[string]string, len(dt.Properties))
		}
		for k, v := range dt.Properties {
			existing.Properties[k] = v
		}
	}
	ts[dt.Name] = existing
	return nil
}

// Clone returns an independent copy of the type set.
func (ts Types) Clone() Types {
	out := make(Types, len(ts))
	for k, v := range ts {
		out[k] = v
	}
	return out
}

// Satisfies reports whether a runtime value structurally satisfies the named
// type: its own simple or fully qualified name matches, or the value is
// assignable to a registered backing Go type of that name.
func Satisfies(v any, typeName string, types Types) bool {
	if v == nil || typeName == "" {
		return false
	}

	rt := reflect.TypeOf(v)
	if typeMatchesName(rt, typeName) {
		return true
	}

	if dt, ok := types[typeName]; ok && dt.RType != nil {
		if rt.AssignableTo(dt.RType) {
			return true
		}
		if dt.RType.Kind() != reflect.Pointer && rt.Kind() == reflect.Pointer && rt.Elem().AssignableTo(dt.RType) {
			return true
		}
	}

	return false
}

// typeMatchesName checks simple-name and fully-qualified matches, looking
// through one level of pointer indirection.
func typeMatchesName(rt reflect.Type, typeName string) bool {
	for rt != nil {
		if simpleName(rt) == typeName || rt.String() == typeName || fqn(rt) == typeName {
			return true
		}
		if rt.Kind() != reflect.Pointer {
			return false
		}
		rt = rt.Elem()
	}
	return false
}

func simpleName(rt reflect.Type) string {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Name()
}

func fqn(rt reflect.Type) string {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.PkgPath() == "" {
		return rt.Name()
	}
	return rt.PkgPath() + "." + rt.Name()
}

// NameOf returns the simple type name of a runtime value.
func NameOf(v any) string {
	if v == nil {
		return ""
	}
	return simpleName(reflect.TypeOf(v))
}

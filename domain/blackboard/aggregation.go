package blackboard

// Lookup is the read-only view an aggregation factory resolves its parts
// from. Each part is taken from the most recent object of its type.
type Lookup interface {
	LastOfType(typeName string) (any, bool)
}

// Factory synthesizes a composite value from parts already on the blackboard.
// A factory reports false when any part is unresolvable; synthesis failure is
// an ordinary miss, never an error.
type Factory func(l Lookup) (any, bool)

// RegisterAggregation registers a factory for a composite type name. A later
// registration for the same name replaces the earlier one. Factories are
// registered at agent definition time and copied into each process blackboard.
func (b *Blackboard) RegisterAggregation(typeName string, f Factory) {
	b.aggregations[typeName] = f
}

// Aggregate2 builds a factory for a composite of two parts, resolved by type
// name from the most recent matching objects.
func Aggregate2[A, B, T any](typeA, typeB string, combine func(A, B) T) Factory {
	return func(l Lookup) (any, bool) {
		av, ok := l.LastOfType(typeA)
		if !ok {
			return nil, false
		}
		bv, ok := l.LastOfType(typeB)
		if !ok {
			return nil, false
		}
		a, ok := av.(A)
		if !ok {
			return nil, false
		}
		b, ok := bv.(B)
		if !ok {
			return nil, false
		}
		return combine(a, b), true
	}
}

// Aggregate3 builds a factory for a composite of three parts.
func Aggregate3[A, B, C, T any](typeA, typeB, typeC string, combine func(A, B, C) T) Factory {
	return func(l Lookup) (any, bool) {
		av, ok := l.LastOfType(typeA)
		if !ok {
			return nil, false
		}
		bv, ok := l.LastOfType(typeB)
		if !ok {
			return nil, false
		}
		cv, ok := l.LastOfType(typeC)
		if !ok {
			return nil, false
		}
		a, aok := av.(A)
		b, bok := bv.(B)
		c, cok := cv.(C)
		if !aok || !bok || !cok {
			return nil, false
		}
		return combine(a, b, c), true
	}
}

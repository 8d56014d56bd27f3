package condition

import (
	"fmt"
	"sort"
)

// Context is the read-only view of process state a condition evaluates
// against. The process blackboard satisfies it.
type Context interface {
	// GetValue resolves a typed value by binding name and type name.
	GetValue(variable, typeName string) (any, bool)

	// ConditionFlag returns an explicitly set boolean condition flag.
	ConditionFlag(name string) (value bool, set bool)

	// CountOfType returns how many objects of the named type are present.
	CountOfType(typeName string) int
}

// Condition is a named, cost-weighted, tri-valued predicate. Conditions are
// stateless and re-evaluated every planning tick; their truth depends on the
// live blackboard, only the condition graph is fixed.
type Condition interface {
	// Name returns the condition name used in preconditions and effects.
	Name() string

	// Cost estimates evaluation expense on a 0.0 (cheap) to 1.0 (expensive)
	// scale. Composite conditions evaluate cheaper operands first.
	Cost() float64

	// Evaluate determines the condition against the given context.
	Evaluate(ctx Context) Determination
}

// EvaluateFunc is the function form of a condition body.
type EvaluateFunc func(ctx Context) Determination

type funcCondition struct {
	name string
	cost float64
	fn   EvaluateFunc
}

// New creates a condition from a name, cost and evaluation function.
func New(name string, cost float64, fn EvaluateFunc) Condition {
	return &funcCondition{name: name, cost: cost, fn: fn}
}

// FromPredicate creates a condition from a boolean predicate. The predicate's
// result is always a determined value, never Unknown.
func FromPredicate(name string, cost float64, pred func(ctx Context) bool) Condition {
	return New(name, cost, func(ctx Context) Determination {
		return FromBool(pred(ctx))
	})
}

func (c *funcCondition) Name() string { return c.name }

func (c *funcCondition) Cost() float64 { return c.cost }

func (c *funcCondition) Evaluate(ctx Context) Determination {
	return c.fn(ctx)
}

type andCondition struct {
	operands []Condition
}

// And composes conditions conjunctively. Operands are evaluated cheapest
// first and evaluation short-circuits on the first False.
func And(operands ...Condition) Condition {
	return &andCondition{operands: byCost(operands)}
}

func (c *andCondition) Name() string {
	return composedName("and", c.operands)
}

func (c *andCondition) Cost() float64 {
	return totalCost(c.operands)
}

func (c *andCondition) Evaluate(ctx Context) Determination {
	result := True
	for _, op := range c.operands {
		d := op.Evaluate(ctx)
		if d == False {
			return False
		}
		result = result.And(d)
	}
	return result
}

type orCondition struct {
	operands []Condition
}

// Or composes conditions disjunctively. Operands are evaluated cheapest
// first and evaluation short-circuits on the first True.
func Or(operands ...Condition) Condition {
	return &orCondition{operands: byCost(operands)}
}

func (c *orCondition) Name() string {
	return composedName("or", c.operands)
}

func (c *orCondition) Cost() float64 {
	return totalCost(c.operands)
}

func (c *orCondition) Evaluate(ctx Context) Determination {
	result := False
	for _, op := range c.operands {
		d := op.Evaluate(ctx)
		if d == True {
			return True
		}
		result = result.Or(d)
	}
	return result
}

type notCondition struct {
	operand Condition
}

// Not negates a condition.
func Not(operand Condition) Condition {
	return &notCondition{operand: operand}
}

func (c *notCondition) Name() string {
	return fmt.Sprintf("not(%s)", c.operand.Name())
}

func (c *notCondition) Cost() float64 {
	return c.operand.Cost()
}

func (c *notCondition) Evaluate(ctx Context) Determination {
	return c.operand.Evaluate(ctx).Not()
}

// byCost returns the operands sorted cheapest first, leaving the caller's
// slice untouched. The sort is stable so equal-cost operands keep their
// declared order.
func byCost(operands []Condition) []Condition {
	sorted := make([]Condition, len(operands))
	copy(sorted, operands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cost() < sorted[j].Cost()
	})
	return sorted
}

func totalCost(operands []Condition) float64 {
	var sum float64
	for _, op := range operands {
		sum += op.Cost()
	}
	return sum
}

func composedName(op string, operands []Condition) string {
	name := "("
	for i, c := range operands {
		if i > 0 {
			name += " " + op + " "
		}
		name += c.Name()
	}
	return name + ")"
}

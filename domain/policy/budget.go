package policy

import "sync"

// Budget aggregates the three resource ceilings into one policy: whichever
// resource runs out first halts the process. A zero ceiling means unlimited.
type Budget struct {
	// Actions is the maximum number of action invocations.
	Actions int

	// Tokens is the maximum cumulative token usage.
	Tokens int

	// Cost is the maximum cumulative dollar cost.
	Cost float64
}

// DefaultBudget returns a conservative default budget.
func DefaultBudget() Budget {
	return Budget{
		Actions: 50,
		Tokens:  0,
		Cost:    2.0,
	}
}

// EarlyTerminationPolicy builds the composite first-violated-wins policy for
// the budget's non-zero ceilings.
func (b Budget) EarlyTerminationPolicy() EarlyTerminationPolicy {
	var policies []EarlyTerminationPolicy
	if b.Actions > 0 {
		policies = append(policies, MaxActions(b.Actions))
	}
	if b.Tokens > 0 {
		policies = append(policies, MaxTokens(b.Tokens))
	}
	if b.Cost > 0 {
		policies = append(policies, HardBudgetLimit(b.Cost))
	}
	if len(policies) == 0 {
		return Never()
	}
	return FirstOf(policies...)
}

// Usage tracks cumulative resource consumption for one process. Action
// bodies and LLM collaborators record into it; termination policies read it
// through the process view.
type Usage struct {
	mu     sync.RWMutex
	tokens int
	cost   float64
}

// NewUsage creates an empty usage tracker.
func NewUsage() *Usage {
	return &Usage{}
}

// RecordTokens adds to cumulative token usage.
func (u *Usage) RecordTokens(n int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tokens += n
}

// RecordCost adds to cumulative dollar cost.
func (u *Usage) RecordCost(dollars float64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cost += dollars
}

// Tokens returns cumulative token usage.
func (u *Usage) Tokens() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.tokens
}

// Cost returns cumulative dollar cost.
func (u *Usage) Cost() float64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.cost
}

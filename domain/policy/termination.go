// Package policy provides early-termination policies and budget tracking for
// agent processes. Policies are consulted at every tick boundary, before
// planning, so a violated budget halts the process before the next action.
package policy

import "fmt"

// ProcessView is the narrow read view a policy inspects. The process type
// implements it; policies never see the full process.
type ProcessView interface {
	ID() string
	ActionCount() int
	TokensUsed() int
	CostAccrued() float64
}

// EarlyTermination is a policy's verdict to halt a process.
type EarlyTermination struct {
	// Reason is a human-readable explanation of the halt.
	Reason string

	// Policy is the policy that fired.
	Policy EarlyTerminationPolicy
}

// EarlyTerminationPolicy decides at each tick boundary whether a process must
// halt. A nil return means keep going.
type EarlyTerminationPolicy interface {
	ShouldTerminate(p ProcessView) *EarlyTermination
	String() string
}

type maxActions struct{ limit int }

// MaxActions halts a process once it has invoked the given number of actions.
func MaxActions(limit int) EarlyTerminationPolicy {
	return maxActions{limit: limit}
}

func (m maxActions) ShouldTerminate(p ProcessView) *EarlyTermination {
	if p.ActionCount() >= m.limit {
		return &EarlyTermination{
			Reason: fmt.Sprintf("action limit of %d reached", m.limit),
			Policy: m,
		}
	}
	return nil
}

func (m maxActions) String() string { return fmt.Sprintf("MaxActions(%d)", m.limit) }

type maxTokens struct{ limit int }

// MaxTokens halts a process once cumulative token usage reaches the limit.
func MaxTokens(limit int) EarlyTerminationPolicy {
	return maxTokens{limit: limit}
}

func (m maxTokens) ShouldTerminate(p ProcessView) *EarlyTermination {
	if p.TokensUsed() >= m.limit {
		return &EarlyTermination{
			Reason: fmt.Sprintf("token limit of %d reached", m.limit),
			Policy: m,
		}
	}
	return nil
}

func (m maxTokens) String() string { return fmt.Sprintf("MaxTokens(%d)", m.limit) }

type hardBudgetLimit struct{ limit float64 }

// HardBudgetLimit halts a process once cumulative cost reaches the dollar
// limit.
func HardBudgetLimit(dollars float64) EarlyTerminationPolicy {
	return hardBudgetLimit{limit: dollars}
}

func (h hardBudgetLimit) ShouldTerminate(p ProcessView) *EarlyTermination {
	if p.CostAccrued() >= h.limit {
		return &EarlyTermination{
			Reason: fmt.Sprintf("cost limit of $%.2f reached", h.limit),
			Policy: h,
		}
	}
	return nil
}

func (h hardBudgetLimit) String() string { return fmt.Sprintf("HardBudgetLimit($%.2f)", h.limit) }

type firstOf struct{ policies []EarlyTerminationPolicy }

// FirstOf composes policies; the first listed policy to fire wins, so order
// encodes precedence.
func FirstOf(policies ...EarlyTerminationPolicy) EarlyTerminationPolicy {
	return firstOf{policies: policies}
}

func (f firstOf) ShouldTerminate(p ProcessView) *EarlyTermination {
	for _, pol := range f.policies {
		if et := pol.ShouldTerminate(p); et != nil {
			return et
		}
	}
	return nil
}

func (f firstOf) String() string {
	s := "FirstOf("
	for i, pol := range f.policies {
		if i > 0 {
			s += ", "
		}
		s += pol.String()
	}
	return s + ")"
}

type never struct{}

// Never is the policy that never halts a process.
func Never() EarlyTerminationPolicy { return never{} }

func (never) ShouldTerminate(ProcessView) *EarlyTermination { return nil }

func (never) String() string { return "Never" }

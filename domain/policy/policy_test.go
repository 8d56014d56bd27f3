package policy

import (
	"strings"
	"testing"
)

type stubView struct {
	id      string
	actions int
	tokens  int
	cost    float64
}

func (s stubView) ID() string           { return s.id }
func (s stubView) ActionCount() int     { return s.actions }
func (s stubView) TokensUsed() int      { return s.tokens }
func (s stubView) CostAccrued() float64 { return s.cost }

func TestMaxActions(t *testing.T) {
	t.Parallel()

	p := MaxActions(3)

	tests := []struct {
		name    string
		actions int
		want    bool
	}{
		{"below limit", 2, false},
		{"at limit", 3, true},
		{"over limit", 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			et := p.ShouldTerminate(stubView{id: "p1", actions: tt.actions})
			if (et != nil) != tt.want {
				t.Errorf("ShouldTerminate(actions=%d) = %v, want fired=%v", tt.actions, et, tt.want)
			}
			if et != nil && et.Policy != p {
				t.Error("EarlyTermination must reference the triggering policy")
			}
		})
	}
}

func TestMaxActions_IndependentOfOtherResources(t *testing.T) {
	t.Parallel()

	// Budget(actions=3) must trigger exactly on history size, regardless of
	// cost or token consumption.
	p := Budget{Actions: 3}.EarlyTerminationPolicy()

	if et := p.ShouldTerminate(stubView{actions: 2, tokens: 1 << 30, cost: 1e9}); et != nil {
		t.Errorf("policy fired below the action limit: %v", et.Reason)
	}
	if et := p.ShouldTerminate(stubView{actions: 3}); et == nil {
		t.Error("policy should fire at the action limit")
	}
}

func TestMaxTokensAndHardBudget(t *testing.T) {
	t.Parallel()

	if et := MaxTokens(100).ShouldTerminate(stubView{tokens: 100}); et == nil {
		t.Error("MaxTokens should fire at the limit")
	}
	if et := MaxTokens(100).ShouldTerminate(stubView{tokens: 99}); et != nil {
		t.Error("MaxTokens should not fire below the limit")
	}
	if et := HardBudgetLimit(0.5).ShouldTerminate(stubView{cost: 0.5}); et == nil {
		t.Error("HardBudgetLimit should fire at the limit")
	}
	if et := HardBudgetLimit(0.5).ShouldTerminate(stubView{cost: 0.49}); et != nil {
		t.Error("HardBudgetLimit should not fire below the limit")
	}
}

func TestFirstOf_Precedence(t *testing.T) {
	t.Parallel()

	actions := MaxActions(1)
	tokens := MaxTokens(1)
	p := FirstOf(actions, tokens)

	// Both limits violated; the first listed policy must win.
	et := p.ShouldTerminate(stubView{actions: 5, tokens: 5})
	if et == nil {
		t.Fatal("FirstOf should fire")
	}
	if et.Policy != actions {
		t.Errorf("triggering policy = %v, want the first listed", et.Policy)
	}
}

func TestBudget_EarlyTerminationPolicy(t *testing.T) {
	t.Parallel()

	t.Run("zero ceilings are unlimited", func(t *testing.T) {
		t.Parallel()
		p := Budget{}.EarlyTerminationPolicy()
		if et := p.ShouldTerminate(stubView{actions: 1 << 20, tokens: 1 << 30, cost: 1e9}); et != nil {
			t.Errorf("unlimited budget fired: %v", et.Reason)
		}
	})

	t.Run("reason names the exhausted resource", func(t *testing.T) {
		t.Parallel()
		p := Budget{Actions: 2, Tokens: 1000, Cost: 1.0}.EarlyTerminationPolicy()
		et := p.ShouldTerminate(stubView{id: "p9", tokens: 1000})
		if et == nil {
			t.Fatal("budget should fire on token exhaustion")
		}
		if !strings.Contains(et.Reason, "token") {
			t.Errorf("Reason = %q, want a token-limit reason", et.Reason)
		}
	})
}

func TestUsage(t *testing.T) {
	t.Parallel()

	u := NewUsage()
	u.RecordTokens(100)
	u.RecordTokens(50)
	u.RecordCost(0.25)

	if u.Tokens() != 150 {
		t.Errorf("Tokens() = %d, want 150", u.Tokens())
	}
	if u.Cost() != 0.25 {
		t.Errorf("Cost() = %v, want 0.25", u.Cost())
	}
}

package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/agent"
	"github.com/zwp88/goapflow/domain/bind"
	"github.com/zwp88/goapflow/domain/blackboard"
	"github.com/zwp88/goapflow/domain/goal"
)

type invoice struct{ Total float64 }

func noopAction(name, input, output string) *action.Action {
	b := action.NewBuilder(name).
		WithHandler(func(ctx context.Context, ec *action.Context) action.Result {
			return action.Completed(nil)
		})
	if input != "" {
		b = b.WithInput(input)
	}
	if output != "" {
		b = b.WithOutput(output)
	}
	return b.MustBuild()
}

func TestNew_InfersTypes(t *testing.T) {
	t.Parallel()

	a, err := agent.New("billing", "bills things",
		agent.WithActions(
			noopAction("fetch", "", "it:Order"),
			noopAction("bill", "it:Order", "it:Invoice"),
		),
		agent.WithGoals(goal.NewBuilder("billed").SatisfiedByType("Invoice").MustBuild()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	types := a.Types()
	if _, ok := types["Order"]; !ok {
		t.Error("inferred types should include Order")
	}
	if _, ok := types["Invoice"]; !ok {
		t.Error("inferred types should include Invoice")
	}
}

func TestNew_UsageErrors(t *testing.T) {
	t.Parallel()

	t.Run("blank name", func(t *testing.T) {
		t.Parallel()
		if _, err := agent.New("", ""); !errors.Is(err, agent.ErrBlankName) {
			t.Errorf("New() error = %v, want ErrBlankName", err)
		}
	})

	t.Run("zero goals", func(t *testing.T) {
		t.Parallel()
		_, err := agent.New("goalless", "", agent.WithActions(noopAction("a", "", "")))
		if !errors.Is(err, agent.ErrNoGoals) {
			t.Errorf("New() error = %v, want ErrNoGoals", err)
		}
	})
}

func TestAgent_NewBlackboard(t *testing.T) {
	t.Parallel()

	a, err := agent.New("typed", "",
		agent.WithGoals(goal.NewBuilder("g").SatisfiedByType("Invoice").MustBuild()),
		agent.WithTypes(bind.TypeNamed[invoice]("Invoice")),
		agent.WithAggregation("Pair", func(l blackboard.Lookup) (any, bool) {
			return nil, false
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	bb := a.NewBlackboard()
	bb.Add(invoice{Total: 12})
	if _, ok := bb.GetValue("it", "Invoice"); !ok {
		t.Error("blackboard should carry the agent's domain types")
	}

	// Blackboards are independent per process.
	other := a.NewBlackboard()
	if other.CountOfType("Invoice") != 0 {
		t.Error("NewBlackboard() must return a fresh store each call")
	}
}

func TestAgent_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	a, _ := agent.New("copies", "",
		agent.WithActions(noopAction("a1", "", "")),
		agent.WithGoals(goal.NewBuilder("g").MustBuild()),
	)

	actions := a.Actions()
	actions[0] = nil
	if a.Actions()[0] == nil {
		t.Error("Actions() must return an independent slice")
	}
}

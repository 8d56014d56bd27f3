package planner

import (
	"context"
	"sync"

	"github.com/zwp88/goapflow/domain/plan"
)

// Scripted replays a fixed sequence of plans, one per call, then reports no
// plan. Useful for deterministic replays and tests that pin planner output.
type Scripted struct {
	mu    sync.Mutex
	plans []*plan.Plan
}

// NewScripted creates a scripted planner over the given plan sequence.
func NewScripted(plans ...*plan.Plan) *Scripted {
	return &Scripted{plans: plans}
}

// BestValuePlanToAnyGoal implements plan.Planner by popping the next scripted
// plan.
func (s *Scripted) BestValuePlanToAnyGoal(_ context.Context, _ plan.System) (*plan.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.plans) == 0 {
		return nil, nil
	}
	next := s.plans[0]
	s.plans = s.plans[1:]
	return next, nil
}

// Mock delegates to a settable function, recording how often it was called.
type Mock struct {
	mu    sync.Mutex
	calls int

	// Fn computes the plan; a nil Fn reports no plan.
	Fn func(ctx context.Context, sys plan.System) (*plan.Plan, error)
}

// BestValuePlanToAnyGoal implements plan.Planner.
func (m *Mock) BestValuePlanToAnyGoal(ctx context.Context, sys plan.System) (*plan.Plan, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Fn == nil {
		return nil, nil
	}
	return m.Fn(ctx, sys)
}

// Calls returns how many times the planner was consulted.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

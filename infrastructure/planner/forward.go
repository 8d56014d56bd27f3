// Package planner provides planning algorithms behind the plan.Planner port.
// Forward is the production uniform-cost searcher; Scripted and Mock serve
// tests and deterministic replays.
package planner

import (
	"container/heap"
	"context"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/goal"
	"github.com/zwp88/goapflow/domain/plan"
)

// DefaultMaxDepth bounds plan length; a plan deeper than this is treated as
// unreachable rather than searched further.
const DefaultMaxDepth = 20

// Forward is an exhaustive forward-chaining planner. For each goal it runs a
// uniform-cost search from the current world state, then picks the goal whose
// cheapest plan has the highest net value.
type Forward struct {
	maxDepth int
}

// NewForward creates a forward planner with the default depth bound.
func NewForward() *Forward {
	return &Forward{maxDepth: DefaultMaxDepth}
}

// NewForwardWithDepth creates a forward planner with an explicit depth bound.
func NewForwardWithDepth(maxDepth int) *Forward {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Forward{maxDepth: maxDepth}
}

// BestValuePlanToAnyGoal implements plan.Planner.
func (f *Forward) BestValuePlanToAnyGoal(ctx context.Context, sys plan.System) (*plan.Plan, error) {
	var best *plan.Plan
	for _, g := range sys.Goals {
		p, err := f.planToGoal(ctx, sys, g)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		if best == nil || p.NetValue() > best.NetValue() {
			best = p
		}
	}
	return best, nil
}

func (f *Forward) planToGoal(ctx context.Context, sys plan.System, g *goal.Goal) (*plan.Plan, error) {
	required := g.Preconditions()
	if sys.State.Satisfies(required) {
		return &plan.Plan{Goal: g}, nil
	}

	pq := &nodeQueue{}
	heap.Init(pq)
	heap.Push(pq, &node{state: sys.State})
	visited := map[string]float64{sys.State.Key(): 0}

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cur := heap.Pop(pq).(*node)
		if cur.state.Satisfies(required) {
			return &plan.Plan{Actions: cur.actions, Goal: g, Cost: cur.cost}, nil
		}
		if len(cur.actions) >= f.maxDepth {
			continue
		}

		for _, act := range sys.Actions {
			if !cur.state.Satisfies(act.Preconditions()) {
				continue
			}
			next := cur.state.Apply(act.Effects())
			cost := cur.cost + act.Cost()
			key := next.Key()
			if prior, seen := visited[key]; seen && prior <= cost {
				continue
			}
			visited[key] = cost

			actions := make([]*action.Action, len(cur.actions)+1)
			copy(actions, cur.actions)
			actions[len(cur.actions)] = act
			heap.Push(pq, &node{state: next, actions: actions, cost: cost})
		}
	}

	return nil, nil
}

type node struct {
	state   plan.WorldState
	actions []*action.Action
	cost    float64
}

// nodeQueue is a min-heap by path cost; equal costs prefer shorter plans.
type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return len(q[i].actions) < len(q[j].actions)
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return x
}

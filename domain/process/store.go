package process

import (
	"context"
	"time"

	"github.com/zwp88/goapflow/domain/blackboard"
)

// Snapshot is the persistable record of a process: its identity, status,
// history and serializable blackboard state. It is what stores save for a
// waiting process so a later run can resume it.
type Snapshot struct {
	ID         string              `json:"id"`
	ParentID   string              `json:"parent_id,omitempty"`
	Agent      string              `json:"agent"`
	Status     Status              `json:"status"`
	Goal       string              `json:"goal,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	History    []ActionInvocation  `json:"history"`
	Failure    *FailureInfo        `json:"failure,omitempty"`
	Blackboard blackboard.Snapshot `json:"blackboard"`
}

// Snapshot captures the process's current persistable state.
func (p *Process) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         p.id,
		ParentID:   p.parentID,
		Agent:      p.agent.Name(),
		Status:     p.Status(),
		Goal:       p.GoalName(),
		CreatedAt:  p.createdAt,
		History:    p.History(),
		Blackboard: p.bb.Snapshot(),
	}
	if f := p.FailureInfo(); f != nil {
		c := *f
		snap.Failure = &c
	}
	return snap
}

// Store persists process snapshots. Get returns ErrNotFound when no process
// has the given id.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context, id string) (Snapshot, error)
	List(ctx context.Context) ([]Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

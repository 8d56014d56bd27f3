// Package event provides the agentic event model: every process transition
// emits an event through a listener collaborator, and events are optionally
// persisted through a store port. Engine correctness never depends on a
// listener being present.
package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type classifies an agentic event.
type Type string

const (
	// TypeProcessCreated is emitted when a platform creates a process.
	TypeProcessCreated Type = "process.created"

	// TypeStatusChanged is emitted on every process status transition.
	TypeStatusChanged Type = "process.status"

	// TypeReadyToPlan is emitted before the planner is consulted.
	TypeReadyToPlan Type = "process.ready_to_plan"

	// TypePlanFormulated is emitted when the planner returns a plan.
	TypePlanFormulated Type = "process.plan"

	// TypeActionStarted is emitted before an action body runs.
	TypeActionStarted Type = "action.started"

	// TypeActionResult is emitted after an action invocation finishes.
	TypeActionResult Type = "action.result"

	// TypeObjectBound is emitted when a value is bound on the blackboard.
	TypeObjectBound Type = "blackboard.bound"

	// TypeTerminated is emitted when an early-termination policy fires.
	TypeTerminated Type = "process.terminated"

	// TypeKilled is emitted on an external kill.
	TypeKilled Type = "process.killed"
)

// Event is one observable occurrence in a process's life.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// ProcessID is the id of the process this event belongs to.
	ProcessID string `json:"process_id"`

	// Type classifies the event.
	Type Type `json:"type"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Payload contains the event-specific data.
	Payload json.RawMessage `json:"payload"`

	// Sequence is the ordering number within the process's event stream,
	// assigned by the store on append.
	Sequence uint64 `json:"sequence"`
}

// New creates an event with the given type and payload.
func New(processID string, eventType Type, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.NewString(),
		ProcessID: processID,
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   data,
	}, nil
}

// UnmarshalPayload decodes the event payload into the given value.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// StatusChangedPayload describes a process status transition.
type StatusChangedPayload struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// PlanFormulatedPayload describes a formulated plan.
type PlanFormulatedPayload struct {
	Goal     string   `json:"goal"`
	Actions  []string `json:"actions"`
	Complete bool     `json:"complete"`
}

// ActionStartedPayload describes the start of an action invocation.
type ActionStartedPayload struct {
	Action string `json:"action"`
}

// ActionResultPayload describes the outcome of an action invocation.
type ActionResultPayload struct {
	Action     string `json:"action"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// ObjectBoundPayload describes a blackboard bind.
type ObjectBoundPayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TerminatedPayload describes an early termination.
type TerminatedPayload struct {
	Reason string `json:"reason"`
	Policy string `json:"policy"`
}

// ProcessCreatedPayload describes process creation.
type ProcessCreatedPayload struct {
	Agent    string `json:"agent"`
	ParentID string `json:"parent_id,omitempty"`
}

package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zwp88/goapflow/domain/event"
)

func TestNewMetricsProvider(t *testing.T) {
	t.Parallel()

	// The global meter provider defaults to a no-op; instrument creation
	// must still succeed against it.
	mp := NewMetricsProvider(DefaultMetricsConfig())
	if mp.Error() != nil {
		t.Fatalf("Error() = %v", mp.Error())
	}

	ctx := context.Background()
	mp.RecordProcessStarted(ctx, "billing")
	mp.RecordActionExecution(ctx, "fetch", "SUCCEEDED", 12*time.Millisecond)
	mp.RecordStatusTransition(ctx, "RUNNING", "COMPLETED", "p-1")
	mp.RecordUsage(ctx, 150, 0.25)
	mp.RecordProcessFinished(ctx, "billing", "COMPLETED")
}

func TestDefaultMetricsConfig(t *testing.T) {
	t.Parallel()

	config := DefaultMetricsConfig()
	if config.MeterName == "" {
		t.Error("MeterName must not be empty")
	}
}

// recordingMetrics captures calls for listener assertions.
type recordingMetrics struct {
	mu          sync.Mutex
	started     int
	finished    []string
	actions     []string
	transitions int
}

func (r *recordingMetrics) RecordProcessStarted(ctx context.Context, agentName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingMetrics) RecordProcessFinished(ctx context.Context, agentName, finalStatus string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, finalStatus)
}

func (r *recordingMetrics) RecordActionExecution(ctx context.Context, actionName, status string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, actionName)
}

func (r *recordingMetrics) RecordStatusTransition(ctx context.Context, from, to, processID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions++
}

func (r *recordingMetrics) RecordUsage(ctx context.Context, tokens int64, cost float64) {}

func TestListener(t *testing.T) {
	t.Parallel()

	rec := &recordingMetrics{}
	l := Listener(rec)

	send := func(typ event.Type, payload any) {
		e, err := event.New("p-1", typ, payload)
		if err != nil {
			t.Fatalf("event.New() error = %v", err)
		}
		l.OnEvent(e)
	}

	send(event.TypeStatusChanged, event.StatusChangedPayload{From: "NOT_STARTED", To: "RUNNING"})
	send(event.TypeActionStarted, event.ActionStartedPayload{Action: "fetch"})
	send(event.TypeActionResult, event.ActionResultPayload{Action: "fetch", Status: "SUCCEEDED", DurationMs: 3})
	send(event.TypeStatusChanged, event.StatusChangedPayload{From: "RUNNING", To: "COMPLETED"})

	if rec.started != 1 {
		t.Errorf("started = %d, want 1", rec.started)
	}
	if len(rec.finished) != 1 || rec.finished[0] != "COMPLETED" {
		t.Errorf("finished = %v, want [COMPLETED]", rec.finished)
	}
	if len(rec.actions) != 1 || rec.actions[0] != "fetch" {
		t.Errorf("actions = %v, want [fetch]", rec.actions)
	}
	if rec.transitions != 2 {
		t.Errorf("transitions = %d, want 2", rec.transitions)
	}
}

package telemetry

import (
	"context"
	"time"

	"github.com/zwp88/goapflow/domain/event"
	"github.com/zwp88/goapflow/domain/process"
)

// Listener returns an event listener feeding the agentic event stream into
// the given metrics sink. A transition into RUNNING counts as a start and a
// transition out of it as a finish, so resumed processes pair up too.
func Listener(m Metrics) event.Listener {
	return event.ListenerFunc(func(e event.Event) {
		ctx := context.Background()

		switch e.Type {
		case event.TypeStatusChanged:
			var p event.StatusChangedPayload
			if e.UnmarshalPayload(&p) != nil {
				return
			}
			m.RecordStatusTransition(ctx, p.From, p.To, e.ProcessID)

			if process.Status(p.To) == process.StatusRunning {
				m.RecordProcessStarted(ctx, "")
			} else if process.Status(p.From) == process.StatusRunning {
				m.RecordProcessFinished(ctx, "", p.To)
			}

		case event.TypeActionResult:
			var p event.ActionResultPayload
			if e.UnmarshalPayload(&p) != nil {
				return
			}
			m.RecordActionExecution(ctx, p.Action, p.Status, time.Duration(p.DurationMs)*time.Millisecond)
		}
	})
}

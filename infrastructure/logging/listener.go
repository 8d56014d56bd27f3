package logging

import (
	"github.com/zwp88/goapflow/domain/event"
)

// Listener returns an event listener that logs every agentic event through
// the default logger. Status transitions and terminations log at info,
// everything else at debug.
func Listener() event.Listener {
	return event.ListenerFunc(func(e event.Event) {
		le := levelFor(e.Type).
			Add(ProcessID(e.ProcessID)).
			Add(EventType(string(e.Type)))

		switch e.Type {
		case event.TypeStatusChanged:
			var p event.StatusChangedPayload
			if e.UnmarshalPayload(&p) == nil {
				le = le.Add(FromStatus(p.From)).Add(ToStatus(p.To)).Add(Reason(p.Reason))
			}
		case event.TypePlanFormulated:
			var p event.PlanFormulatedPayload
			if e.UnmarshalPayload(&p) == nil {
				le = le.Add(GoalName(p.Goal))
			}
		case event.TypeActionStarted:
			var p event.ActionStartedPayload
			if e.UnmarshalPayload(&p) == nil {
				le = le.Add(ActionName(p.Action))
			}
		case event.TypeActionResult:
			var p event.ActionResultPayload
			if e.UnmarshalPayload(&p) == nil {
				le = le.Add(ActionName(p.Action)).Add(Status(p.Status))
				if p.Error != "" {
					le = le.Add(Str("error", p.Error))
				}
			}
		case event.TypeTerminated:
			var p event.TerminatedPayload
			if e.UnmarshalPayload(&p) == nil {
				le = le.Add(Reason(p.Reason)).Add(Str("policy", p.Policy))
			}
		}

		le.Msg(string(e.Type))
	})
}

func levelFor(t event.Type) *LogEvent {
	switch t {
	case event.TypeStatusChanged, event.TypeTerminated, event.TypeKilled:
		return Info()
	default:
		return Debug()
	}
}

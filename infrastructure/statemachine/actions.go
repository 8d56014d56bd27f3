package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/zwp88/goapflow/infrastructure/logging"
)

// logStateEntry logs when entering a status.
// In statekit, actions receive a pointer to the context. Since our context is
// *Context, actions receive **Context.
func logStateEntry(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}

	logging.Debug().
		Add(logging.Component("lifecycle")).
		Add(logging.ProcessID((*ctx).ProcessID)).
		Add(logging.Str("event", string(event.Type))).
		Msg("status entered")
}

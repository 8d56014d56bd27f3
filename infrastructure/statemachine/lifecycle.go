package statemachine

import (
	"sync"

	"github.com/felixgeelhaar/statekit"

	"github.com/zwp88/goapflow/domain/process"
)

// Lifecycle adapts the process statechart to the process.Lifecycle port. All
// access is serialized; the interpreter itself is single-threaded.
type Lifecycle struct {
	mu     sync.Mutex
	interp *statekit.Interpreter[*Context]
}

// NewLifecycle creates a started lifecycle for the given process id.
func NewLifecycle(processID string) (*Lifecycle, error) {
	machine, err := NewProcessMachine()
	if err != nil {
		return nil, err
	}

	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = &Context{ProcessID: processID}
	})
	interp.Start()

	return &Lifecycle{interp: interp}, nil
}

// Status implements process.Lifecycle.
func (l *Lifecycle) Status() process.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return process.Status(l.interp.State().Value)
}

// CompareAndSwap implements process.Lifecycle. The swap succeeds only when
// the machine currently sits in the from status and the chart has a
// transition reaching the to status.
func (l *Lifecycle) CompareAndSwap(from, to process.Status) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if process.Status(l.interp.State().Value) != from {
		return false
	}

	l.interp.Send(statekit.Event{Type: EventForTransition(to)})
	return process.Status(l.interp.State().Value) == to
}

// Done reports whether the machine reached a final state.
func (l *Lifecycle) Done() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interp.Done()
}

// Stop releases the interpreter.
func (l *Lifecycle) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.interp.Stop()
}

package application

import (
	"context"
	"sync"

	"github.com/zwp88/goapflow/domain/event"
	"github.com/zwp88/goapflow/domain/plan"
	"github.com/zwp88/goapflow/domain/process"
)

// LLMOperations is the port for language-model calls action bodies may need.
// The platform carries it through to actions; no implementation ships here.
type LLMOperations interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ToolGroupResolver is the port resolving named tool groups to concrete
// tools. The platform carries it through to actions; no implementation ships
// here.
type ToolGroupResolver interface {
	// Resolve returns the tool names in a group.
	Resolve(ctx context.Context, group string) ([]string, error)
}

// Handle tracks one asynchronously started process run.
type Handle struct {
	done chan struct{}

	mu     sync.Mutex
	status process.Status
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) finish(st process.Status) {
	h.mu.Lock()
	h.status = st
	h.mu.Unlock()
	close(h.done)
}

// Done returns a channel closed when the run finishes.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the run finishes or the context is canceled. The process
// keeps running past a canceled wait; only its own context stops it.
func (h *Handle) Wait(ctx context.Context) (process.Status, error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.status, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Asyncer hands off a process run for background execution.
type Asyncer interface {
	Go(fn func())
}

// AsyncerFunc adapts a function to the Asyncer interface.
type AsyncerFunc func(fn func())

// Go implements Asyncer.
func (f AsyncerFunc) Go(fn func()) { f(fn) }

// goAsyncer is the default goroutine-per-run asyncer.
type goAsyncer struct{}

func (goAsyncer) Go(fn func()) { go fn() }

// Services bundles the external collaborators a platform hands to its
// processes. Zero-value fields fall back to working defaults at platform
// construction.
type Services struct {
	// Planner is consulted every tick. Defaults to the forward searcher.
	Planner plan.Planner

	// Runner executes action bodies. Defaults to the resilient QoS runner.
	Runner process.Runner

	// Listener receives all process events, in addition to event persistence.
	Listener event.Listener

	// Events persists the event streams of all processes. Defaults to the
	// in-memory store.
	Events event.Store

	// Processes persists process snapshots. Defaults to the in-memory store.
	Processes process.Store

	// Asyncer runs Start'ed processes. Defaults to one goroutine per run.
	Asyncer Asyncer

	// LLM and Tools are carried through to action bodies that need them; both
	// may be nil.
	LLM   LLMOperations
	Tools ToolGroupResolver
}

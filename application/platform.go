// Package application provides the platform layer: a registry of deployed
// agents that creates, tracks, runs and kills their processes.
package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/agent"
	"github.com/zwp88/goapflow/domain/blackboard"
	"github.com/zwp88/goapflow/domain/condition"
	"github.com/zwp88/goapflow/domain/event"
	"github.com/zwp88/goapflow/domain/goal"
	"github.com/zwp88/goapflow/domain/process"
	"github.com/zwp88/goapflow/infrastructure/logging"
	"github.com/zwp88/goapflow/infrastructure/planner"
	"github.com/zwp88/goapflow/infrastructure/resilience"
	"github.com/zwp88/goapflow/infrastructure/statemachine"
	"github.com/zwp88/goapflow/infrastructure/storage/memory"
)

// LifecycleFactory builds the lifecycle guard for a new process.
type LifecycleFactory func(processID string) process.Lifecycle

// Platform is a stateful registry of deployed agents and their processes. It
// is itself queryable as the aggregate scope over everything deployed.
type Platform struct {
	name     string
	services Services

	lifecycle LifecycleFactory

	mu        sync.RWMutex
	agents    map[string]*agent.Agent
	order     []string
	processes map[string]*process.Process
}

// Option configures a platform under construction.
type Option func(*Platform)

// WithServices replaces the default service bundle. Zero-value fields still
// get defaults.
func WithServices(s Services) Option {
	return func(p *Platform) {
		p.services = s
	}
}

// WithLifecycleFactory replaces the statechart-backed lifecycle guard.
func WithLifecycleFactory(f LifecycleFactory) Option {
	return func(p *Platform) {
		p.lifecycle = f
	}
}

// NewPlatform creates a platform with the given name. All services default to
// in-process implementations: forward planner, resilient runner, logging
// listener, in-memory stores, goroutine asyncer, statechart lifecycles.
func NewPlatform(name string, opts ...Option) (*Platform, error) {
	if name == "" {
		return nil, ErrBlankPlatformName
	}

	p := &Platform{
		name:      name,
		agents:    make(map[string]*agent.Agent),
		processes: make(map[string]*process.Process),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.services.Planner == nil {
		p.services.Planner = planner.NewForward()
	}
	if p.services.Runner == nil {
		p.services.Runner = resilience.NewDefaultRunner()
	}
	if p.services.Listener == nil {
		p.services.Listener = logging.Listener()
	}
	if p.services.Events == nil {
		p.services.Events = memory.NewEventStore()
	}
	if p.services.Processes == nil {
		p.services.Processes = memory.NewProcessStore()
	}
	if p.services.Asyncer == nil {
		p.services.Asyncer = goAsyncer{}
	}
	if p.lifecycle == nil {
		p.lifecycle = func(processID string) process.Lifecycle {
			lc, err := statemachine.NewLifecycle(processID)
			if err != nil {
				// The statechart is static; this only trips if the model
				// itself is broken. Fall back to the plain guard.
				return nil
			}
			return lc
		}
	}

	return p, nil
}

// Name returns the platform name.
func (p *Platform) Name() string { return p.name }

// Services returns the resolved service bundle.
func (p *Platform) Services() Services { return p.services }

// Deploy registers an agent. Agent names are unique per platform.
func (p *Platform) Deploy(a *agent.Agent) error {
	if a == nil {
		return process.ErrNilAgent
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.agents[a.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrAgentExists, a.Name())
	}
	p.agents[a.Name()] = a
	p.order = append(p.order, a.Name())

	logging.Info().
		Add(logging.Component("platform")).
		Add(logging.AgentName(a.Name())).
		Msg("agent deployed")
	return nil
}

// Agent returns a deployed agent by name.
func (p *Platform) Agent(name string) (*agent.Agent, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	a, ok := p.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}
	return a, nil
}

// Agents returns all deployed agents in deployment order.
func (p *Platform) Agents() []*agent.Agent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*agent.Agent, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.agents[name])
	}
	return out
}

// Actions returns the actions of all deployed agents; with Goals and
// Conditions this makes the platform an aggregate agent scope.
func (p *Platform) Actions() []*action.Action {
	var out []*action.Action
	for _, a := range p.Agents() {
		out = append(out, a.Actions()...)
	}
	return out
}

// Goals returns the goals of all deployed agents.
func (p *Platform) Goals() []*goal.Goal {
	var out []*goal.Goal
	for _, a := range p.Agents() {
		out = append(out, a.Goals()...)
	}
	return out
}

// Conditions returns the named conditions of all deployed agents. On a name
// collision the later deployment wins.
func (p *Platform) Conditions() map[string]condition.Condition {
	out := make(map[string]condition.Condition)
	for _, a := range p.Agents() {
		for name, c := range a.Conditions() {
			out[name] = c
		}
	}
	return out
}

// CreateProcess creates a process for a deployed agent. Initial bindings are
// added to the fresh blackboard under the default name before the first tick.
// The process's events flow to the platform listener and the event store; its
// snapshot is persisted immediately.
func (p *Platform) CreateProcess(ctx context.Context, agentName string, opts process.Options, bindings ...any) (*process.Process, error) {
	return p.createProcess(ctx, agentName, "", nil, opts, bindings...)
}

// CreateChildProcess creates a process whose blackboard starts as a spawn of
// the parent's: same objects, flags and types, independently mutable.
func (p *Platform) CreateChildProcess(ctx context.Context, parent *process.Process, agentName string, opts process.Options, bindings ...any) (*process.Process, error) {
	if parent == nil {
		return nil, ErrProcessNotFound
	}
	return p.createProcess(ctx, agentName, parent.ID(), parent.Blackboard().Spawn(), opts, bindings...)
}

func (p *Platform) createProcess(ctx context.Context, agentName, parentID string, bb *blackboard.Blackboard, opts process.Options, bindings ...any) (*process.Process, error) {
	a, err := p.Agent(agentName)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if bb == nil {
		bb = a.NewBlackboard()
	}
	for _, v := range bindings {
		bb.Add(v)
	}

	proc, err := process.New(process.Config{
		ID:         id,
		ParentID:   parentID,
		Agent:      a,
		Planner:    p.services.Planner,
		Options:    opts,
		Blackboard: bb,
		Runner:     p.services.Runner,
		Listener:   event.Multicast(p.services.Listener, storeListener(p.services.Events)),
		Lifecycle:  p.lifecycle(id),
	})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.processes[id] = proc
	p.mu.Unlock()

	if err := p.services.Processes.Save(ctx, proc.Snapshot()); err != nil {
		logging.Warn().
			Add(logging.Component("platform")).
			Add(logging.ProcessID(id)).
			Add(logging.ErrorField(err)).
			Msg("snapshot save failed")
	}
	return proc, nil
}

// GetProcess returns a tracked process by id.
func (p *Platform) GetProcess(id string) (*process.Process, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	proc, ok := p.processes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProcessNotFound, id)
	}
	return proc, nil
}

// ListProcesses returns all tracked processes.
func (p *Platform) ListProcesses() []*process.Process {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*process.Process, 0, len(p.processes))
	for _, proc := range p.processes {
		out = append(out, proc)
	}
	return out
}

// KillProcess kills a tracked process and persists its final snapshot.
func (p *Platform) KillProcess(ctx context.Context, id string) (process.Status, error) {
	proc, err := p.GetProcess(id)
	if err != nil {
		return "", err
	}

	st := proc.Kill()
	p.persist(ctx, proc)
	return st, nil
}

// RunProcess runs a process to quiescence on the calling goroutine and
// persists its snapshot afterwards.
func (p *Platform) RunProcess(ctx context.Context, proc *process.Process) process.Status {
	st := proc.Run(ctx)
	p.persist(ctx, proc)
	return st
}

// Start hands the run to the asyncer and returns a handle to await it.
func (p *Platform) Start(ctx context.Context, proc *process.Process) *Handle {
	h := newHandle()
	p.services.Asyncer.Go(func() {
		h.finish(p.RunProcess(ctx, proc))
	})
	return h
}

// Close releases the platform's stores.
func (p *Platform) Close() error {
	eventsErr := p.services.Events.Close()
	if err := p.services.Processes.Close(); err != nil {
		return err
	}
	return eventsErr
}

func (p *Platform) persist(ctx context.Context, proc *process.Process) {
	if err := p.services.Processes.Save(ctx, proc.Snapshot()); err != nil {
		logging.Warn().
			Add(logging.Component("platform")).
			Add(logging.ProcessID(proc.ID())).
			Add(logging.ErrorField(err)).
			Msg("snapshot save failed")
	}
}

// storeListener appends every event to the store. Persistence failures are
// logged, never surfaced: listeners must not disturb the process loop.
func storeListener(store event.Store) event.Listener {
	return event.ListenerFunc(func(e event.Event) {
		if err := store.Append(context.Background(), e); err != nil {
			logging.Warn().
				Add(logging.Component("platform")).
				Add(logging.ProcessID(e.ProcessID)).
				Add(logging.ErrorField(err)).
				Msg("event append failed")
		}
	})
}

var _ agent.Scope = (*Platform)(nil)

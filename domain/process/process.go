package process

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/agent"
	"github.com/zwp88/goapflow/domain/bind"
	"github.com/zwp88/goapflow/domain/blackboard"
	"github.com/zwp88/goapflow/domain/event"
	"github.com/zwp88/goapflow/domain/plan"
	"github.com/zwp88/goapflow/domain/policy"
)

// Lifecycle guards process status transitions. The default implementation is
// a mutex-protected compare-and-swap; a statechart-backed implementation can
// additionally reject transitions the lifecycle model forbids.
type Lifecycle interface {
	Status() Status
	CompareAndSwap(from, to Status) bool
}

type plainLifecycle struct {
	mu     sync.Mutex
	status Status
}

func (l *plainLifecycle) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *plainLifecycle) CompareAndSwap(from, to Status) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != from {
		return false
	}
	l.status = to
	return true
}

// Runner executes one action invocation, applying the action's QoS policy.
// The process hands retries off to it and treats the returned result as final.
type Runner interface {
	Run(ctx context.Context, act *action.Action, ec *action.Context) action.Result
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, act *action.Action, ec *action.Context) action.Result

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, act *action.Action, ec *action.Context) action.Result {
	return f(ctx, act, ec)
}

// directRunner executes the action body once, with no retry.
type directRunner struct{}

func (directRunner) Run(ctx context.Context, act *action.Action, ec *action.Context) action.Result {
	return act.Execute(ctx, ec)
}

// ActionInvocation is one history record of an executed action.
type ActionInvocation struct {
	Action    string        `json:"action"`
	Status    action.Status `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// FailureInfo explains why a process stopped making progress.
type FailureInfo struct {
	Reason string `json:"reason"`
	Policy string `json:"policy,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Config assembles a process. Agent and Planner are required; every other
// collaborator has a working default.
type Config struct {
	ID         string
	ParentID   string
	Agent      *agent.Agent
	Planner    plan.Planner
	Options    Options
	Blackboard *blackboard.Blackboard
	Runner     Runner
	Determiner WorldStateDeterminer
	Listener   event.Listener
	Lifecycle  Lifecycle
}

// Process is one run of an agent: its own blackboard, its own history, its
// own budget. It advances through discrete ticks, each replanning from
// scratch against the current blackboard state.
//
// Status transitions are synchronized through the lifecycle, so Kill is safe
// from any goroutine; everything else assumes a single driving goroutine.
type Process struct {
	id          string
	parentID    string
	agent       *agent.Agent
	opts        Options
	bb          *blackboard.Blackboard
	planner     plan.Planner
	runner      Runner
	determiner  WorldStateDeterminer
	listener    event.Listener
	lifecycle   Lifecycle
	termination policy.EarlyTerminationPolicy
	usage       *policy.Usage
	createdAt   time.Time

	mu             sync.RWMutex
	history        []ActionInvocation
	lastWorldState plan.WorldState
	goalName       string
	failure        *FailureInfo
	failureCause   error
}

// New assembles a process in the NOT_STARTED state and emits its creation
// event.
func New(cfg Config) (*Process, error) {
	if cfg.Agent == nil {
		return nil, ErrNilAgent
	}
	if cfg.Planner == nil {
		return nil, ErrNilPlanner
	}

	p := &Process{
		id:          cfg.ID,
		parentID:    cfg.ParentID,
		agent:       cfg.Agent,
		opts:        cfg.Options,
		bb:          cfg.Blackboard,
		planner:     cfg.Planner,
		runner:      cfg.Runner,
		determiner:  cfg.Determiner,
		listener:    cfg.Listener,
		lifecycle:   cfg.Lifecycle,
		termination: cfg.Options.terminationPolicy(),
		usage:       policy.NewUsage(),
		createdAt:   time.Now(),
	}
	if p.id == "" {
		p.id = uuid.NewString()
	}
	if p.bb == nil {
		p.bb = cfg.Agent.NewBlackboard()
	}
	if p.runner == nil {
		p.runner = directRunner{}
	}
	if p.determiner == nil {
		p.determiner = NewDeterminer()
	}
	if p.listener == nil {
		p.listener = event.Nop()
	}
	if p.lifecycle == nil {
		p.lifecycle = &plainLifecycle{status: StatusNotStarted}
	}

	p.bb.Observe(func(name string, v any) {
		p.emit(event.TypeObjectBound, event.ObjectBoundPayload{
			Name: name,
			Type: bind.NameOf(v),
		})
	})

	p.emit(event.TypeProcessCreated, event.ProcessCreatedPayload{
		Agent:    cfg.Agent.Name(),
		ParentID: cfg.ParentID,
	})
	return p, nil
}

// ID returns the process id.
func (p *Process) ID() string { return p.id }

// ParentID returns the spawning process id, or empty for a root process.
func (p *Process) ParentID() string { return p.parentID }

// Agent returns the agent this process runs.
func (p *Process) Agent() *agent.Agent { return p.agent }

// Blackboard returns the process state store.
func (p *Process) Blackboard() *blackboard.Blackboard { return p.bb }

// Options returns the run options.
func (p *Process) Options() Options { return p.opts }

// Usage returns the resource usage tracker action bodies record into.
func (p *Process) Usage() *policy.Usage { return p.usage }

// CreatedAt returns when the process was created.
func (p *Process) CreatedAt() time.Time { return p.createdAt }

// Status returns the current lifecycle status.
func (p *Process) Status() Status { return p.lifecycle.Status() }

// ActionCount implements policy.ProcessView.
func (p *Process) ActionCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.history)
}

// TokensUsed implements policy.ProcessView.
func (p *Process) TokensUsed() int { return p.usage.Tokens() }

// CostAccrued implements policy.ProcessView.
func (p *Process) CostAccrued() float64 { return p.usage.Cost() }

// History returns a copy of the action invocation records, oldest first.
func (p *Process) History() []ActionInvocation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]ActionInvocation, len(p.history))
	copy(out, p.history)
	return out
}

// LastWorldState returns the world state computed by the most recent tick.
func (p *Process) LastWorldState() plan.WorldState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastWorldState
}

// GoalName returns the goal the process has committed to, or empty before the
// first plan.
func (p *Process) GoalName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.goalName
}

// FailureInfo returns why the process stopped, or nil while it is healthy.
func (p *Process) FailureInfo() *FailureInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failure
}

// FailureCause returns the underlying error behind FailureInfo, for callers
// that branch on sentinel errors such as ErrGoalChange.
func (p *Process) FailureCause() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failureCause
}

// Run drives the tick loop until the process reaches a non-running status.
// Running a terminal process is a no-op returning the terminal status, so Run
// is idempotent. A waiting, paused, stuck or failed process resumes from its
// current blackboard state.
func (p *Process) Run(ctx context.Context) Status {
	cur := p.Status()
	if cur.IsTerminal() {
		return cur
	}
	if cur != StatusRunning && !p.transition(cur, StatusRunning, "run") {
		return p.Status()
	}

	for {
		if err := ctx.Err(); err != nil {
			return p.fail(err, "run context canceled")
		}
		if et := p.termination.ShouldTerminate(p); et != nil {
			return p.terminate(et)
		}
		if st := p.Tick(ctx); st != StatusRunning {
			return st
		}
	}
}

// Tick performs one plan-then-execute step: recompute the world state, plan,
// then either finish, execute the first planned action, or report the
// impasse. It returns the status after the step; StatusRunning means there is
// more to do.
func (p *Process) Tick(ctx context.Context) Status {
	if st := p.Status(); st != StatusRunning {
		if st.IsTerminal() {
			return st
		}
		if !p.transition(st, StatusRunning, "tick") {
			return p.Status()
		}
	}

	ws := p.determiner.Determine(ctx, p.agent, p.bb)
	p.mu.Lock()
	p.lastWorldState = ws
	p.mu.Unlock()
	p.emit(event.TypeReadyToPlan, struct{}{})

	pl, err := p.planner.BestValuePlanToAnyGoal(ctx, plan.System{
		Actions: p.agent.Actions(),
		Goals:   p.agent.Goals(),
		State:   ws,
	})
	if err != nil {
		return p.fail(err, "planning failed")
	}
	if pl == nil {
		p.transition(StatusRunning, StatusStuck, "no plan reaches any goal")
		return p.resolveImpasse(ctx, StatusStuck)
	}

	if prev := p.GoalName(); prev != "" && prev != pl.Goal.Name() && !p.opts.AllowGoalChange {
		return p.fail(
			fmt.Errorf("%w: %s to %s", ErrGoalChange, prev, pl.Goal.Name()),
			"planner switched goals",
		)
	}
	p.mu.Lock()
	p.goalName = pl.Goal.Name()
	p.mu.Unlock()

	p.emit(event.TypePlanFormulated, event.PlanFormulatedPayload{
		Goal:     pl.Goal.Name(),
		Actions:  pl.ActionNames(),
		Complete: pl.IsComplete(),
	})
	if pl.IsComplete() {
		p.transition(StatusRunning, StatusCompleted, "goal "+pl.Goal.Name()+" satisfied")
		return StatusCompleted
	}

	act := pl.Actions[0]
	p.emit(event.TypeActionStarted, event.ActionStartedPayload{Action: act.Name()})

	started := time.Now()
	res := p.runner.Run(ctx, act, &action.Context{ProcessID: p.id, Blackboard: p.bb})
	elapsed := time.Since(started)
	p.record(act.Name(), res, started, elapsed)

	switch res.Status {
	case action.StatusSucceeded:
		// Flag-form effects (including the rerun guard) must hold on the
		// next determination; binding-form effects hold through the bound
		// output itself.
		for name := range act.Effects() {
			if !bind.IsConditionName(name) {
				p.bb.SetCondition(name, true)
			}
		}
		return StatusRunning
	case action.StatusWaiting:
		p.transition(StatusRunning, StatusWaiting, "action "+act.Name()+" awaiting input")
		return StatusWaiting
	case action.StatusPaused:
		p.transition(StatusRunning, StatusPaused, "action "+act.Name()+" paused")
		return p.resolveImpasse(ctx, StatusPaused)
	default:
		return p.fail(res.Err, "action "+act.Name()+" failed")
	}
}

// Kill halts the process from outside. It takes effect at the next tick
// boundary; an in-flight action invocation is not interrupted. Killing an
// already terminal process is a no-op returning the terminal status.
func (p *Process) Kill() Status {
	for {
		cur := p.Status()
		if cur.IsTerminal() {
			return cur
		}
		if p.transition(cur, StatusKilled, "killed") {
			p.emit(event.TypeKilled, struct{}{})
			return StatusKilled
		}
	}
}

func (p *Process) resolveImpasse(ctx context.Context, st Status) Status {
	h := p.agent.StuckHandler()
	if h == nil {
		return st
	}
	if h(ctx, p.bb) == agent.OutcomeReplan && p.transition(st, StatusRunning, "impasse resolved") {
		return StatusRunning
	}
	return st
}

func (p *Process) fail(err error, reason string) Status {
	p.mu.Lock()
	p.failure = &FailureInfo{Reason: reason}
	if err != nil {
		p.failure.Error = err.Error()
	}
	p.failureCause = err
	p.mu.Unlock()

	p.transition(StatusRunning, StatusFailed, reason)
	return StatusFailed
}

func (p *Process) terminate(et *policy.EarlyTermination) Status {
	p.mu.Lock()
	p.failure = &FailureInfo{Reason: et.Reason, Policy: et.Policy.String()}
	p.mu.Unlock()

	p.transition(StatusRunning, StatusTerminated, et.Reason)
	p.emit(event.TypeTerminated, event.TerminatedPayload{
		Reason: et.Reason,
		Policy: et.Policy.String(),
	})
	return StatusTerminated
}

func (p *Process) record(actionName string, res action.Result, started time.Time, elapsed time.Duration) {
	inv := ActionInvocation{
		Action:    actionName,
		Status:    res.Status,
		StartedAt: started,
		Duration:  elapsed,
	}
	if res.Err != nil {
		inv.Error = res.Err.Error()
	}

	p.mu.Lock()
	p.history = append(p.history, inv)
	p.mu.Unlock()

	payload := event.ActionResultPayload{
		Action:     actionName,
		Status:     string(res.Status),
		DurationMs: elapsed.Milliseconds(),
	}
	if res.Err != nil {
		payload.Error = res.Err.Error()
	}
	p.emit(event.TypeActionResult, payload)
}

func (p *Process) transition(from, to Status, reason string) bool {
	if !p.lifecycle.CompareAndSwap(from, to) {
		return false
	}
	p.emit(event.TypeStatusChanged, event.StatusChangedPayload{
		From:   string(from),
		To:     string(to),
		Reason: reason,
	})
	return true
}

func (p *Process) emit(t event.Type, payload any) {
	e, err := event.New(p.id, t, payload)
	if err != nil {
		return
	}
	p.listener.OnEvent(e)
}

// ResultOf returns the most recent blackboard object assignable to T,
// typically the final output of a completed process.
func ResultOf[T any](p *Process) (T, bool) {
	return blackboard.Last[T](p.Blackboard())
}

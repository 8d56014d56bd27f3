// Package api is the public facade for the goapflow runtime. It re-exports
// the builders, types and constructors callers need so a typical program
// imports one package.
//
// A minimal agent:
//
//	fetch := api.NewActionBuilder("fetch").
//	    WithOutput("it:Order").
//	    WithHandler(func(ctx context.Context, ec *api.ActionContext) api.ActionResult {
//	        return api.Completed(Order{ID: "o-1"})
//	    }).
//	    MustBuild()
//
//	ag, _ := api.NewAgent("fetcher", "fetches an order",
//	    api.WithActions(fetch),
//	    api.WithGoals(api.NewGoalBuilder("fetched").SatisfiedByType("Order").MustBuild()),
//	)
//
//	platform, _ := api.NewPlatform("demo")
//	_ = platform.Deploy(ag)
//	proc, _ := platform.CreateProcess(ctx, "fetcher", api.DefaultOptions())
//	status := platform.RunProcess(ctx, proc)
package api

import (
	"github.com/zwp88/goapflow/application"
	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/agent"
	"github.com/zwp88/goapflow/domain/blackboard"
	"github.com/zwp88/goapflow/domain/goal"
	"github.com/zwp88/goapflow/domain/policy"
	"github.com/zwp88/goapflow/domain/process"
)

// Core types.
type (
	// Agent is an immutable bundle of actions, goals and conditions.
	Agent = agent.Agent

	// Platform is a registry of deployed agents and their processes.
	Platform = application.Platform

	// Process is one run of an agent.
	Process = process.Process

	// Blackboard is the per-process shared state store.
	Blackboard = blackboard.Blackboard

	// ActionContext is passed to every action handler.
	ActionContext = action.Context

	// ActionResult is the outcome of one action invocation.
	ActionResult = action.Result

	// QoS is an action's retry/timeout policy.
	QoS = action.QoS

	// Options configure a process run.
	Options = process.Options

	// Budget bounds a process's resource consumption.
	Budget = policy.Budget

	// Status is a process lifecycle status.
	Status = process.Status

	// Services bundles a platform's external collaborators.
	Services = application.Services
)

// Process statuses.
const (
	StatusNotStarted = process.StatusNotStarted
	StatusRunning    = process.StatusRunning
	StatusCompleted  = process.StatusCompleted
	StatusFailed     = process.StatusFailed
	StatusWaiting    = process.StatusWaiting
	StatusPaused     = process.StatusPaused
	StatusStuck      = process.StatusStuck
	StatusTerminated = process.StatusTerminated
	StatusKilled     = process.StatusKilled
)

// Builders.
var (
	// NewActionBuilder starts an action definition.
	NewActionBuilder = action.NewBuilder

	// NewGoalBuilder starts a goal definition.
	NewGoalBuilder = goal.NewBuilder

	// NewAgent constructs an immutable agent.
	NewAgent = agent.New

	// NewPlatform constructs a platform with default services.
	NewPlatform = application.NewPlatform
)

// Agent options.
var (
	WithActions      = agent.WithActions
	WithGoals        = agent.WithGoals
	WithConditions   = agent.WithConditions
	WithTypes        = agent.WithTypes
	WithAggregation  = agent.WithAggregation
	WithStuckHandler = agent.WithStuckHandler
)

// Action results.
var (
	// Completed reports success, optionally binding a produced value.
	Completed = action.Completed

	// Waiting suspends the process pending external input.
	Waiting = action.Waiting

	// Failed reports a failed invocation.
	Failed = action.Failed

	// Paused suspends the process at the scheduler's request.
	Paused = action.Paused
)

// Termination policies.
var (
	MaxActions      = policy.MaxActions
	MaxTokens       = policy.MaxTokens
	HardBudgetLimit = policy.HardBudgetLimit
	FirstOf         = policy.FirstOf
)

// DefaultOptions returns the default process options.
func DefaultOptions() Options {
	return process.DefaultOptions()
}

// ResultOf returns the most recent blackboard object assignable to T from a
// process, typically the final output of a completed run.
func ResultOf[T any](p *Process) (T, bool) {
	return process.ResultOf[T](p)
}

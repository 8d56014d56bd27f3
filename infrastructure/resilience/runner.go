// Package resilience provides the resilient action runner using fortify.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/zwp88/goapflow/domain/action"
)

// errFailedResult carries a failed action result through the retry machinery,
// which only retries on error returns.
var errFailedResult = errors.New("action reported failure")

// Runner executes actions with circuit breaker, retry, and bulkhead patterns.
// Retry policy comes from each action's QoS; concurrency and breaker limits
// are platform-wide.
type Runner struct {
	bulkhead bulkhead.Bulkhead[action.Result]
	breaker  circuitbreaker.CircuitBreaker[action.Result]
}

// RunnerConfig configures the resilient runner.
type RunnerConfig struct {
	// MaxConcurrent limits concurrent action executions across processes.
	MaxConcurrent int

	// CircuitBreakerThreshold is the number of consecutive failures before
	// opening.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration
}

// DefaultRunnerConfig returns a configuration with sensible defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		MaxConcurrent:           10,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
	}
}

// NewRunner creates a new resilient runner.
func NewRunner(config RunnerConfig) *Runner {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	threshold := config.CircuitBreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}

	return &Runner{
		bulkhead: bulkhead.New[action.Result](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
		}),
		breaker: circuitbreaker.New[action.Result](circuitbreaker.Config{
			MaxRequests: uint32(maxConcurrent), // #nosec G115 -- bounds checked above
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		}),
	}
}

// NewDefaultRunner creates a runner with default configuration.
func NewDefaultRunner() *Runner {
	return NewRunner(DefaultRunnerConfig())
}

// Run executes one action invocation.
// Composition order: Bulkhead → Timeout → Circuit Breaker → Retry.
// Only failed results are retried; waiting and paused results are suspension
// signals and pass through untouched. The returned result is final.
func (r *Runner) Run(ctx context.Context, act *action.Action, ec *action.Context) action.Result {
	qos := act.QoS()

	result, err := r.bulkhead.Execute(ctx, func(ctx context.Context) (action.Result, error) {
		if qos.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, qos.Timeout)
			defer cancel()
		}

		return r.breaker.Execute(ctx, func(ctx context.Context) (action.Result, error) {
			if qos.MaxAttempts <= 1 {
				return attempt(ctx, act, ec)
			}

			// Retry policy is per action, so the retry is built per
			// invocation from its QoS.
			rt := retry.New[action.Result](retry.Config{
				MaxAttempts:   qos.MaxAttempts,
				InitialDelay:  qos.InitialDelay,
				BackoffPolicy: retry.BackoffExponential,
				Multiplier:    qos.BackoffMultiplier,
			})
			return rt.Do(ctx, func(ctx context.Context) (action.Result, error) {
				return attempt(ctx, act, ec)
			})
		})
	})
	if err != nil {
		if result.Status == action.StatusFailed {
			return result
		}
		return action.Failed(err)
	}
	return result
}

// attempt runs the body once, translating a failed result into an error so
// the surrounding retry and breaker see it.
func attempt(ctx context.Context, act *action.Action, ec *action.Context) (action.Result, error) {
	res := act.Execute(ctx, ec)
	if res.Status == action.StatusFailed {
		err := res.Err
		if err == nil {
			err = errFailedResult
			res.Err = err
		}
		return res, err
	}
	return res, nil
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (r *Runner) CircuitBreakerState() circuitbreaker.State {
	return r.breaker.State()
}

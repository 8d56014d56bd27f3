package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zwp88/goapflow/domain/action"
	"github.com/zwp88/goapflow/domain/bind"
	"github.com/zwp88/goapflow/domain/blackboard"
)

func quickQoS(attempts int) action.QoS {
	return action.QoS{
		MaxAttempts:       attempts,
		InitialDelay:      time.Millisecond,
		BackoffMultiplier: 1.0,
		Timeout:           time.Second,
	}
}

func execContext() *action.Context {
	return &action.Context{ProcessID: "p-1", Blackboard: blackboard.New(bind.Types{})}
}

func TestRun_RetriesFailedResults(t *testing.T) {
	t.Parallel()

	attempts := 0
	act := action.NewBuilder("flaky").
		WithQoS(quickQoS(3)).
		WithHandler(func(ctx context.Context, ec *action.Context) action.Result {
			attempts++
			if attempts < 3 {
				return action.Failed(errors.New("transient"))
			}
			return action.Completed("ok")
		}).
		MustBuild()

	res := NewDefaultRunner().Run(context.Background(), act, execContext())

	if res.Status != action.StatusSucceeded {
		t.Fatalf("Run() status = %v, want SUCCEEDED (err: %v)", res.Status, res.Err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRun_FailureAfterExhaustedRetries(t *testing.T) {
	t.Parallel()

	attempts := 0
	cause := errors.New("permanent")
	act := action.NewBuilder("broken").
		WithQoS(quickQoS(2)).
		WithHandler(func(ctx context.Context, ec *action.Context) action.Result {
			attempts++
			return action.Failed(cause)
		}).
		MustBuild()

	res := NewDefaultRunner().Run(context.Background(), act, execContext())

	if res.Status != action.StatusFailed {
		t.Fatalf("Run() status = %v, want FAILED", res.Status)
	}
	if res.Err == nil {
		t.Error("failed result should carry an error")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestRun_WaitingIsNotRetried(t *testing.T) {
	t.Parallel()

	attempts := 0
	act := action.NewBuilder("asking").
		WithQoS(quickQoS(5)).
		WithHandler(func(ctx context.Context, ec *action.Context) action.Result {
			attempts++
			return action.Waiting("need input")
		}).
		MustBuild()

	res := NewDefaultRunner().Run(context.Background(), act, execContext())

	if res.Status != action.StatusWaiting {
		t.Fatalf("Run() status = %v, want WAITING", res.Status)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1: waiting is a suspension signal, not an error", attempts)
	}
}

func TestRun_SingleAttemptSkipsRetry(t *testing.T) {
	t.Parallel()

	attempts := 0
	act := action.NewBuilder("once").
		WithQoS(action.NoRetry()).
		WithHandler(func(ctx context.Context, ec *action.Context) action.Result {
			attempts++
			return action.Failed(errors.New("boom"))
		}).
		MustBuild()

	res := NewDefaultRunner().Run(context.Background(), act, execContext())

	if res.Status != action.StatusFailed {
		t.Fatalf("Run() status = %v, want FAILED", res.Status)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRun_BindsOutputOnSuccess(t *testing.T) {
	t.Parallel()

	act := action.NewBuilder("produce").
		WithOutput("report:string").
		WithQoS(quickQoS(1)).
		WithHandler(func(ctx context.Context, ec *action.Context) action.Result {
			return action.Completed("the report")
		}).
		MustBuild()

	ec := execContext()
	res := NewDefaultRunner().Run(context.Background(), act, ec)

	if res.Status != action.StatusSucceeded {
		t.Fatalf("Run() status = %v, want SUCCEEDED", res.Status)
	}
	if v, ok := ec.Blackboard.Get("report"); !ok || v != "the report" {
		t.Errorf("blackboard report = (%v, %v), want the bound output", v, ok)
	}
}

func TestDefaultRunnerConfig(t *testing.T) {
	t.Parallel()

	config := DefaultRunnerConfig()
	if config.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", config.MaxConcurrent)
	}
	if config.CircuitBreakerThreshold != 5 {
		t.Errorf("CircuitBreakerThreshold = %d, want 5", config.CircuitBreakerThreshold)
	}
	if config.CircuitBreakerTimeout != 30*time.Second {
		t.Errorf("CircuitBreakerTimeout = %v, want 30s", config.CircuitBreakerTimeout)
	}
}

package action

import "time"

// QoS is the per-action retry and timeout policy applied around execution.
type QoS struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// BackoffMultiplier is the exponential backoff multiplier between retries.
	BackoffMultiplier float64

	// Timeout bounds a single invocation, retries included.
	Timeout time.Duration
}

// DefaultQoS returns the policy used when an action declares none.
func DefaultQoS() QoS {
	return QoS{
		MaxAttempts:       3,
		InitialDelay:      100 * time.Millisecond,
		BackoffMultiplier: 2.0,
		Timeout:           30 * time.Second,
	}
}

// NoRetry returns a policy with a single attempt.
func NoRetry() QoS {
	q := DefaultQoS()
	q.MaxAttempts = 1
	return q
}

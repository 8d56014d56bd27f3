// Package action provides the immutable action descriptor: a named unit of
// work with declared inputs/outputs, derived preconditions and effects, a QoS
// policy and an executable body.
package action

// Status is the outcome classification of one action invocation.
type Status string

const (
	// StatusSucceeded means the body completed and outputs were bound.
	StatusSucceeded Status = "SUCCEEDED"

	// StatusFailed means the body failed after its QoS retries.
	StatusFailed Status = "FAILED"

	// StatusWaiting means the body cannot proceed without external input.
	// This is a suspension signal, not an error, and is never retried.
	StatusWaiting Status = "WAITING"

	// StatusPaused means the body requested a pause pending intervention.
	StatusPaused Status = "PAUSED"
)

// Result is the explicit outcome of an action body. It replaces
// exception-as-control-flow: a body that needs external input returns the
// Waiting variant instead of throwing a marker type.
type Result struct {
	Status Status

	// Value is the produced output for the Succeeded variant.
	Value any

	// Awaitable is the marker object describing what external input is
	// needed, for the Waiting variant. It is added to the blackboard.
	Awaitable any

	// Err is the failure cause for the Failed variant.
	Err error
}

// Completed builds a successful result carrying the produced output.
// A nil value is valid for actions whose only effect is a condition flag.
func Completed(value any) Result {
	return Result{Status: StatusSucceeded, Value: value}
}

// Waiting builds a suspension result carrying the awaitable marker.
func Waiting(awaitable any) Result {
	return Result{Status: StatusWaiting, Awaitable: awaitable}
}

// Failed builds a failure result.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// Paused builds a pause result.
func Paused() Result {
	return Result{Status: StatusPaused}
}

package jobs

import "errors"

var (
	// ErrNilResult is returned when Run or Open is called without a parse result.
	ErrNilResult = errors.New("jobs: result is nil")
	// ErrInvalidJob is returned when inserting a job without an id.
	ErrInvalidJob = errors.New("jobs: job id is required")
	// ErrNoResponder is returned when a job with directives has no responder to ask.
	ErrNoResponder = errors.New("jobs: responder is required")
	// ErrResponderFailed wraps a responder error for one directive.
	ErrResponderFailed = errors.New("jobs: responder failed")
	// ErrJobTimeout is returned when a job misses its deadline.
	ErrJobTimeout = errors.New("jobs: job timed out")
	// ErrJobCanceled is returned when the caller cancels a job in flight.
	ErrJobCanceled = errors.New("jobs: job canceled")
	// ErrJobEvicted is returned when a job disappears from the store while its
	// directives are still being answered.
	ErrJobEvicted = errors.New("jobs: job evicted")
)

package interfaces

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrJobNotFound reports missing jobs when looking them up by ID.
	ErrJobNotFound = errors.New("jobs: job not found")
	// ErrJobExists is returned when a live job already uses the ID.
	ErrJobExists = errors.New("jobs: job already open")
	// ErrDirectiveNotFound reports an answer for a directive that is not pending.
	ErrDirectiveNotFound = errors.New("jobs: directive not pending")
)

// JobStore keeps in-flight jobs keyed by ID. A store holds at most one entry
// per ID; entries are inserted on open and removed on completion, failure or
// eviction.
type JobStore interface {
	// Insert stores a new job. It fails with ErrJobExists while a job with the
	// same ID is live.
	Insert(ctx context.Context, job *Job) error
	// Get returns a snapshot of the job.
	Get(ctx context.Context, id string) (*Job, error)
	// Resolve splices the answer at the directive placeholder in both buffers,
	// removes the directive from the pending set and returns a snapshot.
	Resolve(ctx context.Context, jobID, directiveID string, answer Answer) (*Job, error)
	// SetStatus records a lifecycle transition for a live job.
	SetStatus(ctx context.Context, id string, status JobStatus) error
	// Delete removes the job. Deleting an unknown job returns ErrJobNotFound.
	Delete(ctx context.Context, id string) error
	// Evict removes every job whose ExpiresAt is at or before now and returns
	// the removed snapshots.
	Evict(ctx context.Context, now time.Time) ([]*Job, error)
	// List returns snapshots of all live jobs ordered by creation time.
	List(ctx context.Context) ([]*Job, error)
	// Len reports the number of live jobs.
	Len() int
}

// JobStatus describes the lifecycle of a job.
type JobStatus string

const (
	JobStatusOpen        JobStatus = "open"
	JobStatusDispatching JobStatus = "dispatching"
	JobStatusComplete    JobStatus = "complete"
	JobStatusFailed      JobStatus = "failed"
	JobStatusEvicted     JobStatus = "evicted"
)

// Job tracks one parsed unit until all of its directives are answered.
type Job struct {
	ID        string
	Text      string
	HTML      string
	Data      ResultData
	Pending   []Directive
	Status    JobStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Result converts the job buffers into a parse result.
func (j *Job) Result() *Result {
	if j == nil {
		return nil
	}
	return &Result{
		Text: j.Text,
		HTML: j.HTML,
		Data: j.Data,
	}
}

package jobs

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Audit actions emitted by the processor.
const (
	ActionJobOpened    = "job.opened"
	ActionJobCompleted = "job.completed"
	ActionJobFailed    = "job.failed"
	ActionJobEvicted   = "job.evicted"
)

// AuditEvent captures one lifecycle transition of a job.
type AuditEvent struct {
	JobID      string
	Action     string
	OccurredAt time.Time
	Metadata   map[string]any
}

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
	List(ctx context.Context) ([]AuditEvent, error)
	Clear(ctx context.Context) error
}

// InMemoryAuditRecorder accumulates audit events in memory.
type InMemoryAuditRecorder struct {
	mu     sync.Mutex
	events []AuditEvent
	err    error
}

// NewInMemoryAuditRecorder constructs an empty recorder.
func NewInMemoryAuditRecorder() *InMemoryAuditRecorder {
	return &InMemoryAuditRecorder{}
}

func (r *InMemoryAuditRecorder) Record(_ context.Context, event AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	event.Metadata = maps.Clone(event.Metadata)
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of recorded entries.
func (r *InMemoryAuditRecorder) Events() []AuditEvent {
	events, _ := r.List(context.Background())
	return events
}

// Actions returns the recorded actions in order.
func (r *InMemoryAuditRecorder) Actions() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, event := range events {
		out[i] = event.Action
	}
	return out
}

// Fail makes subsequent Record calls return err.
func (r *InMemoryAuditRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *InMemoryAuditRecorder) List(context.Context) ([]AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditEvent, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *InMemoryAuditRecorder) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	return nil
}

var _ AuditRecorder = (*InMemoryAuditRecorder)(nil)

package jobs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

const (
	// DefaultStagger spaces directive dispatch: item i waits stagger*(i+1).
	DefaultStagger = 10 * time.Millisecond
	// DefaultTimeout bounds how long a job may wait for its answers.
	DefaultTimeout = 30 * time.Second
)

// Processor resolves the directives of parsed results against a responder
// and splices the answers back into the text and HTML buffers.
type Processor struct {
	store     interfaces.JobStore
	responder interfaces.Responder
	audit     AuditRecorder
	sanitizer Sanitizer
	logger    interfaces.Logger
	now       func() time.Time
	stagger   time.Duration
	timeout   time.Duration
	inFlight  atomic.Int64
}

// Option configures a Processor.
type Option func(*Processor)

// WithAuditRecorder records lifecycle events.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(p *Processor) {
		p.audit = recorder
	}
}

// WithSanitizer cleans answer HTML before splicing.
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(p *Processor) {
		p.sanitizer = sanitizer
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Processor) {
		if clock != nil {
			p.now = clock
		}
	}
}

// WithStagger sets the dispatch spacing. Zero dispatches every item at once.
func WithStagger(stagger time.Duration) Option {
	return func(p *Processor) {
		if stagger >= 0 {
			p.stagger = stagger
		}
	}
}

// WithTimeout sets the per-job deadline. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Processor) {
		if timeout >= 0 {
			p.timeout = timeout
		}
	}
}

// NewProcessor builds a processor. A nil store gets a fresh MemoryStore.
func NewProcessor(store interfaces.JobStore, responder interfaces.Responder, opts ...Option) *Processor {
	p := &Processor{
		store:     store,
		responder: responder,
		logger:    logging.NoOp(),
		now:       time.Now,
		stagger:   DefaultStagger,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.store == nil {
		p.store = NewMemoryStore(WithStoreClock(p.now))
	}
	return p
}

// Store exposes the job table.
func (p *Processor) Store() interfaces.JobStore {
	return p.store
}

// Talking reports whether any job is waiting on answers.
func (p *Processor) Talking() bool {
	return p.inFlight.Load() > 0
}

// Run opens a job for result and blocks until every directive is answered,
// the job fails or ctx is done. Results without directives are returned
// as is.
func (p *Processor) Run(ctx context.Context, result *interfaces.Result) (*interfaces.Result, error) {
	job, err := p.Open(ctx, result)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return result, nil
	}
	return p.Dispatch(ctx, job)
}

// Open stores a job for result. It returns a nil job when there is nothing
// to resolve. Every opened job must be passed to Dispatch.
func (p *Processor) Open(ctx context.Context, result *interfaces.Result) (*interfaces.Job, error) {
	if result == nil {
		return nil, ErrNilResult
	}
	if len(result.Data.Talk) == 0 {
		return nil, nil
	}
	if p.responder == nil {
		return nil, ErrNoResponder
	}

	now := p.now()
	job := &interfaces.Job{
		ID:        result.Data.ID,
		Text:      result.Text,
		HTML:      result.HTML,
		Data:      cloneData(result.Data),
		Pending:   slices.Clone(result.Data.Talk),
		Status:    interfaces.JobStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.timeout > 0 {
		job.ExpiresAt = now.Add(p.timeout)
	}

	if err := p.store.Insert(ctx, job); err != nil {
		return nil, fmt.Errorf("jobs: open %s: %w", job.ID, err)
	}
	p.inFlight.Add(1)

	logging.WithJobContext(p.logger.WithContext(ctx), job.ID, "").
		Debug("jobs.job.opened", "directives", len(job.Pending))
	p.record(ctx, job.ID, ActionJobOpened, map[string]any{"directives": len(job.Pending)})
	return job, nil
}

type answered struct {
	directive interfaces.Directive
	answer    interfaces.Answer
}

// Dispatch asks the responder about every pending directive, one goroutine
// each, and returns the finished result once the last answer lands. Answers
// are applied by this goroutine only. It returns at the job deadline even
// when a responder ignores ctx. On failure the job is removed from the store
// before returning.
func (p *Processor) Dispatch(ctx context.Context, job *interfaces.Job) (*interfaces.Result, error) {
	if job == nil {
		return nil, ErrNilResult
	}
	defer p.inFlight.Add(-1)

	logger := logging.WithJobContext(p.logger.WithContext(ctx), job.ID, "")

	dispatchCtx, cancel := p.deadline(ctx)
	defer cancel()

	if err := p.store.SetStatus(dispatchCtx, job.ID, interfaces.JobStatusDispatching); err != nil {
		return nil, p.fail(ctx, logger, job.ID, dispatchCtx, err)
	}

	pending := slices.Clone(job.Pending)
	if len(pending) == 0 {
		snapshot, err := p.store.Get(dispatchCtx, job.ID)
		if err != nil {
			return nil, p.fail(ctx, logger, job.ID, dispatchCtx, err)
		}
		return p.complete(ctx, logger, snapshot), nil
	}

	answers := make(chan answered, len(pending))
	group, groupCtx := errgroup.WithContext(dispatchCtx)

	for i, directive := range pending {
		delay := p.stagger * time.Duration(i+1)
		group.Go(func() error {
			if err := sleep(groupCtx, delay); err != nil {
				return err
			}
			answer, err := p.responder.Question(groupCtx, directive.Value)
			if err != nil {
				return fmt.Errorf("%w: directive %s: %w", ErrResponderFailed, directive.ID, err)
			}
			answers <- answered{directive: directive, answer: answer}
			return nil
		})
	}

	settled := make(chan error, 1)
	go func() { settled <- group.Wait() }()

	remaining := len(pending)
	for remaining > 0 {
		select {
		case item := <-answers:
			snapshot, err := p.onAnswer(dispatchCtx, logger, job.ID, item)
			if err != nil {
				cancel()
				return nil, p.fail(ctx, logger, job.ID, dispatchCtx, err)
			}
			remaining--
			if remaining == 0 {
				if settled != nil {
					<-settled
				}
				return p.complete(ctx, logger, snapshot), nil
			}
		case err := <-settled:
			settled = nil
			if err != nil {
				return nil, p.fail(ctx, logger, job.ID, dispatchCtx, err)
			}
		case <-dispatchCtx.Done():
			// Responders that ignore ctx are abandoned; answers is buffered
			// so they can still exit.
			return nil, p.fail(ctx, logger, job.ID, dispatchCtx, context.Cause(dispatchCtx))
		}
	}

	return nil, p.fail(ctx, logger, job.ID, dispatchCtx, ErrJobEvicted)
}

func (p *Processor) onAnswer(ctx context.Context, logger interfaces.Logger, jobID string, item answered) (*interfaces.Job, error) {
	answer := item.answer
	if p.sanitizer != nil && answer.HTML != "" {
		answer.HTML = p.sanitizer.Sanitize(answer.HTML)
	}

	snapshot, err := p.store.Resolve(ctx, jobID, item.directive.ID, answer)
	if err != nil {
		if errors.Is(err, interfaces.ErrJobNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrJobEvicted, err)
		}
		return nil, err
	}

	logging.WithJobContext(logger, "", item.directive.ID).
		Debug("jobs.directive.answered", "pending", len(snapshot.Pending))
	return snapshot, nil
}

func (p *Processor) complete(ctx context.Context, logger interfaces.Logger, snapshot *interfaces.Job) *interfaces.Result {
	if err := p.store.Delete(ctx, snapshot.ID); err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
		logger.Warn("jobs.job.delete_failed", "error", err)
	}
	snapshot.Status = interfaces.JobStatusComplete

	logger.Info("jobs.job.completed", "directives", len(snapshot.Data.Talk))
	p.record(ctx, snapshot.ID, ActionJobCompleted, map[string]any{"directives": len(snapshot.Data.Talk)})
	return snapshot.Result()
}

// fail removes the job and classifies cause. dispatchCtx decides between a
// timeout and a caller cancellation.
func (p *Processor) fail(ctx context.Context, logger interfaces.Logger, jobID string, dispatchCtx context.Context, cause error) error {
	cleanup := context.WithoutCancel(ctx)
	if err := p.store.Delete(cleanup, jobID); err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
		logger.Warn("jobs.job.delete_failed", "error", err)
	}

	var (
		err    error
		action = ActionJobFailed
	)
	switch {
	case errors.Is(dispatchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		action = ActionJobEvicted
		err = fmt.Errorf("%w: job %s: %w", ErrJobTimeout, jobID, context.Cause(dispatchCtx))
	case ctx.Err() != nil:
		err = fmt.Errorf("%w: job %s: %w", ErrJobCanceled, jobID, context.Cause(ctx))
	case errors.Is(cause, ErrResponderFailed):
		err = cause
	case errors.Is(cause, ErrJobEvicted):
		action = ActionJobEvicted
		err = cause
	default:
		err = fmt.Errorf("jobs: job %s: %w", jobID, cause)
	}

	if action == ActionJobEvicted {
		logger.Warn("jobs.job.evicted", "error", err)
	} else {
		logger.Error("jobs.job.failed", "error", err)
	}
	p.record(cleanup, jobID, action, map[string]any{"error": err.Error()})
	return err
}

// Sweep evicts every stored job whose deadline is at or before now.
func (p *Processor) Sweep(ctx context.Context, now time.Time) ([]*interfaces.Job, error) {
	evicted, err := p.store.Evict(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, job := range evicted {
		logging.WithJobContext(p.logger.WithContext(ctx), job.ID, "").
			Warn("jobs.job.evicted", "pending", len(job.Pending))
		p.record(ctx, job.ID, ActionJobEvicted, map[string]any{"pending": len(job.Pending), "sweep": true})
	}
	return evicted, nil
}

func (p *Processor) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Processor) record(ctx context.Context, jobID, action string, metadata map[string]any) {
	if p.audit == nil {
		return
	}
	event := AuditEvent{
		JobID:      jobID,
		Action:     action,
		OccurredAt: p.now(),
		Metadata:   metadata,
	}
	if err := p.audit.Record(ctx, event); err != nil {
		logging.WithJobContext(p.logger, jobID, "").Warn("jobs.audit.record_failed", "action", action, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

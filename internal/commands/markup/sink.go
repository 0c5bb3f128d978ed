package markupcmd

import (
	"context"
	"sync"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// ResultSink receives the resolved result of a command.
type ResultSink interface {
	Deliver(ctx context.Context, result *interfaces.Result) error
}

// ResultSinkFunc adapts a function into a ResultSink.
type ResultSinkFunc func(ctx context.Context, result *interfaces.Result) error

// Deliver implements ResultSink.
func (f ResultSinkFunc) Deliver(ctx context.Context, result *interfaces.Result) error {
	return f(ctx, result)
}

// MemorySink keeps delivered results in arrival order.
type MemorySink struct {
	mu      sync.Mutex
	results []*interfaces.Result
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Deliver(_ context.Context, result *interfaces.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// Results returns a copy of the delivered results.
func (s *MemorySink) Results() []*interfaces.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*interfaces.Result, len(s.results))
	copy(out, s.results)
	return out
}

// Last returns the most recent result, or nil.
func (s *MemorySink) Last() *interfaces.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.results) == 0 {
		return nil
	}
	return s.results[len(s.results)-1]
}

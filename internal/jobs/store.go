package jobs

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// MemoryStore is the in-process job table. Every method is safe for
// concurrent use; callers receive snapshots, never the stored job.
type MemoryStore struct {
	mu   sync.Mutex
	now  func() time.Time
	jobs map[string]*interfaces.Job
}

// StoreOption customises a MemoryStore.
type StoreOption func(*MemoryStore)

// WithStoreClock overrides the clock used for UpdatedAt stamps.
func WithStoreClock(clock func() time.Time) StoreOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewMemoryStore returns an empty job table.
func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	store := &MemoryStore{
		now:  time.Now,
		jobs: make(map[string]*interfaces.Job),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

var _ interfaces.JobStore = (*MemoryStore)(nil)

func (s *MemoryStore) Insert(_ context.Context, job *interfaces.Job) error {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return ErrInvalidJob
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return interfaces.ErrJobExists
	}

	stored := cloneJob(job)
	now := s.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	if stored.Status == "" {
		stored.Status = interfaces.JobStatusOpen
	}
	s.jobs[stored.ID] = stored
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *MemoryStore) Resolve(_ context.Context, jobID, directiveID string, answer interfaces.Answer) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}

	idx := slices.IndexFunc(job.Pending, func(d interfaces.Directive) bool {
		return d.ID == directiveID
	})
	if idx < 0 {
		return nil, interfaces.ErrDirectiveNotFound
	}

	directive := job.Pending[idx]
	job.Text = strings.Replace(job.Text, directive.Placeholder, answer.Text, 1)
	job.HTML = strings.Replace(job.HTML, directive.Placeholder, answer.HTML, 1)
	job.Pending = slices.Delete(job.Pending, idx, idx+1)
	job.UpdatedAt = s.now()

	return cloneJob(job), nil
}

func (s *MemoryStore) SetStatus(_ context.Context, id string, status interfaces.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Status = status
	job.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return interfaces.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *MemoryStore) Evict(_ context.Context, now time.Time) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []*interfaces.Job
	for id, job := range s.jobs {
		if job.ExpiresAt.IsZero() || job.ExpiresAt.After(now) {
			continue
		}
		snapshot := cloneJob(job)
		snapshot.Status = interfaces.JobStatusEvicted
		snapshot.UpdatedAt = now
		evicted = append(evicted, snapshot)
		delete(s.jobs, id)
	}
	sortJobs(evicted)
	return evicted, nil
}

func (s *MemoryStore) List(context.Context) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*interfaces.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, cloneJob(job))
	}
	sortJobs(out)
	return out, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func sortJobs(jobs []*interfaces.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
}

func cloneJob(job *interfaces.Job) *interfaces.Job {
	if job == nil {
		return nil
	}
	clone := *job
	clone.Pending = slices.Clone(job.Pending)
	clone.Data = cloneData(job.Data)
	return &clone
}

func cloneData(data interfaces.ResultData) interfaces.ResultData {
	clone := data
	clone.Params = slices.Clone(data.Params)
	clone.Talk = slices.Clone(data.Talk)
	if data.Vars != nil {
		clone.Vars = maps.Clone(data.Vars)
	}
	return clone
}

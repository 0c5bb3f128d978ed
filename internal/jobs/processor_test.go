package jobs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

func parsedResult(id string, values ...string) *interfaces.Result {
	var (
		talk []interfaces.Directive
		text []string
		html []string
	)
	for i, value := range values {
		directiveID := id + "-d" + string(rune('1'+i))
		placeholder := "{{" + directiveID + "}}"
		talk = append(talk, interfaces.Directive{ID: directiveID, Placeholder: placeholder, Value: value})
		text = append(text, placeholder)
		html = append(html, "<p>"+placeholder+"</p>")
	}
	return &interfaces.Result{
		Text: strings.Join(text, "\n"),
		HTML: strings.Join(html, ""),
		Data: interfaces.ResultData{ID: id, Params: []string{}, Vars: interfaces.VariableMap{}, Talk: talk},
	}
}

// gatedResponder blocks each question until the test releases its value.
type gatedResponder struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	arrived chan string
}

func newGatedResponder(values ...string) *gatedResponder {
	r := &gatedResponder{
		gates:   make(map[string]chan struct{}, len(values)),
		arrived: make(chan string, len(values)),
	}
	for _, v := range values {
		r.gates[v] = make(chan struct{})
	}
	return r
}

func (r *gatedResponder) Question(ctx context.Context, text string) (interfaces.Answer, error) {
	r.mu.Lock()
	gate := r.gates[text]
	r.mu.Unlock()

	r.arrived <- text
	select {
	case <-gate:
		return interfaces.Answer{Text: strings.ToUpper(text), HTML: "<b>" + text + "</b>"}, nil
	case <-ctx.Done():
		return interfaces.Answer{}, ctx.Err()
	}
}

func (r *gatedResponder) release(value string) {
	close(r.gates[value])
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func pendingCount(store interfaces.JobStore, id string) int {
	job, err := store.Get(context.Background(), id)
	if err != nil {
		return -1
	}
	return len(job.Pending)
}

func TestRunWithoutDirectivesSkipsStore(t *testing.T) {
	store := NewMemoryStore()
	p := NewProcessor(store, nil)

	in := &interfaces.Result{Text: "plain", HTML: "plain", Data: interfaces.ResultData{ID: "j0"}}
	out, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != in {
		t.Fatal("expected unit to be returned unchanged")
	}
	if store.Len() != 0 {
		t.Fatalf("expected no store entry, got %d", store.Len())
	}

	if _, err := p.Run(context.Background(), nil); !errors.Is(err, ErrNilResult) {
		t.Fatalf("expected ErrNilResult, got %v", err)
	}
}

func TestRunRequiresResponder(t *testing.T) {
	p := NewProcessor(nil, nil)
	if _, err := p.Run(context.Background(), parsedResult("j1", "a")); !errors.Is(err, ErrNoResponder) {
		t.Fatalf("expected ErrNoResponder, got %v", err)
	}
	if p.Store().Len() != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestRunFanInReverseOrderAndPartialResolution(t *testing.T) {
	store := NewMemoryStore()
	audit := NewInMemoryAuditRecorder()
	responder := newGatedResponder("a", "b", "c")
	p := NewProcessor(store, responder, WithStagger(0), WithAuditRecorder(audit))

	type outcome struct {
		result *interfaces.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := p.Run(context.Background(), parsedResult("j1", "a", "b", "c"))
		done <- outcome{result, err}
	}()

	for range 3 {
		<-responder.arrived
	}
	if !p.Talking() {
		t.Fatal("expected processor to report work in progress")
	}

	responder.release("c")
	waitFor(t, "two pending", func() bool { return pendingCount(store, "j1") == 2 })
	responder.release("b")
	waitFor(t, "one pending", func() bool { return pendingCount(store, "j1") == 1 })

	job, err := store.Get(context.Background(), "j1")
	if err != nil {
		t.Fatalf("expected job to stay resident with one unanswered item, got %v", err)
	}
	if len(job.Pending) != 1 || job.Pending[0].Value != "a" {
		t.Fatalf("expected only a pending, got %+v", job.Pending)
	}
	if job.Status != interfaces.JobStatusDispatching {
		t.Fatalf("expected dispatching status, got %s", job.Status)
	}

	responder.release("a")
	got := <-done
	if got.err != nil {
		t.Fatalf("Run: %v", got.err)
	}

	if got.result.Text != "A\nB\nC" {
		t.Fatalf("unexpected text %q", got.result.Text)
	}
	if got.result.HTML != "<p><b>a</b></p><p><b>b</b></p><p><b>c</b></p>" {
		t.Fatalf("unexpected html %q", got.result.HTML)
	}
	if strings.Contains(got.result.Text+got.result.HTML, "{{") {
		t.Fatal("expected no placeholders left")
	}
	if len(got.result.Data.Talk) != 3 {
		t.Fatalf("expected talk list to be kept, got %+v", got.result.Data.Talk)
	}
	if store.Len() != 0 {
		t.Fatalf("expected job table to be empty, got %d", store.Len())
	}
	if p.Talking() {
		t.Fatal("expected no work in progress")
	}
	if diff := cmp.Diff([]string{ActionJobOpened, ActionJobCompleted}, audit.Actions()); diff != "" {
		t.Fatalf("unexpected audit trail (-want +got):\n%s", diff)
	}
}

func TestRunResponderFaultCleansUp(t *testing.T) {
	store := NewMemoryStore()
	audit := NewInMemoryAuditRecorder()
	boom := errors.New("responder down")

	responder := interfaces.ResponderFunc(func(ctx context.Context, text string) (interfaces.Answer, error) {
		if text == "bad" {
			return interfaces.Answer{}, boom
		}
		<-ctx.Done()
		return interfaces.Answer{}, ctx.Err()
	})
	p := NewProcessor(store, responder, WithStagger(time.Millisecond), WithAuditRecorder(audit))

	_, err := p.Run(context.Background(), parsedResult("j2", "slow", "bad"))
	if !errors.Is(err, ErrResponderFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped responder failure, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected failed job to be removed, got %d", store.Len())
	}
	if diff := cmp.Diff([]string{ActionJobOpened, ActionJobFailed}, audit.Actions()); diff != "" {
		t.Fatalf("unexpected audit trail (-want +got):\n%s", diff)
	}
}

func TestRunTimeoutEvictsJob(t *testing.T) {
	store := NewMemoryStore()
	audit := NewInMemoryAuditRecorder()
	responder := interfaces.ResponderFunc(func(ctx context.Context, _ string) (interfaces.Answer, error) {
		<-ctx.Done()
		return interfaces.Answer{}, ctx.Err()
	})
	p := NewProcessor(store, responder, WithStagger(0), WithTimeout(20*time.Millisecond), WithAuditRecorder(audit))

	_, err := p.Run(context.Background(), parsedResult("j3", "never"))
	if !errors.Is(err, ErrJobTimeout) {
		t.Fatalf("expected ErrJobTimeout, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected timed out job to be evicted, got %d", store.Len())
	}
	actions := audit.Actions()
	if actions[len(actions)-1] != ActionJobEvicted {
		t.Fatalf("expected eviction to be audited, got %v", actions)
	}
}

func TestRunTimeoutAbandonsStuckResponder(t *testing.T) {
	store := NewMemoryStore()
	audit := NewInMemoryAuditRecorder()
	stuck := make(chan struct{})
	t.Cleanup(func() { close(stuck) })

	responder := interfaces.ResponderFunc(func(context.Context, string) (interfaces.Answer, error) {
		<-stuck
		return interfaces.Answer{Text: "late"}, nil
	})
	p := NewProcessor(store, responder, WithStagger(0), WithTimeout(50*time.Millisecond), WithAuditRecorder(audit))

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), parsedResult("j3b", "first", "second"))
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrJobTimeout) || !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected ErrJobTimeout, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run still blocked after the job deadline; store len=%d", store.Len())
	}
	if store.Len() != 0 {
		t.Fatalf("expected timed out job to be evicted, got %d", store.Len())
	}
	if p.Talking() {
		t.Fatal("expected no job in flight after the deadline")
	}
	if diff := cmp.Diff([]string{ActionJobOpened, ActionJobEvicted}, audit.Actions()); diff != "" {
		t.Fatalf("unexpected audit trail (-want +got):\n%s", diff)
	}
}

func TestDispatchStaggersInSourceOrder(t *testing.T) {
	const stagger = 25 * time.Millisecond

	type arrival struct {
		value string
		after time.Duration
	}
	var (
		mu       sync.Mutex
		arrivals []arrival
	)
	started := time.Now()
	responder := interfaces.ResponderFunc(func(_ context.Context, text string) (interfaces.Answer, error) {
		mu.Lock()
		arrivals = append(arrivals, arrival{value: text, after: time.Since(started)})
		mu.Unlock()
		return interfaces.Answer{Text: text}, nil
	})
	p := NewProcessor(nil, responder, WithStagger(stagger))

	result, err := p.Run(context.Background(), parsedResult("j8", "one", "two", "three"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Text != "one\ntwo\nthree" {
		t.Fatalf("unexpected text %q", result.Text)
	}

	mu.Lock()
	defer mu.Unlock()
	order := make([]string, len(arrivals))
	for i, a := range arrivals {
		order[i] = a.value
		if want := stagger * time.Duration(i+1); a.after < want {
			t.Fatalf("question %q asked after %s, want at least %s", a.value, a.after, want)
		}
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, order); diff != "" {
		t.Fatalf("unexpected dispatch order (-want +got):\n%s", diff)
	}
}

func TestRunCallerCancellation(t *testing.T) {
	store := NewMemoryStore()
	responder := newGatedResponder("a")
	p := NewProcessor(store, responder, WithStagger(0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx, parsedResult("j4", "a"))
		done <- err
	}()

	<-responder.arrived
	cancel()

	if err := <-done; !errors.Is(err, ErrJobCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected ErrJobCanceled, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected canceled job to be removed, got %d", store.Len())
	}
}

func TestRunRejectsLiveDuplicateID(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Insert(context.Background(), &interfaces.Job{ID: "dup"})

	responder := interfaces.ResponderFunc(func(context.Context, string) (interfaces.Answer, error) {
		return interfaces.Answer{}, nil
	})
	p := NewProcessor(store, responder)

	if _, err := p.Run(context.Background(), parsedResult("dup", "a")); !errors.Is(err, interfaces.ErrJobExists) {
		t.Fatalf("expected ErrJobExists, got %v", err)
	}
	if p.Talking() {
		t.Fatal("expected rejected job not to count as in flight")
	}
}

func TestRunSanitizesAnswerHTML(t *testing.T) {
	responder := interfaces.ResponderFunc(func(context.Context, string) (interfaces.Answer, error) {
		return interfaces.Answer{Text: "ok", HTML: `<b>ok</b><script>alert(1)</script>`}, nil
	})
	p := NewProcessor(nil, responder, WithStagger(0), WithSanitizer(NewUGCSanitizer()))

	result, err := p.Run(context.Background(), parsedResult("j5", "q"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.HTML != "<p><b>ok</b></p>" {
		t.Fatalf("expected script to be stripped, got %q", result.HTML)
	}
}

func TestSweepEvictsExpiredJobs(t *testing.T) {
	now := time.Date(2026, 1, 4, 8, 0, 0, 0, time.UTC)
	audit := NewInMemoryAuditRecorder()
	responder := interfaces.ResponderFunc(func(context.Context, string) (interfaces.Answer, error) {
		return interfaces.Answer{}, nil
	})
	p := NewProcessor(nil, responder,
		WithClock(func() time.Time { return now }),
		WithTimeout(time.Minute),
		WithAuditRecorder(audit),
	)

	job, err := p.Open(context.Background(), parsedResult("j6", "a"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !job.ExpiresAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected deadline %s", job.ExpiresAt)
	}

	evicted, err := p.Sweep(context.Background(), now.Add(30*time.Second))
	if err != nil || len(evicted) != 0 {
		t.Fatalf("expected nothing to evict yet, got %v %v", evicted, err)
	}

	evicted, err = p.Sweep(context.Background(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(evicted) != 1 || evicted[0].ID != "j6" {
		t.Fatalf("unexpected eviction %+v", evicted)
	}
	if p.Store().Len() != 0 {
		t.Fatal("expected store to be empty after sweep")
	}

	_, err = p.Dispatch(context.Background(), job)
	if !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected dispatch of swept job to fail, got %v", err)
	}
	if diff := cmp.Diff([]string{ActionJobOpened, ActionJobEvicted, ActionJobFailed}, audit.Actions()); diff != "" {
		t.Fatalf("unexpected audit trail (-want +got):\n%s", diff)
	}
}

func TestRunIgnoresAuditFailures(t *testing.T) {
	audit := NewInMemoryAuditRecorder()
	audit.Fail(errors.New("disk full"))
	p := NewProcessor(nil, echoResponder{}, WithStagger(0), WithAuditRecorder(audit))

	result, err := p.Run(context.Background(), parsedResult("j7", "hi"))
	if err != nil {
		t.Fatalf("audit failures must not fail the job: %v", err)
	}
	if result.Text != "hi" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if len(audit.Events()) != 0 {
		t.Fatalf("expected no recorded events, got %+v", audit.Events())
	}
}

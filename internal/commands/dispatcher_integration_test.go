package commands_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	markupcmd "github.com/goliatone/go-feecting/internal/commands/markup"
	"github.com/goliatone/go-feecting/internal/fetch"
	"github.com/goliatone/go-feecting/internal/jobs"
	"github.com/goliatone/go-feecting/internal/markup"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// flakyResponder fails its first question and upper-cases the rest.
type flakyResponder struct {
	calls atomic.Int32
}

func (r *flakyResponder) Question(_ context.Context, text string) (interfaces.Answer, error) {
	if r.calls.Add(1) == 1 {
		return interfaces.Answer{}, errors.New("agent warming up")
	}
	return interfaces.Answer{Text: strings.ToUpper(text)}, nil
}

func TestDispatchedParseRetriesAfterResponderFault(t *testing.T) {
	responder := &flakyResponder{}
	processor := jobs.NewProcessor(nil, responder, jobs.WithStagger(0))
	sink := markupcmd.NewMemorySink()

	set, err := markupcmd.RegisterMarkupCommands(nil, markupcmd.Services{
		Parser: markup.NewParser(),
		Runner: processor,
		Sink:   sink,
	}, nil)
	if err != nil {
		t.Fatalf("RegisterMarkupCommands: %v", err)
	}
	t.Cleanup(set.Subscribe(runner.WithMaxRetries(1)))

	err = dispatcher.Dispatch(context.Background(), markupcmd.ParseCommand{ID: "retry-1", Text: "talk: hello"})
	if err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if got := responder.calls.Load(); got != 2 {
		t.Fatalf("expected 2 questions (initial + retry), got %d", got)
	}
	if got := sink.Last(); got == nil || got.Text != "HELLO" {
		t.Fatalf("unexpected delivered result %+v", got)
	}
	if processor.Store().Len() != 0 {
		t.Fatalf("expected no job left behind, got %d", processor.Store().Len())
	}
}

func TestDispatchedFetchRetryExhaustionPropagatesError(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	sink := markupcmd.NewMemorySink()
	set, err := markupcmd.RegisterMarkupCommands(nil, markupcmd.Services{
		Parser:  markup.NewParser(),
		Fetcher: fetch.NewHTTPFetcher(),
		Sink:    sink,
	}, nil)
	if err != nil {
		t.Fatalf("RegisterMarkupCommands: %v", err)
	}
	t.Cleanup(set.Subscribe(runner.WithMaxRetries(2)))

	err = dispatcher.Dispatch(context.Background(), markupcmd.FetchCommand{URL: server.URL + "/doc.feecting"})
	if err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected 3 fetches (initial + 2 retries), got %d", got)
	}
	if len(sink.Results()) != 0 {
		t.Fatalf("expected nothing delivered, got %d results", len(sink.Results()))
	}
}

package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-feecting/pkg/interfaces"
	"github.com/goliatone/go-feecting/pkg/testsupport"
)

func newAuditDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := testsupport.NewSQLiteMemoryDB("jobs_audit_test")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBunAuditRecorderRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recorder := NewBunAuditRecorder(newAuditDB(t))
	if err := recorder.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	if err := recorder.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	occurred := time.Date(2026, 1, 4, 8, 37, 21, 0, time.UTC)
	for _, action := range []string{ActionJobOpened, ActionJobCompleted} {
		if err := recorder.Record(ctx, AuditEvent{
			JobID:      "j1",
			Action:     action,
			OccurredAt: occurred,
			Metadata:   map[string]any{"directives": 2},
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	events, err := recorder.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 || events[0].Action != ActionJobOpened || events[1].Action != ActionJobCompleted {
		t.Fatalf("unexpected events %+v", events)
	}
	if events[0].JobID != "j1" || !events[0].OccurredAt.Equal(occurred) {
		t.Fatalf("unexpected event fields %+v", events[0])
	}
	if events[0].Metadata["directives"] != float64(2) {
		t.Fatalf("expected metadata to survive as JSON, got %v", events[0].Metadata)
	}

	if err := recorder.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if events, _ := recorder.List(ctx); len(events) != 0 {
		t.Fatalf("expected cleared table, got %d", len(events))
	}
}

func TestBunAuditRecorderWithProcessor(t *testing.T) {
	ctx := context.Background()
	recorder := NewBunAuditRecorder(newAuditDB(t))
	if err := recorder.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	_ = recorder.Clear(ctx)

	p := NewProcessor(nil, echoResponder{}, WithStagger(0), WithAuditRecorder(recorder))
	if _, err := p.Run(ctx, parsedResult("j-bun", "hello")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	events, err := recorder.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 || events[1].Action != ActionJobCompleted {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestBunAuditRecorderRequiresDB(t *testing.T) {
	recorder := NewBunAuditRecorder(nil)
	if err := recorder.Record(context.Background(), AuditEvent{}); err == nil {
		t.Fatal("expected error without database")
	}
}

type echoResponder struct{}

func (echoResponder) Question(_ context.Context, text string) (interfaces.Answer, error) {
	return interfaces.Answer{Text: text, HTML: text}, nil
}

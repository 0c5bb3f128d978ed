package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "feecting.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = JobsLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != jobsModule {
		t.Fatalf("expected module %s, got %v", jobsModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != jobsModule {
		t.Fatalf("expected module field %s, got %v", jobsModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestCommandLoggerNamesGroup(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = CommandLogger(provider, " markup ")
	_ = CommandLogger(provider, "")

	want := []string{"feecting.commands.markup", "feecting.commands.core"}
	if len(provider.requested) != 2 || provider.requested[0] != want[0] || provider.requested[1] != want[1] {
		t.Fatalf("expected loggers %v, got %v", want, provider.requested)
	}
	if len(rec.fields) != 4 {
		t.Fatalf("expected module and command fields per logger, got %v", rec.fields)
	}
	if rec.fields[1]["command_group"] != "markup" || rec.fields[1]["component"] != "command" {
		t.Fatalf("unexpected command fields %v", rec.fields[1])
	}
}

func TestWithJobContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithJobContext(rec, " job-1 ", "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldJobID] != "job-1" {
		t.Fatalf("expected trimmed job id, got %v", rec.fields[0][fieldJobID])
	}
	if _, ok := rec.fields[0][fieldDirective]; ok {
		t.Fatalf("expected empty directive id to be skipped, got %v", rec.fields[0])
	}
}

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatal("expected ContextFields to return a copy")
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-feecting/internal/jobs"
)

type testMessage struct{}

func (testMessage) Type() string { return "feecting.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "feecting.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func textCode(t *testing.T, err error) string {
	t.Helper()
	var typed *goerrors.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	return typed.TextCode
}

func TestHandlerTagsJobErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"responder", fmt.Errorf("%w: directive d-1: %w", jobs.ErrResponderFailed, context.DeadlineExceeded), "FEECTING_RESPONDER_FAILED"},
		{"timeout", fmt.Errorf("%w: job j-1: %w", jobs.ErrJobTimeout, context.DeadlineExceeded), "FEECTING_JOB_TIMEOUT"},
		{"evicted", fmt.Errorf("%w: job j-1", jobs.ErrJobEvicted), "FEECTING_JOB_EVICTED"},
		{"canceled", fmt.Errorf("%w: job j-1: %w", jobs.ErrJobCanceled, context.Canceled), "FEECTING_COMMAND_CANCELED"},
		{"generic", errors.New("boom"), "FEECTING_COMMAND_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler[testMessage](func(context.Context, testMessage) error {
				return tc.err
			})
			err := h.Execute(context.Background(), testMessage{})
			if got := textCode(t, err); got != tc.want {
				t.Fatalf("expected text code %s, got %s", tc.want, got)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected wrapped error to match source, got %v", err)
			}
		})
	}
}

func TestHandlerValidationTextCode(t *testing.T) {
	h := NewHandler[invalidMessage](func(context.Context, invalidMessage) error { return nil })
	if got := textCode(t, h.Execute(context.Background(), invalidMessage{})); got != "FEECTING_COMMAND_VALIDATION_FAILED" {
		t.Fatalf("unexpected text code %s", got)
	}
}

func TestHandlerTelemetryReceivesMessageFields(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler[testMessage](func(context.Context, testMessage) error { return nil },
		WithOperation[testMessage]("test.run"),
		WithMessageFields(func(testMessage) map[string]any {
			return map[string]any{"job_id": "j-1"}
		}),
		WithTelemetry(func(_ context.Context, _ testMessage, got TelemetryInfo) {
			info = got
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if info.Status != TelemetryStatusSuccess {
		t.Fatalf("expected success status, got %s", info.Status)
	}
	if info.Command != "feecting.test.message" || info.Operation != "test.run" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Fields["job_id"] != "j-1" {
		t.Fatalf("expected message fields in telemetry, got %v", info.Fields)
	}
}

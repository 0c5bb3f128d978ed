package markupcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-feecting/internal/commands"
	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

const (
	parseOperation = "markup.parse"
	fetchOperation = "markup.fetch"
)

var (
	ErrParserRequired  = errors.New("markup command: parser is required")
	ErrFetcherRequired = errors.New("markup command: fetcher is required")
)

var (
	_ command.Commander[ParseCommand] = (*ParseHandler)(nil)
	_ command.Commander[FetchCommand] = (*FetchHandler)(nil)
)

// JobRunner resolves the directives of a parsed result.
type JobRunner interface {
	Run(ctx context.Context, result *interfaces.Result) (*interfaces.Result, error)
}

// Services groups the collaborators shared by the markup handlers. A nil
// Runner delivers parsed results with their directives unresolved.
type Services struct {
	Parser  interfaces.MarkupParser
	Runner  JobRunner
	Fetcher interfaces.Fetcher
	Sink    ResultSink
}

func (s Services) process(ctx context.Context, logger interfaces.Logger, in interfaces.Input) error {
	if s.Parser == nil {
		return ErrParserRequired
	}
	result, err := s.Parser.Parse(ctx, in)
	if err != nil {
		return err
	}
	if s.Runner != nil {
		if result, err = s.Runner.Run(ctx, result); err != nil {
			return err
		}
	}
	logging.WithJobContext(logger, result.Data.ID, "").
		Debug("markup.command.resolved", "directives", len(result.Data.Talk))
	if s.Sink == nil {
		return nil
	}
	return s.Sink.Deliver(ctx, result)
}

// ParseHandler runs ParseCommand through the shared command handler.
type ParseHandler struct {
	inner *commands.Handler[ParseCommand]
}

// NewParseHandler creates a handler bound to services.
func NewParseHandler(services Services, logger interfaces.Logger, opts ...commands.HandlerOption[ParseCommand]) *ParseHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg ParseCommand) error {
		return services.process(ctx, baseLogger, msg.Input())
	}

	handlerOpts := []commands.HandlerOption[ParseCommand]{
		commands.WithLogger[ParseCommand](baseLogger),
		commands.WithOperation[ParseCommand](parseOperation),
		commands.WithMessageFields(func(msg ParseCommand) map[string]any {
			fields := map[string]any{"text_bytes": len(msg.Text)}
			if msg.ID != "" {
				fields["job_id"] = msg.ID
			}
			if len(msg.Params) > 0 {
				fields["params"] = len(msg.Params)
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ParseCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ParseHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ParseCommand].
func (h *ParseHandler) Execute(ctx context.Context, msg ParseCommand) error {
	return h.inner.Execute(ctx, msg)
}

// FetchHandler runs FetchCommand through the shared command handler.
type FetchHandler struct {
	inner *commands.Handler[FetchCommand]
}

// NewFetchHandler creates a handler bound to services.
func NewFetchHandler(services Services, logger interfaces.Logger, opts ...commands.HandlerOption[FetchCommand]) *FetchHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg FetchCommand) error {
		if services.Fetcher == nil {
			return ErrFetcherRequired
		}
		text, err := services.Fetcher.Fetch(ctx, msg.URL)
		if err != nil {
			return err
		}
		return services.process(ctx, baseLogger, msg.Input(text))
	}

	handlerOpts := []commands.HandlerOption[FetchCommand]{
		commands.WithLogger[FetchCommand](baseLogger),
		commands.WithOperation[FetchCommand](fetchOperation),
		commands.WithMessageFields(func(msg FetchCommand) map[string]any {
			fields := map[string]any{"url": msg.URL}
			if msg.ID != "" {
				fields["job_id"] = msg.ID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[FetchCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &FetchHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[FetchCommand].
func (h *FetchHandler) Execute(ctx context.Context, msg FetchCommand) error {
	return h.inner.Execute(ctx, msg)
}

package feecting

import (
	"context"
	"time"

	"github.com/goliatone/go-feecting/internal/commands"
	markupcmd "github.com/goliatone/go-feecting/internal/commands/markup"
	"github.com/goliatone/go-feecting/internal/di"
	"github.com/goliatone/go-feecting/internal/documents"
	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Module is the top level facade: it parses markup, resolves talk
// directives through the configured responder and returns finished results.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Parse converts in and blocks until every talk directive is answered.
// Errors carry go-errors categories and wrap the job sentinels. The job
// deadline comes from Config.Jobs.Timeout.
func (m *Module) Parse(ctx context.Context, in Input) (*Result, error) {
	var out *Result
	handler := markupcmd.NewParseHandler(m.services(&out), m.logger(),
		commands.WithTimeout[ParseCommand](0))
	if err := handler.Execute(ctx, parseCommand(in)); err != nil {
		return nil, err
	}
	return out, nil
}

// Stage runs the text pipeline only. Directives stay as placeholders.
func (m *Module) Stage(ctx context.Context, in Input) (*Result, error) {
	return m.container.Parser().Parse(ctx, in)
}

// Get fetches markup from url and parses it with in as the remaining input.
func (m *Module) Get(ctx context.Context, url string, in Input) (*Result, error) {
	var out *Result
	handler := markupcmd.NewFetchHandler(m.services(&out), m.logger(),
		commands.WithTimeout[FetchCommand](0))
	err := handler.Execute(ctx, markupcmd.FetchCommand{
		URL:       url,
		ID:        in.ID,
		Params:    in.Meta.Params,
		Vars:      in.Data.Vars,
		Caller:    in.Caller,
		Responder: in.Responder,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Load reads a markup document with optional frontmatter and parses it.
func (m *Module) Load(ctx context.Context, path string) (*Result, error) {
	doc, err := documents.Load(path)
	if err != nil {
		return nil, err
	}
	return m.Parse(ctx, doc.Input())
}

// RegisterCommands builds the parse and fetch command handlers, delivering
// results to sink, and registers them with reg when it is non-nil.
func (m *Module) RegisterCommands(reg CommandRegistry, sink ResultSink) (*CommandHandlers, error) {
	services := m.services(nil)
	services.Sink = sink
	return markupcmd.RegisterMarkupCommands(reg, services, m.container.LoggerProvider())
}

// Jobs returns the table of in-flight jobs.
func (m *Module) Jobs() JobStore {
	return m.container.Processor().Store()
}

// Talking reports whether any job is waiting on answers.
func (m *Module) Talking() bool {
	return m.container.Processor().Talking()
}

// Sweep evicts jobs whose deadline passed before now.
func (m *Module) Sweep(ctx context.Context, now time.Time) ([]*Job, error) {
	return m.container.Processor().Sweep(ctx, now)
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

func (m *Module) services(out **Result) markupcmd.Services {
	services := markupcmd.Services{
		Parser:  m.container.Parser(),
		Runner:  m.container.Processor(),
		Fetcher: m.container.Fetcher(),
	}
	if out != nil {
		services.Sink = markupcmd.ResultSinkFunc(func(_ context.Context, result *Result) error {
			*out = result
			return nil
		})
	}
	return services
}

func (m *Module) logger() interfaces.Logger {
	return logging.CommandLogger(m.container.LoggerProvider(), "markup")
}

func parseCommand(in Input) markupcmd.ParseCommand {
	return markupcmd.ParseCommand{
		ID:        in.ID,
		Text:      in.Text,
		Params:    in.Meta.Params,
		Vars:      in.Data.Vars,
		Caller:    in.Caller,
		Responder: in.Responder,
	}
}

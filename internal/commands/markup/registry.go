package markupcmd

import (
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-feecting/internal/commands"
	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterMarkupCommands.
type HandlerSet struct {
	Parse *ParseHandler
	Fetch *FetchHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	parseHandlerOpts []commands.HandlerOption[ParseCommand]
	fetchHandlerOpts []commands.HandlerOption[FetchCommand]
}

// WithParseHandlerOptions forwards options to the ParseHandler constructor.
func WithParseHandlerOptions(opts ...commands.HandlerOption[ParseCommand]) Option {
	return func(cfg *options) {
		cfg.parseHandlerOpts = append(cfg.parseHandlerOpts, opts...)
	}
}

// WithFetchHandlerOptions forwards options to the FetchHandler constructor.
func WithFetchHandlerOptions(opts ...commands.HandlerOption[FetchCommand]) Option {
	return func(cfg *options) {
		cfg.fetchHandlerOpts = append(cfg.fetchHandlerOpts, opts...)
	}
}

// RegisterMarkupCommands builds the markup handlers and registers them with
// reg when it is non-nil.
func RegisterMarkupCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if services.Parser == nil {
		return nil, ErrParserRequired
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := logging.CommandLogger(provider, "markup")
	set := &HandlerSet{
		Parse: NewParseHandler(services, logger, cfg.parseHandlerOpts...),
		Fetch: NewFetchHandler(services, logger, cfg.fetchHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Parse); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Fetch); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Subscribe attaches the handlers to the go-command dispatcher and returns
// a function that detaches them. runnerOpts apply to both subscriptions.
func (s *HandlerSet) Subscribe(runnerOpts ...runner.Option) func() {
	if s == nil {
		return func() {}
	}
	parse := dispatcher.SubscribeCommand(s.Parse, runnerOpts...)
	fetch := dispatcher.SubscribeCommand(s.Fetch, runnerOpts...)
	return func() {
		parse.Unsubscribe()
		fetch.Unsubscribe()
	}
}

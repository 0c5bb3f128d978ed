package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Config mirrors the logging section of the runtime config.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus restricts output to the named module loggers (feecting.jobs, ...).
	Focus []string
}

// Provider hands out go-logger backed module loggers.
type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds the root go-logger instance from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	options := []glog.Option{}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := compact(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}

	return &Provider{root: root}, nil
}

// GetLogger returns the named child logger, or the root for an empty name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return adapt(p.root)
	}
	return adapt(p.root.GetLogger(name))
}

func adapt(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

var _ interfaces.FieldsLogger = (*adapter)(nil)

func (a *adapter) Trace(msg string, args ...any) { a.inner.Trace(msg, args...) }
func (a *adapter) Debug(msg string, args ...any) { a.inner.Debug(msg, args...) }
func (a *adapter) Info(msg string, args ...any)  { a.inner.Info(msg, args...) }
func (a *adapter) Warn(msg string, args ...any)  { a.inner.Warn(msg, args...) }
func (a *adapter) Error(msg string, args ...any) { a.inner.Error(msg, args...) }
func (a *adapter) Fatal(msg string, args ...any) { a.inner.Fatal(msg, args...) }

func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}

	if fl, ok := a.inner.(glog.FieldsLogger); ok {
		return adapt(fl.WithFields(maps.Clone(fields)))
	}

	if with, ok := a.inner.(interface{ With(...any) *glog.BaseLogger }); ok {
		args := make([]any, 0, len(fields)*2)
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			args = append(args, key, fields[key])
		}
		return adapt(with.With(args...))
	}
	return a
}

// WithContext forwards ctx and lifts any fields stored with
// logging.ContextWithFields onto the child logger.
func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return a
	}
	child := adapt(a.inner.WithContext(ctx))
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		return logging.WithFields(child, fields)
	}
	return child
}

func parseLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return "", nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	case "fatal":
		return glog.Fatal, nil
	default:
		return "", fmt.Errorf("gologger: unsupported level %q", level)
	}
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

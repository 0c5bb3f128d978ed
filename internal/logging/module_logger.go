package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

const (
	rootModule     = "feecting"
	markupModule   = "feecting.markup"
	jobsModule     = "feecting.jobs"
	fetchModule    = "feecting.fetch"
	commandsModule = "feecting.commands"
)

const (
	fieldJobID     = "job_id"
	fieldDirective = "directive_id"
	fieldURL       = "url"
)

// ModuleLogger returns a logger scoped to module. Without a provider it
// falls back to NoOp. The module name is attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkupLogger returns the logger used by the text pipeline.
func MarkupLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markupModule)
}

// JobsLogger returns the logger used by the job processor.
func JobsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, jobsModule)
}

// FetchLogger returns the logger used by remote fetches.
func FetchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fetchModule)
}

// CommandLogger returns the logger for the command handlers of group, named
// feecting.commands.<group>. An empty group is "core".
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "core"
	}
	return WithFields(ModuleLogger(provider, commandsModule+"."+group), map[string]any{
		"component":     "command",
		"command_group": group,
	})
}

// WithJobContext adds job and directive identifiers. Empty values are skipped.
func WithJobContext(logger interfaces.Logger, jobID, directiveID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(jobID); trimmed != "" {
		fields[fieldJobID] = trimmed
	}
	if trimmed := strings.TrimSpace(directiveID); trimmed != "" {
		fields[fieldDirective] = trimmed
	}
	return WithFields(logger, fields)
}

// WithURL adds the remote document URL.
func WithURL(logger interfaces.Logger, url string) interfaces.Logger {
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		return WithFields(logger, map[string]any{fieldURL: trimmed})
	}
	return logger
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

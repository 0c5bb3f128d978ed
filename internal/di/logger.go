package di

import (
	"strings"

	"github.com/goliatone/go-feecting/internal/logging/console"
	"github.com/goliatone/go-feecting/internal/logging/gologger"
	"github.com/goliatone/go-feecting/internal/runtimeconfig"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch runtimeconfig.NormalizeKind(cfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		opts := console.Options{}
		if level := strings.TrimSpace(cfg.Level); level != "" {
			parsed := console.ParseLevel(level)
			opts.MinLevel = &parsed
		}
		return console.NewProvider(opts), nil
	}
}

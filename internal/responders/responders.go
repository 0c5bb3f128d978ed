package responders

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Responder kinds accepted by New.
const (
	KindEcho = "echo"
	KindHTTP = "http"
)

// Config selects and configures a responder.
type Config struct {
	Kind     string
	Endpoint string
	Timeout  time.Duration
	Headers  map[string]string
}

// New builds the responder described by cfg. An empty kind means echo.
func New(cfg Config, logger interfaces.Logger) (interfaces.Responder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindEcho:
		return Echo{}, nil
	case KindHTTP:
		opts := []HTTPOption{WithLogger(logger)}
		if cfg.Timeout > 0 {
			opts = append(opts, WithClient(&http.Client{Timeout: cfg.Timeout}))
		}
		for key, value := range cfg.Headers {
			opts = append(opts, WithHeader(key, value))
		}
		responder, err := NewHTTP(cfg.Endpoint, opts...)
		if err != nil {
			return nil, err
		}
		return responder, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrParserMaxDepthInvalid = errors.New("feecting config: parser max depth must be positive")
var ErrParserMaxTextInvalid = errors.New("feecting config: parser max text bytes must be positive")
var ErrParserLocaleInvalid = errors.New("feecting config: parser locale is not supported")
var ErrJobsTimeoutInvalid = errors.New("feecting config: job timeout must be positive")
var ErrJobsStaggerInvalid = errors.New("feecting config: job stagger must be zero or positive")
var ErrFetchTimeoutInvalid = errors.New("feecting config: fetch timeout must be positive")
var ErrFetchMaxBytesInvalid = errors.New("feecting config: fetch max bytes must be positive")
var ErrResponderKindUnknown = errors.New("feecting config: responder kind is invalid")
var ErrResponderEndpointRequired = errors.New("feecting config: responder endpoint is required for http responders")

// ErrAuditFeatureRequired keeps the persistent audit trail behind its feature flag.
var ErrAuditFeatureRequired = errors.New("feecting config: audit feature must be enabled to configure audit storage")
var ErrAuditDSNRequired = errors.New("feecting config: audit dsn is required when audit is enabled")
var ErrAuditDriverUnknown = errors.New("feecting config: audit driver is invalid")
var ErrSanitizePolicyUnknown = errors.New("feecting config: sanitize policy is invalid")
var ErrLoggingProviderRequired = errors.New("feecting config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("feecting config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("feecting config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("feecting config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the feecting module.
type Config struct {
	Parser    ParserConfig    `mapstructure:"parser" yaml:"parser"`
	Jobs      JobsConfig      `mapstructure:"jobs" yaml:"jobs"`
	Fetch     FetchConfig     `mapstructure:"fetch" yaml:"fetch"`
	Responder ResponderConfig `mapstructure:"responder" yaml:"responder"`
	Audit     AuditConfig     `mapstructure:"audit" yaml:"audit"`
	Sanitize  SanitizeConfig  `mapstructure:"sanitize" yaml:"sanitize"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Features  Features        `mapstructure:"features" yaml:"features"`
}

// ParserConfig tunes the markup pipeline.
type ParserConfig struct {
	Locale      string `mapstructure:"locale" yaml:"locale"`
	CoverPrefix string `mapstructure:"cover_prefix" yaml:"cover_prefix"`
	MaxDepth    int    `mapstructure:"max_depth" yaml:"max_depth"`
	// MaxTextBytes caps the input text accepted by Parse and Stage.
	MaxTextBytes int `mapstructure:"max_text_bytes" yaml:"max_text_bytes"`
}

// JobsConfig controls directive dispatch.
type JobsConfig struct {
	Stagger time.Duration `mapstructure:"stagger" yaml:"stagger"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// FetchConfig controls remote markup retrieval.
type FetchConfig struct {
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// ResponderConfig selects the built-in responder.
type ResponderConfig struct {
	Kind     string            `mapstructure:"kind" yaml:"kind"`
	Endpoint string            `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	Headers  map[string]string `mapstructure:"headers" yaml:"headers"`
}

// Audit drivers accepted by AuditConfig.Driver.
const (
	AuditDriverSQLite   = "sqlite3"
	AuditDriverPostgres = "postgres"
)

// AuditConfig points the job audit trail at a SQL database.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Driver  string `mapstructure:"driver" yaml:"driver"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// SanitizeConfig selects the bluemonday policy applied to answer HTML.
type SanitizeConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Policy  string `mapstructure:"policy" yaml:"policy"`
}

// Features toggles module functionality.
type Features struct {
	Audit  bool `mapstructure:"audit" yaml:"audit"`
	Logger bool `mapstructure:"logger" yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" yaml:"provider"`
	Level     string   `mapstructure:"level" yaml:"level"`
	Format    string   `mapstructure:"format" yaml:"format"`
	AddSource bool     `mapstructure:"add_source" yaml:"add_source"`
	Focus     []string `mapstructure:"focus" yaml:"focus"`
}

// DefaultConfig returns opinionated defaults.
func DefaultConfig() Config {
	return Config{
		Parser: ParserConfig{
			Locale:       "en_US",
			CoverPrefix:  "--browser-item",
			MaxDepth:     8,
			MaxTextBytes: 1 << 20,
		},
		Jobs: JobsConfig{
			Stagger: 10 * time.Millisecond,
			Timeout: 30 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:  15 * time.Second,
			MaxBytes: 2 << 20,
		},
		Responder: ResponderConfig{
			Kind:    "echo",
			Timeout: 20 * time.Second,
			Headers: map[string]string{},
		},
		Audit: AuditConfig{
			Driver: AuditDriverSQLite,
			DSN:    "file:feecting_audit?mode=memory&cache=shared",
		},
		Sanitize: SanitizeConfig{
			Enabled: true,
			Policy:  "ugc",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Parser.MaxDepth <= 0 {
		return ErrParserMaxDepthInvalid
	}
	if cfg.Parser.MaxTextBytes <= 0 {
		return ErrParserMaxTextInvalid
	}
	if locale := strings.TrimSpace(cfg.Parser.Locale); locale != "" && !IsSupportedLocale(locale) {
		return fmt.Errorf("%w: %s", ErrParserLocaleInvalid, locale)
	}
	if cfg.Jobs.Timeout <= 0 {
		return ErrJobsTimeoutInvalid
	}
	if cfg.Jobs.Stagger < 0 {
		return ErrJobsStaggerInvalid
	}
	if cfg.Fetch.Timeout <= 0 {
		return ErrFetchTimeoutInvalid
	}
	if cfg.Fetch.MaxBytes <= 0 {
		return ErrFetchMaxBytesInvalid
	}
	switch kind := NormalizeKind(cfg.Responder.Kind); kind {
	case "", "echo":
	case "http":
		if strings.TrimSpace(cfg.Responder.Endpoint) == "" {
			return ErrResponderEndpointRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrResponderKindUnknown, kind)
	}
	if cfg.Audit.Enabled {
		if !cfg.Features.Audit {
			return ErrAuditFeatureRequired
		}
		if strings.TrimSpace(cfg.Audit.DSN) == "" {
			return ErrAuditDSNRequired
		}
		switch driver := NormalizeKind(cfg.Audit.Driver); driver {
		case "", AuditDriverSQLite, "sqlite", AuditDriverPostgres, "pg":
		default:
			return fmt.Errorf("%w: %s", ErrAuditDriverUnknown, driver)
		}
	}
	if cfg.Sanitize.Enabled {
		if policy := NormalizeKind(cfg.Sanitize.Policy); !isSupportedPolicy(policy) {
			return fmt.Errorf("%w: %s", ErrSanitizePolicyUnknown, policy)
		}
	}
	if cfg.Features.Logger {
		provider := NormalizeKind(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizeKind lower-cases and trims provider, policy and kind names.
func NormalizeKind(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedPolicy(policy string) bool {
	switch policy {
	case "", "ugc", "strict":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-feecting/internal/fetch"
	"github.com/goliatone/go-feecting/internal/jobs"
	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/internal/markup"
	"github.com/goliatone/go-feecting/internal/responders"
	"github.com/goliatone/go-feecting/internal/runtimeconfig"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Container wires module dependencies from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	responder      interfaces.Responder
	fetcher        interfaces.Fetcher
	store          interfaces.JobStore
	audit          jobs.AuditRecorder
	sanitizer      jobs.Sanitizer
	clock          func() time.Time

	bunDB   *bun.DB
	ownedDB bool

	parser    *markup.Parser
	processor *jobs.Processor
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider derived from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithResponder overrides the responder described by config.
func WithResponder(responder interfaces.Responder) Option {
	return func(c *Container) {
		if responder != nil {
			c.responder = responder
		}
	}
}

// WithFetcher overrides the default HTTP fetcher.
func WithFetcher(fetcher interfaces.Fetcher) Option {
	return func(c *Container) {
		if fetcher != nil {
			c.fetcher = fetcher
		}
	}
}

// WithJobStore overrides the in-memory job table.
func WithJobStore(store interfaces.JobStore) Option {
	return func(c *Container) {
		if store != nil {
			c.store = store
		}
	}
}

// WithAuditRecorder overrides the audit recorder. It takes effect even when
// audit storage is disabled in config.
func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(c *Container) {
		if recorder != nil {
			c.audit = recorder
		}
	}
}

func WithSanitizer(sanitizer jobs.Sanitizer) Option {
	return func(c *Container) {
		if sanitizer != nil {
			c.sanitizer = sanitizer
		}
	}
}

// WithBunDB supplies the database used by the audit recorder.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	if err := c.configureResponder(); err != nil {
		return nil, err
	}
	c.configureFetcher()
	c.configureSanitizer()
	if err := c.configureAudit(context.Background()); err != nil {
		return nil, err
	}
	c.configureParser()
	c.configureProcessor()

	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}
	provider, err := newLoggerProvider(c.Config.Logging)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureResponder() error {
	if c.responder != nil {
		return nil
	}
	responder, err := responders.New(responders.Config{
		Kind:     c.Config.Responder.Kind,
		Endpoint: c.Config.Responder.Endpoint,
		Timeout:  c.Config.Responder.Timeout,
		Headers:  c.Config.Responder.Headers,
	}, logging.ModuleLogger(c.loggerProvider, "feecting.responders"))
	if err != nil {
		return err
	}
	c.responder = responder
	return nil
}

func (c *Container) configureFetcher() {
	if c.fetcher != nil {
		return
	}
	c.fetcher = fetch.NewHTTPFetcher(
		fetch.WithTimeout(c.Config.Fetch.Timeout),
		fetch.WithMaxBytes(c.Config.Fetch.MaxBytes),
		fetch.WithLogger(logging.FetchLogger(c.loggerProvider)),
	)
}

func (c *Container) configureSanitizer() {
	if c.sanitizer != nil || !c.Config.Sanitize.Enabled {
		return
	}
	switch runtimeconfig.NormalizeKind(c.Config.Sanitize.Policy) {
	case "strict":
		c.sanitizer = jobs.NewStrictSanitizer()
	default:
		c.sanitizer = jobs.NewUGCSanitizer()
	}
}

func (c *Container) configureAudit(ctx context.Context) error {
	if c.audit != nil || !c.Config.Audit.Enabled {
		return nil
	}
	if c.bunDB == nil {
		db, err := openAuditDB(c.Config.Audit)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownedDB = true
	}
	recorder := jobs.NewBunAuditRecorder(c.bunDB)
	if err := recorder.CreateSchema(ctx); err != nil {
		if c.ownedDB {
			_ = c.bunDB.Close()
			c.bunDB = nil
			c.ownedDB = false
		}
		return fmt.Errorf("di: create audit schema: %w", err)
	}
	c.audit = recorder
	return nil
}

func openAuditDB(cfg runtimeconfig.AuditConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	switch runtimeconfig.NormalizeKind(cfg.Driver) {
	case runtimeconfig.AuditDriverPostgres, "pg":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open audit database: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open audit database: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
}

func (c *Container) configureParser() {
	logger := logging.MarkupLogger(c.loggerProvider)
	resolver := markup.NewResolver(
		markup.WithResolverLogger(logger),
		markup.WithClock(c.clock),
		markup.WithMaxDepth(c.Config.Parser.MaxDepth),
		markup.WithDateFormatter(markup.LongDateFormatter(monday.Locale(c.Config.Parser.Locale))),
	)
	formatter := markup.NewFormatter(markup.WithCoverPrefix(c.Config.Parser.CoverPrefix))
	c.parser = markup.NewParser(
		markup.WithLogger(logger),
		markup.WithResolver(resolver),
		markup.WithFormatter(formatter),
		markup.WithMaxTextBytes(c.Config.Parser.MaxTextBytes),
	)
}

func (c *Container) configureProcessor() {
	opts := []jobs.Option{
		jobs.WithLogger(logging.JobsLogger(c.loggerProvider)),
		jobs.WithClock(c.clock),
		jobs.WithStagger(c.Config.Jobs.Stagger),
		jobs.WithTimeout(c.Config.Jobs.Timeout),
	}
	if c.audit != nil {
		opts = append(opts, jobs.WithAuditRecorder(c.audit))
	}
	if c.sanitizer != nil {
		opts = append(opts, jobs.WithSanitizer(c.sanitizer))
	}
	c.processor = jobs.NewProcessor(c.store, c.responder, opts...)
}

// LoggerProvider returns the configured provider, which may be nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) Parser() *markup.Parser {
	return c.parser
}

func (c *Container) Processor() *jobs.Processor {
	return c.processor
}

func (c *Container) Responder() interfaces.Responder {
	return c.responder
}

func (c *Container) Fetcher() interfaces.Fetcher {
	return c.fetcher
}

// AuditRecorder returns the recorder, or nil when auditing is off.
func (c *Container) AuditRecorder() jobs.AuditRecorder {
	return c.audit
}

// Close releases the audit database when the container opened it.
func (c *Container) Close() error {
	if c == nil || !c.ownedDB || c.bunDB == nil {
		return nil
	}
	c.ownedDB = false
	return c.bunDB.Close()
}

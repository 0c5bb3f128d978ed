package feecting

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-feecting/internal/di"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Option overrides a dependency the module would otherwise build from config.
type Option = di.Option

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

func WithResponder(responder Responder) Option {
	return di.WithResponder(responder)
}

func WithFetcher(fetcher Fetcher) Option {
	return di.WithFetcher(fetcher)
}

func WithJobStore(store JobStore) Option {
	return di.WithJobStore(store)
}

func WithAuditRecorder(recorder AuditRecorder) Option {
	return di.WithAuditRecorder(recorder)
}

func WithSanitizer(sanitizer Sanitizer) Option {
	return di.WithSanitizer(sanitizer)
}

// WithBunDB points the audit recorder at an existing database.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

func WithClock(clock func() time.Time) Option {
	return di.WithClock(clock)
}

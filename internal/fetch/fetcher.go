package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultMaxBytes = 2 << 20
)

var (
	// ErrInvalidURL is returned for empty or malformed URLs.
	ErrInvalidURL = errors.New("fetch: invalid url")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("fetch: unexpected status")
	// ErrTooLarge is returned when the body exceeds the configured limit.
	ErrTooLarge = errors.New("fetch: response too large")
)

// HTTPFetcher retrieves raw markup over HTTP GET.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	logger   interfaces.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *HTTPFetcher) {
		if timeout > 0 {
			f.client = &http.Client{Timeout: timeout, Transport: f.client.Transport}
		}
	}
}

// WithMaxBytes caps the accepted body size.
func WithMaxBytes(limit int64) Option {
	return func(f *HTTPFetcher) {
		if limit > 0 {
			f.maxBytes = limit
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(f *HTTPFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHTTPFetcher returns a fetcher with DefaultTimeout and DefaultMaxBytes.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	err := validation.Validate(raw,
		validation.Required,
		is.URL,
		validation.By(func(any) error {
			lower := strings.ToLower(raw)
			if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
				return validation.NewError("validation_url_scheme", "must use http or https")
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if err := ValidateURL(url); err != nil {
		return "", err
	}
	logger := logging.WithURL(f.logger.WithContext(ctx), url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "text/plain, text/*;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Warn("fetch.request.failed", "error", err)
		return "", fmt.Errorf("fetch: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("fetch.request.status", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("fetch: read %s: %w", url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("%w: limit %d bytes", ErrTooLarge, f.maxBytes)
	}

	logger.Debug("fetch.request.completed", "bytes", len(body))
	return string(body), nil
}

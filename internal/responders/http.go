package responders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

const (
	// DefaultHTTPTimeout bounds one question round trip.
	DefaultHTTPTimeout = 30 * time.Second
	maxAnswerBytes     = 4 << 20
)

type questionPayload struct {
	Question string `json:"question"`
}

type answerPayload struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// HTTP posts each question as JSON to an endpoint and decodes
// {"text","html"} from the response.
type HTTP struct {
	endpoint string
	client   *http.Client
	headers  http.Header
	logger   interfaces.Logger
}

// HTTPOption configures an HTTP responder.
type HTTPOption func(*HTTP)

// WithClient replaces the HTTP client.
func WithClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.headers.Add(key, value)
	}
}

func WithLogger(logger interfaces.Logger) HTTPOption {
	return func(h *HTTP) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHTTP returns a responder posting to endpoint.
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTP, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	h := &HTTP{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultHTTPTimeout},
		headers:  http.Header{},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

var _ interfaces.Responder = (*HTTP)(nil)

func (h *HTTP) Question(ctx context.Context, text string) (interfaces.Answer, error) {
	body, err := json.Marshal(questionPayload{Question: text})
	if err != nil {
		return interfaces.Answer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return interfaces.Answer{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range h.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	started := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return interfaces.Answer{}, fmt.Errorf("responders: post %s: %w", h.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxAnswerBytes))
		return interfaces.Answer{}, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var payload answerPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxAnswerBytes)).Decode(&payload); err != nil {
		return interfaces.Answer{}, fmt.Errorf("responders: decode answer: %w", err)
	}

	h.logger.WithContext(ctx).Debug("responders.http.answered",
		"endpoint", h.endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)
	return interfaces.Answer{Text: payload.Text, HTML: payload.HTML}, nil
}

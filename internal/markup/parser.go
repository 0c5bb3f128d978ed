package markup

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/goliatone/go-feecting/internal/identity"
	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

var lineIndentPattern = regexp.MustCompile(`(\n)(\s*)(\W|\b)`)

// DefaultMaxTextBytes caps the input text of a single parse.
const DefaultMaxTextBytes = 1 << 20

// ErrTextTooLarge is returned when the input text exceeds the parser limit.
var ErrTextTooLarge = errors.New("markup: text exceeds size limit")

// Parser runs the text pipeline: template resolution, variable extraction,
// directive extraction and HTML formatting. Directives are left as
// placeholders for the job processor.
type Parser struct {
	resolver  *Resolver
	formatter *Formatter
	logger    interfaces.Logger
	ids       func(jobID string) IDSource
	maxText   int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the parser logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithResolver replaces the template resolver.
func WithResolver(resolver *Resolver) Option {
	return func(p *Parser) {
		if resolver != nil {
			p.resolver = resolver
		}
	}
}

// WithFormatter replaces the HTML formatter.
func WithFormatter(formatter *Formatter) Option {
	return func(p *Parser) {
		if formatter != nil {
			p.formatter = formatter
		}
	}
}

// WithIDSource overrides how directive ids are generated for a job.
func WithIDSource(factory func(jobID string) IDSource) Option {
	return func(p *Parser) {
		if factory != nil {
			p.ids = factory
		}
	}
}

// WithMaxTextBytes sets the input size limit. Values below 1 are ignored.
func WithMaxTextBytes(limit int) Option {
	return func(p *Parser) {
		if limit > 0 {
			p.maxText = limit
		}
	}
}

// NewParser builds a parser with default resolver and formatter.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger:  logging.NoOp(),
		maxText: DefaultMaxTextBytes,
		ids: func(jobID string) IDSource {
			return identity.NewSequence(jobID)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.resolver == nil {
		p.resolver = NewResolver(WithResolverLogger(p.logger))
	}
	if p.formatter == nil {
		p.formatter = NewFormatter()
	}
	return p
}

var _ interfaces.MarkupParser = (*Parser)(nil)

// Parse converts in into a result. Empty text yields an empty result.
func (p *Parser) Parse(ctx context.Context, in interfaces.Input) (*interfaces.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(in.Text) > p.maxText {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTextTooLarge, len(in.Text), p.maxText)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = identity.NewJobID()
	}

	command, params := splitParams(in.Meta.Params)
	result := &interfaces.Result{
		Data: interfaces.ResultData{
			ID:      id,
			Command: command,
			Params:  params,
			Vars:    interfaces.VariableMap{},
		},
	}
	if in.Text == "" {
		return result, nil
	}

	logger := logging.WithJobContext(p.logger.WithContext(ctx), id, "")

	text := Normalize("\n" + in.Text)
	vars := SeedVariables(in.Data.Vars)

	text = p.resolver.Resolve(ctx, text, id, in)
	text, _ = ExtractVariables(text, vars)
	text, talk, _ := ExtractDirectives(text, p.ids(id))

	result.Text = strings.TrimSpace(escapedSigilPattern.ReplaceAllString(text, "${1}"))
	result.HTML = p.formatter.Format(text, vars)
	result.Data.Vars = vars
	result.Data.Talk = talk

	logger.Debug("markup.parse.completed",
		"command", command,
		"vars", len(vars),
		"directives", len(talk),
	)
	return result, nil
}

// Normalize converts CRLF to LF and strips leading whitespace from every
// line, collapsing runs of blank lines. Line rules anchor on a preceding
// newline, so Parse prefixes one to make the first line eligible.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return lineIndentPattern.ReplaceAllString(text, "${1}${3}")
}

func splitParams(params []string) (string, []string) {
	if len(params) == 0 {
		return "", []string{}
	}
	return params[0], slices.Clone(params[1:])
}

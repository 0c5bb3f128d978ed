package markup

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// DefaultMaxDepth bounds recursive expansion of resolved values.
const DefaultMaxDepth = 8

var (
	scopedTokenPattern = regexp.MustCompile(`\{\{(caller|client|responder|agent|profile|config|prompt|data|vars)\.(.+?)\}\}`)
)

const (
	idToken      = "{{id}}"
	todayToken   = "{{today}}"
	profileToken = "{{profile}}"
)

// Resolver expands {{...}} references against the lookup scopes of one
// input. Lookups are best effort: a miss or a walk into a scalar yields an
// empty string and never fails the parse.
type Resolver struct {
	logger   interfaces.Logger
	now      func() time.Time
	today    interfaces.DateFormatter
	maxDepth int
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for lookup diagnostics.
func WithResolverLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the clock used for {{today}}.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDateFormatter overrides the {{today}} renderer.
func WithDateFormatter(format interfaces.DateFormatter) ResolverOption {
	return func(r *Resolver) {
		if format != nil {
			r.today = format
		}
	}
}

// WithMaxDepth sets the recursion limit. Values below 1 are ignored.
func WithMaxDepth(depth int) ResolverOption {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// NewResolver builds a resolver with en_US long dates and DefaultMaxDepth.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger:   logging.NoOp(),
		now:      time.Now,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.today == nil {
		r.today = func(t time.Time) string { return FormatDate(t, DateLong, true) }
	}
	return r
}

// Resolve expands the reserved tokens and scoped references in text, in this
// order: {{id}}, {{today}}, {{scope.path}}, {{profile}}.
func (r *Resolver) Resolve(ctx context.Context, text, id string, in interfaces.Input) string {
	if text == "" {
		return text
	}

	run := &resolution{
		resolver: r,
		logger:   r.logger.WithContext(ctx),
		scopes:   scopesFor(in),
	}

	text = strings.ReplaceAll(text, idToken, id)
	if strings.Contains(text, todayToken) {
		text = strings.ReplaceAll(text, todayToken, r.today(r.now()))
	}
	text = run.expand(text, 0)
	if strings.Contains(text, profileToken) {
		text = strings.ReplaceAll(text, profileToken, ProfileBlock(in.Responder.Profile))
	}
	return text
}

// ProfileBlock renders profile as a `::begin:profile` box with one
// `key: value` line per entry, keys sorted.
func ProfileBlock(profile map[string]any) string {
	var b strings.Builder
	b.WriteString("::begin:profile\n")
	for _, key := range slices.Sorted(maps.Keys(profile)) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(stringify(profile[key]))
		b.WriteByte('\n')
	}
	b.WriteString("::end:profile\n")
	return b.String()
}

func scopesFor(in interfaces.Input) map[string]any {
	caller := in.Caller.Scope()
	responder := in.Responder.Scope()
	data := in.Data.Vars
	return map[string]any{
		"caller":    caller,
		"client":    caller,
		"responder": responder,
		"agent":     responder,
		"profile":   in.Responder.Profile,
		"config":    in.Responder.Config,
		"prompt":    in.Responder.Config,
		"data":      data,
		"vars":      data,
	}
}

type resolution struct {
	resolver *Resolver
	logger   interfaces.Logger
	scopes   map[string]any
}

func (r *resolution) expand(text string, depth int) string {
	return scopedTokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		match := scopedTokenPattern.FindStringSubmatch(token)
		if len(match) != 3 {
			return ""
		}
		return r.lookup(token, match[1], match[2], depth)
	})
}

func (r *resolution) lookup(token, scope, path string, depth int) string {
	value, ok := r.walk(token, r.scopes[scope], path)
	if !ok {
		return ""
	}

	resolved, isString := value.(string)
	if !isString {
		if isContainer(value) {
			r.logger.Debug("markup.template.container_value", "token", token)
			return ""
		}
		return stringify(value)
	}

	if !strings.Contains(resolved, "{{") {
		return resolved
	}
	if depth+1 >= r.resolver.maxDepth {
		r.logger.Warn("markup.template.depth_exceeded", "token", token, "max_depth", r.resolver.maxDepth)
		return resolved
	}
	return r.expand(resolved, depth+1)
}

func (r *resolution) walk(token string, current any, path string) (any, bool) {
	for _, key := range strings.Split(path, ".") {
		if current == nil {
			return nil, false
		}

		var (
			next  any
			found bool
		)

		switch node := current.(type) {
		case map[string]any:
			next, found = node[key]
		case map[string]string:
			next, found = node[key]
		case interfaces.VariableMap:
			next, found = node[key]
		case map[string]interfaces.Variable:
			next, found = node[key]
		case interfaces.Variable:
			next, found = variableField(node, key)
		case []any:
			idx, err := strconv.Atoi(key)
			if err == nil && idx >= 0 && idx < len(node) {
				next, found = node[idx], true
			}
		case []string:
			idx, err := strconv.Atoi(key)
			if err == nil && idx >= 0 && idx < len(node) {
				next, found = node[idx], true
			}
		default:
			r.logger.Warn("markup.template.lookup_failed",
				"token", token,
				"key", key,
				"error", fmt.Sprintf("cannot index %T", current),
			)
			return nil, false
		}

		if !found || next == nil {
			return nil, false
		}
		current = next
	}
	return current, true
}

func variableField(v interfaces.Variable, key string) (any, bool) {
	switch key {
	case "type":
		return v.Type, true
	case "name":
		return v.Name, true
	case "value":
		return v.Value, true
	default:
		return nil, false
	}
}

func isContainer(value any) bool {
	switch value.(type) {
	case map[string]any, map[string]string, []any, []string, interfaces.VariableMap, map[string]interfaces.Variable:
		return true
	default:
		return false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case interfaces.Variable:
		return v.Value
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

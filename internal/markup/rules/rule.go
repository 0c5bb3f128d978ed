package rules

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Rule is one pass over the whole text. Rules never fail: text a rule does
// not recognise passes through untouched.
type Rule interface {
	Name() string
	Apply(text string) string
}

// Regex builds a rule over the standard regexp engine. Replacement uses
// regexp expansion syntax (${1}). It panics on an invalid pattern, like
// regexp.MustCompile, since rules are built at init time.
func Regex(name, pattern, replacement string) Rule {
	return &regexRule{
		name:        name,
		pattern:     regexp.MustCompile(pattern),
		replacement: replacement,
	}
}

type regexRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

func (r *regexRule) Name() string { return r.name }

func (r *regexRule) Apply(text string) string {
	return r.pattern.ReplaceAllString(text, r.replacement)
}

// DefaultMatchTimeout bounds a single lookaround replacement.
const DefaultMatchTimeout = 2 * time.Second

// Lookaround builds a rule over regexp2 for patterns that need lookahead or
// backreferences. Replacement uses $1 syntax. A pass that times out leaves
// the text unchanged.
func Lookaround(name, pattern, replacement string, opts regexp2.RegexOptions) Rule {
	re := regexp2.MustCompile(pattern, opts)
	re.MatchTimeout = DefaultMatchTimeout
	return &lookaroundRule{
		name:        name,
		pattern:     re,
		replacement: replacement,
	}
}

type lookaroundRule struct {
	name        string
	pattern     *regexp2.Regexp
	replacement string
}

func (r *lookaroundRule) Name() string { return r.name }

func (r *lookaroundRule) Apply(text string) string {
	out, err := r.pattern.Replace(text, r.replacement, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// Literal replaces every occurrence of old with replacement.
func Literal(name, old, replacement string) Rule {
	return literalRule{name: name, old: old, replacement: replacement}
}

type literalRule struct {
	name        string
	old         string
	replacement string
}

func (r literalRule) Name() string { return r.name }

func (r literalRule) Apply(text string) string {
	if r.old == "" {
		return text
	}
	return strings.ReplaceAll(text, r.old, r.replacement)
}

package markup

import (
	"regexp"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

var directivePattern = regexp.MustCompile(`(?i)(\n\s*)talk:\s?(.+)`)

// IDSource hands out correlation ids for directives in source order.
type IDSource interface {
	Next() string
}

// Placeholder is the token that stands in for a directive until its answer
// is spliced in.
func Placeholder(id string) string {
	return "{{" + id + "}}"
}

// ExtractDirectives replaces each `talk:` line with a placeholder, one match
// per pass, and returns the directives in source order. It reports false
// when text is empty.
func ExtractDirectives(text string, ids IDSource) (string, []interfaces.Directive, bool) {
	if text == "" {
		return text, nil, false
	}

	var directives []interfaces.Directive
	for {
		loc := directivePattern.FindStringSubmatchIndex(text)
		if loc == nil {
			return text, directives, true
		}

		id := ids.Next()
		directive := interfaces.Directive{
			ID:          id,
			Placeholder: Placeholder(id),
			Value:       text[loc[4]:loc[5]],
		}
		directives = append(directives, directive)

		text = text[:loc[0]] + "\n" + directive.Placeholder + text[loc[1]:]
	}
}

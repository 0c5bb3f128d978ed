package markup

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-feecting/internal/markup/rules"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// DefaultCoverPrefix prefixes the custom properties of the cover wrapper.
const DefaultCoverPrefix = "--browser-item"

var escapedSigilPattern = regexp.MustCompile(`\\([#@$])`)

// Formatter renders markup into an HTML fragment.
type Formatter struct {
	table       *rules.Table
	coverPrefix string
}

// FormatterOption customises a Formatter.
type FormatterOption func(*Formatter)

// WithRules replaces the rule table.
func WithRules(table *rules.Table) FormatterOption {
	return func(f *Formatter) {
		if table != nil {
			f.table = table
		}
	}
}

// WithCoverPrefix changes the custom property prefix of the cover wrapper.
func WithCoverPrefix(prefix string) FormatterOption {
	return func(f *Formatter) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			f.coverPrefix = prefix
		}
	}
}

// NewFormatter returns a formatter over rules.Default.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		table:       rules.Default(),
		coverPrefix: DefaultCoverPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Format applies the rule table once over text and wraps the result in a
// cover section when vars carry any cover style.
func (f *Formatter) Format(text string, vars interfaces.VariableMap) string {
	text = "\n" + strings.ReplaceAll(text, "@@", "@")
	html := strings.TrimSpace(f.table.Apply(text))
	html = escapedSigilPattern.ReplaceAllString(html, "${1}")

	if style := f.coverStyle(vars); style != "" {
		html = `<section class="cover" style="` + style + `">` + html + `</section>`
	}
	return html
}

func (f *Formatter) coverStyle(vars interfaces.VariableMap) string {
	if len(vars) == 0 {
		return ""
	}

	var props []string
	add := func(name, property, format string) {
		v, ok := vars[name]
		if !ok {
			return
		}
		props = append(props, f.coverPrefix+property+strings.Replace(format, "%s", v.Value, 1))
	}

	add("bgcolor", "-bgcolor", ":%s")
	add("bg", "-background", ": url(%s)")
	add("color", "-color", ": %s")
	add("highlight", "-highlight", ": %s")
	add("shadow", "-shadow", ": %s")
	add("size", "-size", ": %s")

	return strings.Join(props, ";")
}

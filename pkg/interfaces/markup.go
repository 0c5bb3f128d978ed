package interfaces

import (
	"context"
	"maps"
	"time"
)

// Variable sigils recognised by the variable extractor.
const (
	SigilHash   = "#"
	SigilPerson = "@"
	SigilPlace  = "$"
)

// Variable is a typed declaration pulled out of the markup (`#name = value`).
// Values are immutable once extracted.
type Variable struct {
	Type  string `json:"type" yaml:"type"`
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// VariableMap indexes variables by their trimmed name. Later declarations
// replace earlier ones with the same name.
type VariableMap map[string]Variable

// Clone returns a shallow copy safe to mutate independently.
func (m VariableMap) Clone() VariableMap {
	if m == nil {
		return VariableMap{}
	}
	out := make(VariableMap, len(m))
	maps.Copy(out, m)
	return out
}

// Directive is a staged `talk:` line waiting for an external answer. The
// Placeholder token marks where the answer is spliced into text and HTML.
type Directive struct {
	ID          string `json:"id" yaml:"id"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	Value       string `json:"value" yaml:"value"`
}

// Meta carries request metadata. The first entry of Params is treated as the
// command name; the rest is surfaced on the result.
type Meta struct {
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
	URL    string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Party describes one side of the exchange (the caller or the responder).
// Template lookups only ever read from it.
type Party struct {
	Key     string         `json:"key,omitempty" yaml:"key,omitempty"`
	Profile map[string]any `json:"profile,omitempty" yaml:"profile,omitempty"`
	Config  map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Fields  map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Scope flattens the party into the lookup map used by `{{caller.*}}` and
// `{{responder.*}}` references. Fields never shadow key, profile or config.
func (p Party) Scope() map[string]any {
	scope := make(map[string]any, len(p.Fields)+3)
	maps.Copy(scope, p.Fields)
	if p.Key != "" {
		scope["key"] = p.Key
	}
	if p.Profile != nil {
		scope["profile"] = p.Profile
	}
	if p.Config != nil {
		scope["config"] = p.Config
	}
	return scope
}

// Data holds caller-supplied values available to templates as `{{data.*}}`.
type Data struct {
	Vars map[string]any `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Input is one unit of markup to parse.
type Input struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Meta      Meta   `json:"meta" yaml:"meta"`
	Text      string `json:"text" yaml:"text"`
	Caller    Party  `json:"caller" yaml:"caller"`
	Responder Party  `json:"responder" yaml:"responder"`
	Data      Data   `json:"data" yaml:"data"`
}

// ResultData is the structured side of a parse.
type ResultData struct {
	ID      string      `json:"id" yaml:"id"`
	Command string      `json:"command,omitempty" yaml:"command,omitempty"`
	Params  []string    `json:"params" yaml:"params"`
	Vars    VariableMap `json:"vars" yaml:"vars"`
	Talk    []Directive `json:"talk" yaml:"talk"`
}

// Result is the parse output. Once every directive has been answered the
// Text and HTML buffers contain no placeholder tokens.
type Result struct {
	Text string     `json:"text" yaml:"text"`
	HTML string     `json:"html" yaml:"html"`
	Data ResultData `json:"data" yaml:"data"`
}

// Answer is what a responder returns for a directive. Empty fields splice
// in as empty strings.
type Answer struct {
	Text string `json:"text" yaml:"text"`
	HTML string `json:"html" yaml:"html"`
}

// Responder answers directive questions. Implementations must return once
// ctx is done so abandoned jobs do not pin goroutines.
type Responder interface {
	Question(ctx context.Context, text string) (Answer, error)
}

// ResponderFunc adapts a function into a Responder.
type ResponderFunc func(ctx context.Context, text string) (Answer, error)

// Question implements Responder.
func (f ResponderFunc) Question(ctx context.Context, text string) (Answer, error) {
	return f(ctx, text)
}

// Fetcher retrieves raw markup from a remote location.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DateFormatter renders the long-form date used by `{{today}}`.
type DateFormatter func(t time.Time) string

// MarkupParser runs the text pipeline without resolving directives.
type MarkupParser interface {
	Parse(ctx context.Context, in Input) (*Result, error)
}

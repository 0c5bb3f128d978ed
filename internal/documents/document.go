package documents

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Extension is the conventional file suffix for markup documents.
const Extension = ".feecting"

// ErrPathRequired is returned by Load for an empty path.
var ErrPathRequired = errors.New("documents: path is required")

// Document is a markup file split into frontmatter and body.
type Document struct {
	Path      string
	ID        string
	Params    []string
	Vars      map[string]any
	Caller    interfaces.Party
	Responder interfaces.Party
	Body      string
}

type partyEnvelope struct {
	Key     string         `yaml:"key"`
	Profile map[string]any `yaml:"profile"`
	Config  map[string]any `yaml:"config"`
	Fields  map[string]any `yaml:"fields"`
}

type envelope struct {
	ID        string         `yaml:"id"`
	Params    []string       `yaml:"params"`
	Vars      map[string]any `yaml:"vars"`
	Caller    partyEnvelope  `yaml:"caller"`
	Responder partyEnvelope  `yaml:"responder"`
}

// Parse splits source into frontmatter and body. Sources without
// frontmatter yield a document holding only the body.
func Parse(source []byte) (*Document, error) {
	var meta envelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("documents: parse frontmatter: %w", err)
	}

	return &Document{
		ID:        strings.TrimSpace(meta.ID),
		Params:    meta.Params,
		Vars:      normalizeMap(meta.Vars),
		Caller:    meta.Caller.party(),
		Responder: meta.Responder.party(),
		Body:      string(body),
	}, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrPathRequired
	}
	source, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("documents: read %s: %w", path, err)
	}
	doc, err := Parse(source)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Input converts the document into a parser input.
func (d *Document) Input() interfaces.Input {
	if d == nil {
		return interfaces.Input{}
	}
	return interfaces.Input{
		ID:        d.ID,
		Meta:      interfaces.Meta{Params: append([]string(nil), d.Params...)},
		Text:      d.Body,
		Caller:    d.Caller,
		Responder: d.Responder,
		Data:      interfaces.Data{Vars: d.Vars},
	}
}

func (p partyEnvelope) party() interfaces.Party {
	return interfaces.Party{
		Key:     strings.TrimSpace(p.Key),
		Profile: normalizeMap(p.Profile),
		Config:  normalizeMap(p.Config),
		Fields:  normalizeMap(p.Fields),
	}
}

// normalizeMap converts nested map[any]any values produced by the YAML
// decoder into map[string]any so template lookups can walk them.
func normalizeMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeMap(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, nested := range v {
			out[fmt.Sprint(key)] = normalizeValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, nested := range v {
			out[i] = normalizeValue(nested)
		}
		return out
	default:
		return v
	}
}

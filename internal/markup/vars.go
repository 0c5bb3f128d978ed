package markup

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

var declarationPattern = regexp.MustCompile(`\n\s*([#@$])(.+)\s?=\s?(.+)`)

// ExtractVariables pulls `<sigil>name = value` lines out of text into vars,
// one match per pass and always the first remaining match, rewriting each to
// `var[<sigil><name>]:<value>`. It reports false when text is empty.
func ExtractVariables(text string, vars interfaces.VariableMap) (string, bool) {
	if text == "" {
		return text, false
	}

	for {
		loc := declarationPattern.FindStringSubmatchIndex(text)
		if loc == nil {
			return text, true
		}

		variable := interfaces.Variable{
			Type:  strings.TrimSpace(text[loc[2]:loc[3]]),
			Name:  strings.TrimSpace(text[loc[4]:loc[5]]),
			Value: strings.TrimSpace(text[loc[6]:loc[7]]),
		}
		if vars != nil {
			vars[variable.Name] = variable
		}

		text = text[:loc[0]] + Marker(variable) + text[loc[1]:]
	}
}

// Marker is the canonical inline form of an extracted variable, including
// its leading newline.
func Marker(v interfaces.Variable) string {
	return "\nvar[" + v.Type + v.Name + "]:" + v.Value
}

// SeedVariables copies caller supplied values into a fresh map. Entries may
// be Variable values or maps carrying a "value" key; anything else is
// ignored.
func SeedVariables(data map[string]any) interfaces.VariableMap {
	vars := interfaces.VariableMap{}
	for name, raw := range data {
		switch v := raw.(type) {
		case interfaces.Variable:
			if v.Name == "" {
				v.Name = name
			}
			vars[name] = v
		case *interfaces.Variable:
			if v == nil {
				continue
			}
			seeded := *v
			if seeded.Name == "" {
				seeded.Name = name
			}
			vars[name] = seeded
		case map[string]any:
			value, ok := v["value"]
			if !ok {
				continue
			}
			vars[name] = interfaces.Variable{
				Type:  stringify(v["type"]),
				Name:  firstNonEmpty(stringify(v["name"]), name),
				Value: stringify(value),
			}
		case map[string]string:
			value, ok := v["value"]
			if !ok {
				continue
			}
			vars[name] = interfaces.Variable{
				Type:  v["type"],
				Name:  firstNonEmpty(v["name"], name),
				Value: value,
			}
		}
	}
	return vars
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

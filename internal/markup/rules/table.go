package rules

import "slices"

// Table is an ordered list of rules plus a fallback that always runs last.
// A Table is read-only once built and safe for concurrent use when its rules
// are.
type Table struct {
	rules    []Rule
	fallback Rule
}

// NewTable returns a table applying rules in order and then fallback. A nil
// fallback is allowed.
func NewTable(fallback Rule, rules ...Rule) *Table {
	return &Table{
		rules:    slices.Clone(rules),
		fallback: fallback,
	}
}

// Apply runs every rule exactly once over the whole text.
func (t *Table) Apply(text string) string {
	if t == nil {
		return text
	}
	for _, rule := range t.rules {
		text = rule.Apply(text)
	}
	if t.fallback != nil {
		text = t.fallback.Apply(text)
	}
	return text
}

// Names lists rules in the order Apply runs them.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.rules)+1)
	for _, rule := range t.rules {
		names = append(names, rule.Name())
	}
	if t.fallback != nil {
		names = append(names, t.fallback.Name())
	}
	return names
}

// Len reports the number of rules including the fallback.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := len(t.rules)
	if t.fallback != nil {
		n++
	}
	return n
}

// With returns a copy of the table with extra rules appended after the
// existing ones. The fallback still runs last.
func (t *Table) With(rules ...Rule) *Table {
	if t == nil {
		return NewTable(nil, rules...)
	}
	return &Table{
		rules:    append(slices.Clone(t.rules), rules...),
		fallback: t.fallback,
	}
}

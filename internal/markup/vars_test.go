package markup

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

func TestExtractVariablesRewritesDeclarations(t *testing.T) {
	vars := interfaces.VariableMap{}
	text, ok := ExtractVariables("\n#foo = bar\n@who=Ann\n$where = here = there", vars)
	if !ok {
		t.Fatal("expected extraction to run")
	}

	want := interfaces.VariableMap{
		"foo":          {Type: "#", Name: "foo", Value: "bar"},
		"who":          {Type: "@", Name: "who", Value: "Ann"},
		"where = here": {Type: "$", Name: "where = here", Value: "there"},
	}
	if diff := cmp.Diff(want, vars); diff != "" {
		t.Fatalf("unexpected vars (-want +got):\n%s", diff)
	}

	if strings.Count(text, "var[#foo]:bar") != 1 {
		t.Fatalf("expected exactly one marker for foo, got %q", text)
	}
	if strings.Contains(text, "#foo =") {
		t.Fatalf("expected raw declaration to be removed, got %q", text)
	}
}

func TestExtractVariablesLastWriteWins(t *testing.T) {
	vars := interfaces.VariableMap{}
	text, _ := ExtractVariables("\n#a = 1\n#a = 2", vars)
	if vars["a"].Value != "2" {
		t.Fatalf("expected last value to win, got %q", vars["a"].Value)
	}
	if text != "\nvar[#a]:1\nvar[#a]:2" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractVariablesEmptyInput(t *testing.T) {
	text, ok := ExtractVariables("", interfaces.VariableMap{})
	if ok || text != "" {
		t.Fatalf("expected no-op on empty input, got %q %v", text, ok)
	}
}

func TestExtractVariablesIgnoresEscapedSigils(t *testing.T) {
	vars := interfaces.VariableMap{}
	text, _ := ExtractVariables("\n\\#not = a var", vars)
	if len(vars) != 0 {
		t.Fatalf("expected escaped declaration to be skipped, got %v", vars)
	}
	if text != "\n\\#not = a var" {
		t.Fatalf("expected text unchanged, got %q", text)
	}
}

func TestSeedVariables(t *testing.T) {
	vars := SeedVariables(map[string]any{
		"typed":   interfaces.Variable{Type: "#", Value: "x"},
		"mapped":  map[string]any{"type": "@", "value": "y"},
		"strings": map[string]string{"value": "z"},
		"ignored": "plain",
		"novalue": map[string]any{"type": "#"},
	})

	want := interfaces.VariableMap{
		"typed":   {Type: "#", Name: "typed", Value: "x"},
		"mapped":  {Type: "@", Name: "mapped", Value: "y"},
		"strings": {Name: "strings", Value: "z"},
	}
	if diff := cmp.Diff(want, vars); diff != "" {
		t.Fatalf("unexpected seed (-want +got):\n%s", diff)
	}
}

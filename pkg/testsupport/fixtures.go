package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Fixture returns the contents of testdata/name.
func Fixture(tb testing.TB, name string) []byte {
	tb.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// Golden decodes the JSON file testdata/name into v.
func Golden(tb testing.TB, name string, v any) {
	tb.Helper()
	if err := json.Unmarshal(Fixture(tb, name), v); err != nil {
		tb.Fatalf("decode golden %s: %v", name, err)
	}
}

package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := UUID("feecting:directive:job-1:1")
	second := UUID("  feecting:directive:job-1:1 ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected trimmed keys to map to the same uuid, got %s and %s", first, second)
	}
	if UUID("") != uuid.Nil {
		t.Fatal("expected nil uuid for empty key")
	}
}

func TestSequenceIsUniquePerOrdinalAndJob(t *testing.T) {
	seq := NewSequence("job-1")
	seen := map[string]struct{}{}
	for range 5 {
		id := seq.Next()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
	if seq.Count() != 5 {
		t.Fatalf("expected count 5, got %d", seq.Count())
	}

	again := NewSequence("job-1")
	if got, want := again.Next(), DirectiveUUID("job-1", 1).String(); got != want {
		t.Fatalf("expected replayed sequence to match, got %s want %s", got, want)
	}

	other := NewSequence("job-2")
	if _, dup := seen[other.Next()]; dup {
		t.Fatal("expected ids to differ across jobs")
	}
}

func TestNewSequenceWithoutJobID(t *testing.T) {
	a := NewSequence("").Next()
	b := NewSequence("").Next()
	if a == b {
		t.Fatal("expected anonymous sequences to differ")
	}
}

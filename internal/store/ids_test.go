package store

import (
	"strings"
	"testing"
)

func TestNewID_HasPrefix(t *testing.T) {
	id := NewID("page")
	if !strings.HasPrefix(id, "page-") {
		t.Fatalf("expected page prefix, got %q", id)
	}
	if got, want := len(strings.TrimPrefix(id, "page-")), 36; got != want {
		t.Fatalf("expected uuid suffix len %d, got %d (%q)", want, got, id)
	}
}

func TestNewID_UniqueUnderRapidCreation(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10000; i++ {
		id := NewID("proj")
		if seen[id] {
			t.Fatalf("duplicate id after %d creations: %s", i, id)
		}
		seen[id] = true
	}
}

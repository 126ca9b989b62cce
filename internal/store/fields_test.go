package store

import (
	"reflect"
	"testing"
)

func TestCanonicalFields_MatchesReloadedTypes(t *testing.T) {
	got, err := CanonicalFields(map[string]any{
		"n":    3,
		"refs": map[string]string{"doi": "10.1/x"},
		"ids":  []int{1, 2},
		"gone": nil,
	})
	if err != nil {
		t.Fatalf("CanonicalFields: %v", err)
	}
	want := map[string]any{
		"n":    float64(3),
		"refs": map[string]any{"doi": "10.1/x"},
		"ids":  []any{float64(1), float64(2)},
		"gone": nil,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
	if out, err := CanonicalFields(nil); err != nil || out != nil {
		t.Fatalf("nil fields: %v %v", out, err)
	}
	if _, err := CanonicalFields(map[string]any{"f": func() {}}); err == nil {
		t.Fatalf("expected error for unencodable value")
	}
}

func TestCloneFields_IsDeep(t *testing.T) {
	orig := map[string]any{
		"refs": map[string]any{"a": "1"},
		"ids":  []any{"x", map[string]any{"k": "v"}},
	}
	cp := CloneFields(orig)
	cp["refs"].(map[string]any)["a"] = "changed"
	cp["ids"].([]any)[0] = "changed"
	cp["ids"].([]any)[1].(map[string]any)["k"] = "changed"

	if orig["refs"].(map[string]any)["a"] != "1" ||
		orig["ids"].([]any)[0] != "x" ||
		orig["ids"].([]any)[1].(map[string]any)["k"] != "v" {
		t.Fatalf("clone shares memory with original: %#v", orig)
	}
}

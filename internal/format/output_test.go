package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID    string   `json:"id"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
	Skip  string   `json:"skip,omitempty"`
}

func TestWrite_JSON(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, map[string]any{"data": sample{ID: "page-1", Count: 2, Tags: []string{"a"}}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{"data":{"id":"page-1","count":2,"tags":["a"]}}` + "\n"
	if b.String() != want {
		t.Fatalf("got %q, want %q", b.String(), want)
	}

	b.Reset()
	if err := Write(&b, sample{ID: "x"}, "json", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(b.String(), "\n  \"id\": \"x\"") {
		t.Fatalf("expected indented json, got %q", b.String())
	}
}

func TestWrite_YAMLUsesJSONFieldNames(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, sample{ID: "page-1", Count: 3, Tags: []string{"a", "b"}}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "count: 3\nid: page-1\ntags:\n  - a\n  - b\n"
	if b.String() != want {
		t.Fatalf("got %q, want %q", b.String(), want)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var b bytes.Buffer
	err := Write(&b, 1, "edn", false)
	if err == nil || !strings.Contains(err.Error(), "unknown format: edn") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

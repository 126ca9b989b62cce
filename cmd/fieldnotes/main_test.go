package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"fieldnotes"},
			want: []string{"fieldnotes"},
		},
		{
			name: "page id first token",
			in:   []string{"fieldnotes", "page-abc123"},
			want: []string{"fieldnotes", "pages", "show", "page-abc123"},
		},
		{
			name: "project id",
			in:   []string{"fieldnotes", "proj-abc123"},
			want: []string{"fieldnotes", "projects", "show", "proj-abc123"},
		},
		{
			name: "document id after value flag",
			in:   []string{"fieldnotes", "--dir", "./ws", "doc-abc123"},
			want: []string{"fieldnotes", "--dir", "./ws", "documents", "show", "doc-abc123"},
		},
		{
			name: "citation id after equals flag",
			in:   []string{"fieldnotes", "--format=yaml", "cit-abc123"},
			want: []string{"fieldnotes", "--format=yaml", "citations", "show", "cit-abc123"},
		},
		{
			name: "id after bool flag",
			in:   []string{"fieldnotes", "--pretty", "page-abc123"},
			want: []string{"fieldnotes", "--pretty", "pages", "show", "page-abc123"},
		},
		{
			name: "id after log level and config",
			in:   []string{"fieldnotes", "--log-level", "debug", "--config", "c.yaml", "page-1"},
			want: []string{"fieldnotes", "--log-level", "debug", "--config", "c.yaml", "pages", "show", "page-1"},
		},
		{
			name: "id after double dash",
			in:   []string{"fieldnotes", "--dir", "./ws", "--", "page-abc123"},
			want: []string{"fieldnotes", "--dir", "./ws", "--", "pages", "show", "page-abc123"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"fieldnotes", "page-"},
			want: []string{"fieldnotes", "page-"},
		},
		{
			name: "folder ids have no show command",
			in:   []string{"fieldnotes", "fld-abc123"},
			want: []string{"fieldnotes", "fld-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"fieldnotes", "pages", "show", "page-abc123"},
			want: []string{"fieldnotes", "pages", "show", "page-abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectLookupArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

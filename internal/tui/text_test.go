package tui

import (
	"strings"
	"testing"
)

func TestTruncateAndPad(t *testing.T) {
	t.Parallel()

	if got := truncate("hello world", 5); got != "hell…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("anything", 0); got != "" {
		t.Fatalf("truncate zero width = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pct  float64
		want string
	}{
		{0, "░░░░░░░░░░"},
		{50, "█████░░░░░"},
		{100, "██████████"},
		{150, "██████████"},
	}
	for _, tc := range cases {
		if got := progressBar(tc.pct, 10); got != tc.want {
			t.Fatalf("progressBar(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
	if got := strings.Count(progressBar(100.0/6, 6), "█"); got != 1 {
		t.Fatalf("expected 1 filled cell for the first stage, got %d", got)
	}
}

func TestResolveMarkdownStyle(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("FIELDNOTES_TUI_THEME", "")
	if got := resolveMarkdownStyle("Dracula"); got != "dracula" {
		t.Fatalf("explicit style = %q", got)
	}

	t.Setenv("FIELDNOTES_TUI_THEME", "light")
	if got := resolveMarkdownStyle("auto"); got != "light" {
		t.Fatalf("auto with light theme = %q", got)
	}
	t.Setenv("FIELDNOTES_TUI_THEME", "dark")
	if got := resolveMarkdownStyle(""); got != "dark" {
		t.Fatalf("empty with dark theme = %q", got)
	}

	t.Setenv("FIELDNOTES_TUI_THEME", "")
	t.Setenv("COLORFGBG", "0;15")
	if dark, ok := darkBackgroundPreference(); !ok || dark {
		t.Fatalf("COLORFGBG 0;15: dark=%v ok=%v", dark, ok)
	}
}

func TestRenderMarkdown_NoTTY(t *testing.T) {
	t.Parallel()

	out := renderMarkdown("# Title\n\nSome *body* text", "notty", 40)
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body") {
		t.Fatalf("unexpected render:\n%s", out)
	}
	if renderMarkdown("   ", "notty", 40) != "" {
		t.Fatalf("expected empty output for blank markdown")
	}
}

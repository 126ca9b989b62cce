package biblio

import (
	"strings"
	"testing"

	"fieldnotes/internal/model"
)

func kuhn() model.Citation {
	return model.Citation{
		ID:        "cit-1",
		Type:      model.CitationBook,
		Title:     "The Structure of Scientific Revolutions",
		Authors:   []string{"Kuhn, Thomas S."},
		Year:      1962,
		Publisher: "University of Chicago Press",
	}
}

func doeRoe() model.Citation {
	return model.Citation{
		ID:      "cit-2",
		Type:    model.CitationJournalArticle,
		Title:   "Notes on fieldwork",
		Authors: []string{"Doe, Jane", "Roe, Richard"},
		Year:    2020,
		Journal: "Journal of Methods",
		Volume:  "12",
		Issue:   "3",
		Pages:   "45-67",
		DOI:     "10.1000/xyz",
	}
}

func TestFormat_Styles(t *testing.T) {
	cases := []struct {
		style model.CitationStyle
		c     model.Citation
		want  string
	}{
		{model.StyleAPA, kuhn(), "Kuhn, T. S. (1962). The Structure of Scientific Revolutions. University of Chicago Press.\n"},
		{model.StyleAPA, doeRoe(), "Doe, J., & Roe, R. (2020). Notes on fieldwork. Journal of Methods, 12(3), 45-67. https://doi.org/10.1000/xyz\n"},
		{model.StyleMLA, doeRoe(), "Doe, Jane, and Richard Roe. \"Notes on fieldwork.\" Journal of Methods, vol. 12, no. 3, 2020, pp. 45-67, https://doi.org/10.1000/xyz.\n"},
		{model.StyleChicago, doeRoe(), "Doe, Jane, and Richard Roe. 2020. \"Notes on fieldwork.\" Journal of Methods 12 (3): 45-67. https://doi.org/10.1000/xyz\n"},
		{model.StyleHarvard, doeRoe(), "Doe, J. and Roe, R. (2020) 'Notes on fieldwork', Journal of Methods, 12(3), pp. 45-67. doi: 10.1000/xyz.\n"},
		{model.StyleIEEE, doeRoe(), "[1] J. Doe and R. Roe, \"Notes on fieldwork,\" Journal of Methods, vol. 12, no. 3, pp. 45-67, 2020, doi: 10.1000/xyz.\n"},
	}
	for _, tc := range cases {
		got, err := Format([]model.Citation{tc.c}, tc.style)
		if err != nil {
			t.Fatalf("%s: %v", tc.style, err)
		}
		if got != tc.want {
			t.Fatalf("%s:\n got: %q\nwant: %q", tc.style, got, tc.want)
		}
	}
}

func TestFormat_AuthorDateStylesSortByAuthor(t *testing.T) {
	got, err := Format([]model.Citation{kuhn(), doeRoe()}, model.StyleAPA)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Doe") || !strings.HasPrefix(lines[1], "Kuhn") {
		t.Fatalf("unexpected order:\n%s", got)
	}

	got, err = Format([]model.Citation{kuhn(), doeRoe()}, model.StyleIEEE)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	lines = strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "[1] T. S. Kuhn") || !strings.HasPrefix(lines[1], "[2] J. Doe") {
		t.Fatalf("ieee should keep input order:\n%s", got)
	}
}

func TestFormat_BibTeX(t *testing.T) {
	got, err := Format([]model.Citation{kuhn()}, model.StyleBibTeX)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "@book{kuhn1962structure,\n" +
		"  author = {Kuhn, Thomas S.},\n" +
		"  title = {The Structure of Scientific Revolutions},\n" +
		"  year = {1962},\n" +
		"  publisher = {University of Chicago Press}\n" +
		"}\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_BibTeXKeysAreUnique(t *testing.T) {
	got, err := Format([]model.Citation{kuhn(), kuhn()}, model.StyleBibTeX)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(got, "@book{kuhn1962structure,") || !strings.Contains(got, "@book{kuhn1962structurea,") {
		t.Fatalf("expected deduplicated keys:\n%s", got)
	}
}

func TestFormat_UnknownStyle(t *testing.T) {
	if _, err := Format([]model.Citation{kuhn()}, "vancouver"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormat_Empty(t *testing.T) {
	for _, s := range model.AllCitationStyles() {
		got, err := Format(nil, s)
		if err != nil || got != "" {
			t.Fatalf("%s: got %q, %v", s, got, err)
		}
	}
}

func TestParseName(t *testing.T) {
	n := parseName("Jean-Paul Sartre")
	if n.Family != "Sartre" || n.initials() != "J.-P." {
		t.Fatalf("unexpected: %+v %q", n, n.initials())
	}
	if got := parseName("Curie, Marie").invertedInitials(); got != "Curie, M." {
		t.Fatalf("got %q", got)
	}
}

package biblio

import (
	"strconv"
	"strings"
	"unicode"

	"fieldnotes/internal/model"
)

var bibtexEntryTypes = map[model.CitationType]string{
	model.CitationBook:            "book",
	model.CitationJournalArticle:  "article",
	model.CitationWebsite:         "misc",
	model.CitationConferencePaper: "inproceedings",
	model.CitationThesis:          "phdthesis",
	model.CitationReport:          "techreport",
}

// titleStopWords are skipped when picking the title word of a citation key.
var titleStopWords = map[string]bool{"a": true, "an": true, "the": true, "on": true, "of": true}

func bibtexList(citations []model.Citation) string {
	used := map[string]int{}
	entries := make([]string, 0, len(citations))
	for _, c := range citations {
		key := CitationKey(c)
		if n := used[key]; n > 0 {
			used[key] = n + 1
			key += string(rune('a' + n - 1))
		} else {
			used[key] = 1
		}
		entries = append(entries, bibtex(c, key))
	}
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n")
}

// CitationKey is lastnameYEARfirstword, lowercased and limited to letters and digits.
func CitationKey(c model.Citation) string {
	var b strings.Builder
	if names := parseNames(c.Authors); len(names) > 0 {
		b.WriteString(keyPart(names[0].Family))
	} else {
		b.WriteString("anon")
	}
	if c.Year > 0 {
		b.WriteString(strconv.Itoa(c.Year))
	}
	for _, w := range strings.Fields(c.Title) {
		w = keyPart(w)
		if w == "" || titleStopWords[w] {
			continue
		}
		b.WriteString(w)
		break
	}
	return b.String()
}

func keyPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func bibtex(c model.Citation, key string) string {
	typ, ok := bibtexEntryTypes[c.Type]
	if !ok {
		typ = "misc"
	}

	authors := make([]string, 0, len(c.Authors))
	for _, n := range parseNames(c.Authors) {
		authors = append(authors, n.inverted())
	}
	year := ""
	if c.Year > 0 {
		year = strconv.Itoa(c.Year)
	}
	container := "journal"
	if c.Type == model.CitationConferencePaper {
		container = "booktitle"
	}
	publisher := "publisher"
	switch c.Type {
	case model.CitationThesis:
		publisher = "school"
	case model.CitationReport:
		publisher = "institution"
	}

	fields := [][2]string{
		{"author", strings.Join(authors, " and ")},
		{"title", c.Title},
		{container, c.Journal},
		{"year", year},
		{publisher, c.Publisher},
		{"volume", c.Volume},
		{"number", c.Issue},
		{"pages", c.Pages},
		{"doi", c.DOI},
		{"url", c.URL},
	}
	if c.AccessedAt != nil {
		fields = append(fields, [2]string{"urldate", c.AccessedAt.UTC().Format("2006-01-02")})
	}

	var b strings.Builder
	b.WriteString("@" + typ + "{" + key)
	for _, f := range fields {
		v := strings.TrimSpace(f[1])
		if v == "" {
			continue
		}
		b.WriteString(",\n  " + f[0] + " = {" + escapeBibtex(v) + "}")
	}
	b.WriteString("\n}\n")
	return b.String()
}

var bibtexEscaper = strings.NewReplacer(`&`, `\&`, `%`, `\%`, `$`, `\$`, `#`, `\#`, `_`, `\_`)

func escapeBibtex(s string) string {
	return bibtexEscaper.Replace(s)
}

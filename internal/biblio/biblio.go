// Package biblio renders citations as a bibliography in one of the supported styles.
package biblio

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fieldnotes/internal/model"
)

// Format renders one entry per citation. Author-date styles are ordered by first author,
// year and title; IEEE numbers entries and BibTeX emits them in input order.
func Format(citations []model.Citation, style model.CitationStyle) (string, error) {
	var render func(model.Citation) string
	switch style {
	case model.StyleAPA:
		render = apa
	case model.StyleMLA:
		render = mla
	case model.StyleChicago:
		render = chicago
	case model.StyleHarvard:
		render = harvard
	case model.StyleIEEE:
		return ieeeList(citations), nil
	case model.StyleBibTeX:
		return bibtexList(citations), nil
	default:
		return "", fmt.Errorf("unsupported citation style: %q", style)
	}

	var b strings.Builder
	for _, c := range sortedByAuthor(citations) {
		b.WriteString(render(c))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func sortedByAuthor(citations []model.Citation) []model.Citation {
	out := make([]model.Citation, len(citations))
	copy(out, citations)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := sortKey(out[i]), sortKey(out[j])
		if ai != aj {
			return ai < aj
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

func sortKey(c model.Citation) string {
	if names := parseNames(c.Authors); len(names) > 0 {
		return strings.ToLower(names[0].Family)
	}
	return strings.ToLower(strings.TrimSpace(c.Title))
}

func apa(c model.Citation) string {
	names := parseNames(c.Authors)
	items := make([]string, 0, len(names))
	for _, n := range names {
		items = append(items, n.invertedInitials())
	}
	if len(items) > 20 {
		items = append(items[:19:19], "... "+items[len(items)-1])
	}

	year := "(n.d.)."
	if c.Year > 0 {
		year = "(" + strconv.Itoa(c.Year) + ")."
	}
	title := terminate(c.Title)

	var segs []string
	if len(items) > 0 {
		segs = append(segs, terminate(joinList(items, "&", true, true)), year, title)
	} else {
		segs = append(segs, title, year)
	}

	switch c.Type {
	case model.CitationJournalArticle:
		src := c.Journal
		if c.Volume != "" {
			src = joinNonEmpty(", ", src, c.Volume)
			if c.Issue != "" {
				src += "(" + c.Issue + ")"
			}
		}
		segs = append(segs, terminate(joinNonEmpty(", ", src, c.Pages)))
	case model.CitationConferencePaper:
		if c.Journal != "" {
			src := "In " + c.Journal
			if c.Pages != "" {
				src += " (pp. " + c.Pages + ")"
			}
			segs = append(segs, terminate(src))
		}
		segs = append(segs, terminate(c.Publisher))
	default:
		segs = append(segs, terminate(c.Publisher))
	}
	segs = append(segs, link(c))
	return joinSegments(segs)
}

func mla(c model.Citation) string {
	names := parseNames(c.Authors)
	var authors string
	switch len(names) {
	case 0:
	case 1:
		authors = names[0].inverted()
	case 2:
		authors = names[0].inverted() + ", and " + names[1].natural()
	default:
		authors = names[0].inverted() + ", et al"
	}

	var container []string
	year := ""
	if c.Year > 0 {
		year = strconv.Itoa(c.Year)
	}
	switch c.Type {
	case model.CitationJournalArticle:
		container = append(container, c.Journal, prefixed("vol. ", c.Volume), prefixed("no. ", c.Issue), year, prefixed("pp. ", c.Pages))
	case model.CitationConferencePaper:
		container = append(container, c.Journal, c.Publisher, year, prefixed("pp. ", c.Pages))
	case model.CitationWebsite:
		container = append(container, c.Publisher, year, c.URL)
	default:
		container = append(container, c.Publisher, year)
	}
	if c.DOI != "" {
		container = append(container, "https://doi.org/"+c.DOI)
	}

	return joinSegments([]string{
		terminate(authors),
		titleSegment(c, "\"", "\""),
		terminate(joinNonEmpty(", ", container...)),
	})
}

func chicago(c model.Citation) string {
	names := parseNames(c.Authors)
	items := make([]string, 0, len(names))
	for i, n := range names {
		if i == 0 {
			items = append(items, n.inverted())
			continue
		}
		items = append(items, n.natural())
	}
	year := "n.d."
	if c.Year > 0 {
		year = strconv.Itoa(c.Year) + "."
	}

	segs := []string{terminate(joinList(items, "and", true, true)), year, titleSegment(c, "\"", "\"")}
	switch c.Type {
	case model.CitationJournalArticle:
		src := joinNonEmpty(" ", c.Journal, c.Volume)
		if c.Issue != "" {
			src += " (" + c.Issue + ")"
		}
		if c.Pages != "" {
			src += ": " + c.Pages
		}
		segs = append(segs, terminate(src))
	case model.CitationConferencePaper:
		if c.Journal != "" {
			segs = append(segs, terminate(joinNonEmpty(", ", "In "+c.Journal, c.Pages)))
		}
		segs = append(segs, terminate(c.Publisher))
	default:
		segs = append(segs, terminate(c.Publisher))
	}
	segs = append(segs, link(c))
	return joinSegments(segs)
}

func harvard(c model.Citation) string {
	names := parseNames(c.Authors)
	items := make([]string, 0, len(names))
	for _, n := range names {
		items = append(items, n.invertedInitials())
	}
	year := "(n.d.)"
	if c.Year > 0 {
		year = "(" + strconv.Itoa(c.Year) + ")"
	}

	segs := []string{joinList(items, "and", false, false), year}
	switch c.Type {
	case model.CitationJournalArticle:
		src := c.Journal
		if c.Volume != "" {
			src = joinNonEmpty(", ", src, c.Volume)
			if c.Issue != "" {
				src += "(" + c.Issue + ")"
			}
		}
		segs = append(segs, "'"+c.Title+"',", terminate(joinNonEmpty(", ", src, prefixed("pp. ", c.Pages))))
	case model.CitationConferencePaper:
		segs = append(segs, "'"+c.Title+"',", terminate(joinNonEmpty(", ", prefixed("in ", c.Journal), c.Publisher, prefixed("pp. ", c.Pages))))
	case model.CitationWebsite:
		segs = append(segs, terminate(c.Title))
		if c.URL != "" {
			avail := "Available at: " + c.URL
			if at := accessed(c.AccessedAt, "2 January 2006"); at != "" {
				avail += " (Accessed: " + at + ")"
			}
			segs = append(segs, terminate(avail))
		}
	default:
		segs = append(segs, terminate(c.Title), terminate(c.Publisher))
	}
	if c.DOI != "" {
		segs = append(segs, "doi: "+c.DOI+".")
	}
	return joinSegments(segs)
}

func ieeeList(citations []model.Citation) string {
	var b strings.Builder
	for i, c := range citations {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, ieee(c))
	}
	return b.String()
}

func ieee(c model.Citation) string {
	names := parseNames(c.Authors)
	items := make([]string, 0, len(names))
	for _, n := range names {
		items = append(items, n.initialsFirst())
	}
	authors := joinList(items, "and", true, false)
	if len(items) > 6 {
		authors = items[0] + " et al."
	}
	year := ""
	if c.Year > 0 {
		year = strconv.Itoa(c.Year)
	}

	var head string
	if authors != "" {
		head = authors + ", "
	}
	switch c.Type {
	case model.CitationJournalArticle, model.CitationConferencePaper:
		container := c.Journal
		if c.Type == model.CitationConferencePaper && container != "" {
			container = "in " + container
		}
		tail := joinNonEmpty(", ", container, prefixed("vol. ", c.Volume), prefixed("no. ", c.Issue), prefixed("pp. ", c.Pages), year)
		if c.DOI != "" {
			tail = joinNonEmpty(", ", tail, "doi: "+c.DOI)
		}
		return head + "\"" + c.Title + ",\" " + terminate(tail)
	case model.CitationWebsite:
		out := joinSegments([]string{head + "\"" + c.Title + ".\"", terminate(joinNonEmpty(", ", c.Publisher, year))})
		if c.URL != "" {
			out += " [Online]. Available: " + c.URL
			if at := accessed(c.AccessedAt, "Jan. 2, 2006"); at != "" {
				out += " (accessed " + at + ")."
			}
		}
		return strings.TrimSpace(out)
	default:
		return strings.TrimSpace(head + terminate(c.Title) + " " + terminate(joinNonEmpty(", ", c.Publisher, year)))
	}
}

// titleSegment quotes the title for works contained in something larger.
func titleSegment(c model.Citation, open, close string) string {
	switch c.Type {
	case model.CitationJournalArticle, model.CitationConferencePaper, model.CitationWebsite:
		if c.Title == "" {
			return ""
		}
		return open + terminate(c.Title) + close
	default:
		return terminate(c.Title)
	}
}

func link(c model.Citation) string {
	if c.DOI != "" {
		return "https://doi.org/" + strings.TrimPrefix(c.DOI, "https://doi.org/")
	}
	return c.URL
}

// terminate ends s with a period unless it already ends in punctuation.
func terminate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch s[len(s)-1] {
	case '.', '?', '!':
		return s
	}
	return s + "."
}

func prefixed(prefix, s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return prefix + s
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func joinSegments(segs []string) string {
	return joinNonEmpty(" ", segs...)
}

func accessed(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(layout)
}

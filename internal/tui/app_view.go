package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fieldnotes/internal/biblio"
	"fieldnotes/internal/derive"
	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
)

var tabOrder = []struct {
	key   string
	label string
	view  nav.View
}{
	{"1", "Dashboard", nav.ViewDashboard},
	{"2", "Notes", nav.ViewNotes},
	{"3", "Projects", nav.ViewProjects},
	{"4", "Documents", nav.ViewDocuments},
	{"5", "Citations", nav.ViewCitations},
}

// tabFor maps detail views onto the tab they belong to.
func tabFor(v nav.View) nav.View {
	if p, ok := parentView[v]; ok {
		return p
	}
	return v
}

func (m appModel) View() string {
	var body string
	switch m.nav().View {
	case nav.ViewNotes:
		body = m.viewNotes()
	case nav.ViewProjects:
		body = m.viewProjects()
	case nav.ViewProject:
		body = m.viewProject()
	case nav.ViewProjectCreate:
		body = m.viewForm("New project")
	case nav.ViewDocuments:
		body = m.viewDocuments()
	case nav.ViewDocument:
		body = m.viewDocument()
	case nav.ViewDocumentUpload:
		body = m.viewForm("Add document")
	case nav.ViewCitations:
		body = m.viewCitations()
	case nav.ViewNote:
		body = m.viewNote()
	default:
		body = m.viewDashboard()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewTabs(), body, m.viewFooter())
}

func (m appModel) viewTabs() string {
	active := tabFor(m.nav().View)
	parts := make([]string, 0, len(tabOrder))
	for _, t := range tabOrder {
		label := t.key + " " + t.label
		if t.view == active {
			parts = append(parts, styleTabOn.Render(label))
		} else {
			parts = append(parts, styleTab.Render(label))
		}
	}
	return truncate(strings.Join(parts, ""), m.width) + "\n"
}

func (m appModel) viewFooter() string {
	if m.flash != "" {
		if m.flashErr {
			return "\n" + styleError.Render(truncate(m.flash, m.width))
		}
		return "\n" + truncate(m.flash, m.width)
	}
	var help string
	switch m.nav().View {
	case nav.ViewNotes:
		help = "enter open  / search  n new  e edit  s star  x delete  q quit"
	case nav.ViewProjects:
		help = "enter open  / search  c create  q quit"
	case nav.ViewDocuments:
		help = "enter open  a add  q quit"
	case nav.ViewNote:
		help = "↑/↓ scroll  e edit  y copy  s star  esc back  q quit"
	case nav.ViewCitations:
		help = "y copy  1-5 switch view  q quit"
	case nav.ViewProjectCreate, nav.ViewDocumentUpload:
		help = "enter save  esc cancel"
	default:
		help = "1-5 switch view  n new page  q quit"
	}
	return "\n" + styleMuted().Render(truncate(help, m.width))
}

// row renders one list line, highlighted when selected.
func (m appModel) row(i int, s string) string {
	s = truncate(s, m.width-2)
	if i == m.cursor {
		return styleSelected.Render(padRight("> "+s, m.width))
	}
	return "  " + s
}

func (m appModel) searchLine() string {
	if m.searching || m.search.Value() != "" {
		return m.search.View() + "\n"
	}
	return ""
}

func (m appModel) viewDashboard() string {
	d := derive.Dashboard(m.db, m.opts.Now())
	var b strings.Builder
	b.WriteString(styleTitle.Render("Dashboard") + "\n")
	c := d.Counts
	fmt.Fprintf(&b, "%d pages · %d projects · %d documents · %d citations\n",
		c.Pages, c.Projects, c.Documents, c.Citations)

	b.WriteString(styleSection.Render("Active projects") + "\n")
	if len(d.ActiveProjects) == 0 {
		b.WriteString(styleMuted().Render("  none") + "\n")
	}
	for _, p := range d.ActiveProjects {
		fmt.Fprintf(&b, "  %s %s %3.0f%%  %s\n",
			progressBar(p.Progress, 10), model.Label(p.Stage), p.Progress, truncate(p.Name, m.width-30))
	}

	if len(d.UpcomingDeadlines) > 0 {
		b.WriteString(styleSection.Render("Upcoming deadlines") + "\n")
		for _, p := range d.UpcomingDeadlines {
			b.WriteString("  " + urgencyStyle(p.Urgency).Render(deadlineLabel(p)) + "  " + truncate(p.Name, m.width-24) + "\n")
		}
	}

	if len(d.StarredPages) > 0 {
		b.WriteString(styleSection.Render("Starred") + "\n")
		for _, p := range d.StarredPages {
			b.WriteString("  " + styleStar.Render("★") + " " + truncate(p.Title, m.width-6) + "\n")
		}
	}

	b.WriteString(styleSection.Render("Recent pages") + "\n")
	for _, p := range d.RecentPages {
		b.WriteString("  " + truncate(p.Title, m.width-4) + "\n")
	}
	return b.String()
}

func deadlineLabel(p derive.ProjectSummary) string {
	if p.Deadline == nil {
		return ""
	}
	date := p.Deadline.Format("2006-01-02")
	if p.Urgency == derive.UrgencyOverdue {
		return date + " overdue"
	}
	if p.DaysLeft != nil {
		return fmt.Sprintf("%s in %dd", date, *p.DaysLeft)
	}
	return date
}

func (m appModel) viewNotes() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Notes") + "\n")
	b.WriteString(m.searchLine())
	pages := m.visiblePages()
	if len(pages) == 0 {
		b.WriteString(styleMuted().Render("  No pages") + "\n")
	}
	for i, p := range pages {
		star := "  "
		if p.IsStarred {
			star = "★ "
		}
		line := star + p.Title
		if len(p.Tags) > 0 {
			line += "  " + styleMuted().Render("#"+strings.Join(p.Tags, " #"))
		}
		b.WriteString(m.row(i, line) + "\n")
	}
	return b.String()
}

func (m appModel) viewProjects() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Projects") + "\n")
	b.WriteString(m.searchLine())
	projects := m.visibleProjects()
	if len(projects) == 0 {
		b.WriteString(styleMuted().Render("  No projects") + "\n")
	}
	now := m.opts.Now()
	for i, p := range projects {
		s := derive.SummarizeProject(p, m.db.Pages, now)
		line := fmt.Sprintf("%-12s %-12s %s", model.Label(p.Stage), model.Label(p.Status), p.Name)
		if s.Urgency != derive.UrgencyNone && s.Urgency != derive.UrgencyNormal {
			line += "  " + urgencyStyle(s.Urgency).Render(string(s.Urgency))
		}
		b.WriteString(m.row(i, line) + "\n")
	}
	return b.String()
}

func (m appModel) viewProject() string {
	p, ok := m.db.CurrentProject()
	if !ok {
		return styleError.Render("Project not found") + "\n"
	}
	s := derive.SummarizeProject(*p, m.db.Pages, m.opts.Now())

	var b strings.Builder
	b.WriteString(styleTitle.Render(p.Name) + "\n")
	if d := strings.TrimSpace(p.Description); d != "" {
		b.WriteString(styleMuted().Render(truncate(d, m.width)) + "\n")
	}
	fmt.Fprintf(&b, "%s  %s %3.0f%%  %s\n", model.Label(p.Status), progressBar(s.Progress, 20), s.Progress, model.Label(p.Stage))
	if label := deadlineLabel(s); label != "" {
		b.WriteString("Deadline: " + urgencyStyle(s.Urgency).Render(label) + "\n")
	}

	b.WriteString(styleSection.Render("Pages") + "\n")
	pages := m.projectPages()
	if len(pages) == 0 {
		b.WriteString(styleMuted().Render("  No pages") + "\n")
	}
	for i, pg := range pages {
		line := pg.Title
		if pg.FolderID != nil {
			if path := derive.FolderPath(m.db.Folders, *pg.FolderID); len(path) > 0 {
				line = strings.Join(path, "/") + "/" + line
			}
		}
		b.WriteString(m.row(i, line) + "\n")
	}

	if docs := derive.ProjectDocuments(m.db.Documents, p.ID); len(docs) > 0 {
		b.WriteString(styleSection.Render("Documents") + "\n")
		for _, d := range docs {
			b.WriteString("  " + truncate(d.Name, m.width-2) + "\n")
		}
	}
	if cites := derive.ProjectCitations(m.db.Citations, p.ID); len(cites) > 0 {
		fmt.Fprintf(&b, "\n%d citations\n", len(cites))
	}
	return b.String()
}

func (m appModel) viewDocuments() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Documents") + "\n")
	if len(m.db.Documents) == 0 {
		b.WriteString(styleMuted().Render("  No documents") + "\n")
	}
	for i, d := range m.db.Documents {
		line := fmt.Sprintf("%-8s %s", d.Type, d.Name)
		if n := len(d.Highlights); n > 0 {
			line += styleMuted().Render(fmt.Sprintf("  %d highlights", n))
		}
		b.WriteString(m.row(i, line) + "\n")
	}
	return b.String()
}

func (m appModel) viewDocument() string {
	d, ok := m.db.CurrentDocument()
	if !ok {
		return styleError.Render("Document not found") + "\n"
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(d.Name) + "\n")
	meta := []string{string(d.Type)}
	if d.SourcePath != "" {
		meta = append(meta, d.SourcePath)
	}
	if d.URL != "" {
		meta = append(meta, d.URL)
	}
	b.WriteString(styleMuted().Render(truncate(strings.Join(meta, " · "), m.width)) + "\n")

	b.WriteString(styleSection.Render("Highlights") + "\n")
	if len(d.Highlights) == 0 {
		b.WriteString(styleMuted().Render("  none") + "\n")
	}
	for _, h := range d.Highlights {
		loc := ""
		if h.Page > 0 {
			loc = fmt.Sprintf("p.%d ", h.Page)
		}
		b.WriteString("  " + truncate(loc+"“"+h.Text+"”", m.width-2) + "\n")
	}
	if len(d.Annotations) > 0 {
		b.WriteString(styleSection.Render("Annotations") + "\n")
		for _, a := range d.Annotations {
			b.WriteString("  " + truncate(a.Body, m.width-2) + "\n")
		}
	}
	return b.String()
}

func (m appModel) viewCitations() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Citations") + styleMuted().Render(" ("+strings.ToUpper(string(m.opts.CitationStyle))+")") + "\n")
	if len(m.db.Citations) == 0 {
		b.WriteString(styleMuted().Render("  No citations") + "\n")
	}
	for i, c := range m.db.Citations {
		line := c.Title
		if entry, err := biblio.Format([]model.Citation{c}, m.opts.CitationStyle); err == nil && m.opts.CitationStyle != model.StyleBibTeX {
			line = strings.TrimSpace(entry)
		}
		b.WriteString(m.row(i, line) + "\n")
	}
	return b.String()
}

func (m appModel) viewNote() string {
	p, ok := m.db.CurrentPage()
	if !ok {
		return styleError.Render("Page not found") + "\n"
	}
	title := p.Title
	if p.IsStarred {
		title = styleStar.Render("★ ") + title
	}
	meta := fmt.Sprintf("v%d · updated %s", p.Version, p.UpdatedAt.Format("2006-01-02 15:04"))
	return styleTitle.Render(title) + "\n" + styleMuted().Render(meta) + "\n" + m.note.View()
}

func (m appModel) viewForm(title string) string {
	return styleTitle.Render(title) + "\n\n" + m.form.View() + "\n"
}

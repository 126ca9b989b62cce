package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fieldnotes/internal/biblio"
	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
	"fieldnotes/internal/publish"
	"fieldnotes/internal/workspace"
)

// Number keys switch between the top-level views.
var tabViews = map[string]nav.View{
	"1": nav.ViewDashboard,
	"2": nav.ViewNotes,
	"3": nav.ViewProjects,
	"4": nav.ViewDocuments,
	"5": nav.ViewCitations,
}

// parentView is where esc goes from a detail or form view.
var parentView = map[nav.View]nav.View{
	nav.ViewNote:           nav.ViewNotes,
	nav.ViewProject:        nav.ViewProjects,
	nav.ViewProjectCreate:  nav.ViewProjects,
	nav.ViewDocument:       nav.ViewDocuments,
	nav.ViewDocumentUpload: nav.ViewDocuments,
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil
	case editorDoneMsg:
		return m, m.applyEditorResult(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	view := m.nav().View
	switch {
	case m.searching:
		return m.updateSearch(msg)
	case view == nav.ViewProjectCreate || view == nav.ViewDocumentUpload:
		return m.updateForm(msg)
	}

	key := msg.String()
	if v, ok := tabViews[key]; ok {
		return m, m.navigate(v, "")
	}
	switch key {
	case "q":
		return m, tea.Quit
	case "esc":
		if parent, ok := parentView[view]; ok {
			return m, m.navigate(parent, "")
		}
		return m, nil
	case "n":
		return m, m.newPage()
	}

	switch view {
	case nav.ViewNotes:
		return m.updateNotes(msg)
	case nav.ViewProjects:
		return m.updateProjects(msg)
	case nav.ViewProject:
		return m.updateProject(msg)
	case nav.ViewDocuments:
		return m.updateDocuments(msg)
	case nav.ViewCitations:
		return m.updateCitations(msg)
	case nav.ViewNote:
		return m.updateNote(msg)
	}
	return m, nil
}

// updateList handles cursor movement shared by every list view.
func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = m.rowCount() - 1
		m.clampCursor()
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.cursor = 0
		return m, nil
	case "enter":
		// Keep the filter, go back to moving the cursor.
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m appModel) startSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	return m, m.search.Focus()
}

func (m appModel) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pages := m.visiblePages()
	switch msg.String() {
	case "/":
		return m.startSearch()
	case "enter":
		if m.cursor < len(pages) {
			return m, m.navigate(nav.ViewNote, pages[m.cursor].ID)
		}
		return m, nil
	case "s":
		if m.cursor < len(pages) {
			return m, m.toggleStar(pages[m.cursor].ID)
		}
		return m, nil
	case "x":
		if m.cursor < len(pages) {
			return m, m.deletePage(pages[m.cursor].ID)
		}
		return m, nil
	case "e":
		if m.cursor < len(pages) {
			return m, m.editPage(pages[m.cursor].ID)
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m appModel) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	projects := m.visibleProjects()
	switch msg.String() {
	case "/":
		return m.startSearch()
	case "c":
		return m, m.navigate(nav.ViewProjectCreate, "")
	case "enter":
		if m.cursor < len(projects) {
			return m, m.navigate(nav.ViewProject, projects[m.cursor].ID)
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m appModel) updateProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		pages := m.projectPages()
		if m.cursor < len(pages) {
			return m, m.navigate(nav.ViewNote, pages[m.cursor].ID)
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m appModel) updateDocuments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return m, m.navigate(nav.ViewDocumentUpload, "")
	case "enter":
		if m.cursor < len(m.db.Documents) {
			return m, m.navigate(nav.ViewDocument, m.db.Documents[m.cursor].ID)
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m appModel) updateCitations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" {
		if m.cursor < len(m.db.Citations) {
			return m, m.copyCitation(m.db.Citations[m.cursor])
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m appModel) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if p, ok := m.db.CurrentPage(); ok {
		switch msg.String() {
		case "s":
			return m, m.toggleStar(p.ID)
		case "e":
			return m, m.editPage(p.ID)
		case "y":
			return m, m.copyPage(p.ID)
		}
	}
	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.nav().View
	switch msg.String() {
	case "esc":
		return m, m.navigate(parentView[view], "")
	case "enter":
		value := strings.TrimSpace(m.form.Value())
		if value == "" {
			return m, nil
		}
		if view == nav.ViewProjectCreate {
			return m, m.createProject(value)
		}
		return m, m.addDocument(value)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// Mutations. Errors are shown in the footer; the workspace state is unchanged on error.

func (m *appModel) newPage() tea.Cmd {
	p, err := m.ws.CreatePage(m.ctx, workspace.PageInput{})
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	m.refresh()
	m.enterView()
	return m.setFlash("Created "+p.Title, false)
}

func (m *appModel) toggleStar(id string) tea.Cmd {
	p, err := m.ws.ToggleStar(m.ctx, id)
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	m.refresh()
	if p.IsStarred {
		return m.setFlash("Starred "+p.Title, false)
	}
	return m.setFlash("Unstarred "+p.Title, false)
}

func (m *appModel) deletePage(id string) tea.Cmd {
	if err := m.ws.DeletePage(m.ctx, id); err != nil {
		return m.setFlash(err.Error(), true)
	}
	m.refresh()
	return m.setFlash("Deleted page", false)
}

func (m *appModel) copyPage(id string) tea.Cmd {
	md, err := publish.RenderPageMarkdown(m.db, id)
	if err == nil {
		err = copyToClipboard(md)
	}
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	return m.setFlash("Copied page as markdown", false)
}

func (m *appModel) copyCitation(c model.Citation) tea.Cmd {
	entry, err := biblio.Format([]model.Citation{c}, m.opts.CitationStyle)
	if err == nil {
		err = copyToClipboard(strings.TrimSpace(entry))
	}
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	return m.setFlash("Copied "+strings.ToUpper(string(m.opts.CitationStyle))+" citation", false)
}

func (m *appModel) createProject(name string) tea.Cmd {
	p, err := m.ws.CreateProject(m.ctx, workspace.ProjectInput{Name: name})
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	if cmd := m.navigate(nav.ViewProject, p.ID); cmd != nil {
		return cmd
	}
	return m.setFlash("Created project "+p.Name, false)
}

func (m *appModel) addDocument(path string) tea.Cmd {
	abs, err := filepath.Abs(path)
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	st, err := os.Stat(abs)
	if err == nil && st.IsDir() {
		err = errors.New("not a file: " + abs)
	}
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	d, err := m.ws.AddDocument(m.ctx, workspace.DocumentInput{SourcePath: abs, Size: st.Size()})
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	if cmd := m.navigate(nav.ViewDocument, d.ID); cmd != nil {
		return cmd
	}
	return m.setFlash("Added "+d.Name, false)
}

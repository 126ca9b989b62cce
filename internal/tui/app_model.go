package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
	"fieldnotes/internal/store"
	"fieldnotes/internal/workspace"
)

type Options struct {
	// MarkdownStyle is a glamour standard style, or "auto".
	MarkdownStyle string
	// CitationStyle formats entries in the citations view.
	CitationStyle model.CitationStyle
	Now           func() time.Time
}

type flashDoneMsg struct{ seq int }

const flashDuration = 4 * time.Second

type appModel struct {
	ctx  context.Context
	ws   *workspace.Workspace
	db   *store.DB
	opts Options

	width  int
	height int

	// Selected row in the current list view.
	cursor int

	search    textinput.Model
	searching bool
	// form is the single-line input of the project-create and document-upload views.
	form textinput.Model

	note viewport.Model

	flash    string
	flashErr bool
	flashSeq int
}

func newAppModel(ctx context.Context, ws *workspace.Workspace, opts Options) appModel {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.CitationStyle == "" {
		opts.CitationStyle = model.StyleAPA
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 200

	form := textinput.New()
	form.CharLimit = 500

	m := appModel{
		ctx:    ctx,
		ws:     ws,
		db:     ws.Snapshot(),
		opts:   opts,
		width:  80,
		height: 24,
		search: search,
		form:   form,
		note:   viewport.New(80, 20),
	}
	m.enterView()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) nav() nav.State { return m.db.Nav }

// refresh re-reads the workspace after a mutation.
func (m *appModel) refresh() {
	m.db = m.ws.Snapshot()
	m.clampCursor()
}

// navigate persists a view change and resets per-view state.
func (m *appModel) navigate(view nav.View, id string) tea.Cmd {
	if _, err := m.ws.Navigate(m.ctx, view, id); err != nil {
		return m.setFlash(err.Error(), true)
	}
	m.db = m.ws.Snapshot()
	m.cursor = 0
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	m.enterView()
	return nil
}

// enterView prepares the widgets used by the current view.
func (m *appModel) enterView() {
	switch m.nav().View {
	case nav.ViewProjectCreate:
		m.form.SetValue("")
		m.form.Prompt = "Name: "
		m.form.Placeholder = "project name"
		m.form.Focus()
	case nav.ViewDocumentUpload:
		m.form.SetValue("")
		m.form.Prompt = "Path: "
		m.form.Placeholder = "path to a local file"
		m.form.Focus()
	case nav.ViewNote:
		m.form.Blur()
		m.syncNote()
	default:
		m.form.Blur()
	}
}

func (m *appModel) resize(w, h int) {
	m.width, m.height = w, h
	m.note.Width = w
	// Header, tabs, title and footer.
	m.note.Height = max(h-6, 3)
	if m.nav().View == nav.ViewNote {
		m.syncNote()
	}
}

// syncNote renders the current page into the note viewport.
func (m *appModel) syncNote() {
	p, ok := m.db.CurrentPage()
	if !ok {
		m.note.SetContent("")
		return
	}
	m.note.SetContent(renderMarkdown(p.Content, m.opts.MarkdownStyle, m.width-2))
	m.note.GotoTop()
}

func (m *appModel) setFlash(s string, isErr bool) tea.Cmd {
	m.flash = s
	m.flashErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// Rows of the list views, filtered by the search box.

func (m appModel) visiblePages() []model.Page {
	q := derive.PageQuery{Query: m.search.Value()}
	return derive.SortPages(derive.FilterPages(m.db.Pages, q), derive.PageSortUpdated)
}

func (m appModel) visibleProjects() []model.Project {
	return derive.SortProjects(derive.FilterProjects(m.db.Projects, m.search.Value(), derive.All, derive.All), derive.SortUpdated)
}

func (m appModel) projectPages() []model.Page {
	p, ok := m.db.CurrentProject()
	if !ok {
		return nil
	}
	return derive.ProjectPages(m.db.Pages, p.ID)
}

func (m appModel) rowCount() int {
	switch m.nav().View {
	case nav.ViewNotes:
		return len(m.visiblePages())
	case nav.ViewProjects:
		return len(m.visibleProjects())
	case nav.ViewProject:
		return len(m.projectPages())
	case nav.ViewDocuments:
		return len(m.db.Documents)
	case nav.ViewCitations:
		return len(m.db.Citations)
	default:
		return 0
	}
}

func (m *appModel) clampCursor() {
	n := m.rowCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

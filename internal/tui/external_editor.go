package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fieldnotes/internal/nav"
	"fieldnotes/internal/workspace"
)

type editorDoneMsg struct {
	pageID string
	path   string
	before string
	err    error
}

func editorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// editPage suspends the TUI and opens the page content in $VISUAL / $EDITOR.
func (m *appModel) editPage(id string) tea.Cmd {
	p, ok := m.db.FindPage(id)
	if !ok {
		return m.setFlash("Page not found", true)
	}
	args := splitShellWords(editorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "fieldnotes-*.md")
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	path := f.Name()
	if _, err := f.WriteString(p.Content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return m.setFlash(err.Error(), true)
	}
	_ = f.Close()

	done := editorDoneMsg{pageID: p.ID, path: path, before: p.Content}
	c := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		done.err = err
		return done
	})
}

// applyEditorResult saves the edited file back into the page. Unchanged content is not
// saved, so no version is recorded.
func (m *appModel) applyEditorResult(msg editorDoneMsg) tea.Cmd {
	defer func() { _ = os.Remove(msg.path) }()

	if msg.err != nil {
		return m.setFlash("Editor failed: "+msg.err.Error(), true)
	}
	b, err := os.ReadFile(msg.path)
	if err != nil {
		return m.setFlash("Editor read failed: "+err.Error(), true)
	}
	after := string(b)
	if strings.TrimSpace(after) == strings.TrimSpace(msg.before) {
		return m.setFlash(fmt.Sprintf("No changes from %s", editorName()), false)
	}

	p, err := m.ws.UpdatePage(m.ctx, msg.pageID, workspace.PagePatch{Content: &after})
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	m.refresh()
	if m.nav().View == nav.ViewNote {
		m.syncNote()
	}
	return m.setFlash(fmt.Sprintf("Saved %s (v%d)", p.Title, p.Version), false)
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"fieldnotes/internal/workspace"
)

// Run starts the interactive browser on ws and blocks until the user quits.
func Run(ctx context.Context, ws *workspace.Workspace, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(ctx, ws, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

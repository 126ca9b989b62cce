package cli

import (
	"github.com/spf13/cobra"

	"fieldnotes/internal/model"
	"fieldnotes/internal/tui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	w, _, err := openWorkspace(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	style, err := model.ParseCitationStyle(app.Config.Citations.Style)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), w, tui.Options{
		MarkdownStyle: app.Config.TUI.MarkdownStyle,
		CitationStyle: style,
	})
}

package cli

import (
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace (default: ./.fieldnotes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Opening seeds and saves an empty workspace.
			w, s, err := openWorkspaceAt(cmd, dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			db := w.Snapshot()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        dir,
					"sqlitePath": s.SQLitePath(),
					"pages":      len(db.Pages),
					"projects":   len(db.Projects),
				},
			})
		},
	}
	return cmd
}

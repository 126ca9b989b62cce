package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"fieldnotes/internal/model"
	"fieldnotes/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir, style string
	var html, overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export derived Markdown/HTML artifacts (not canonical)",
	}

	projectCmd := &cobra.Command{
		Use:   "project <project-id>",
		Short: "Publish a project's pages, index and bibliography",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			if !cmd.Flags().Changed("style") {
				style = app.Config.Citations.Style
			}
			st, err := model.ParseCitationStyle(style)
			if err != nil {
				return writeErr(cmd, err)
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteProject(w.Snapshot(), args[0], toDir, publish.WriteOptions{
				HTML:      html,
				Overwrite: overwrite,
				Style:     st,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	projectCmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	projectCmd.Flags().BoolVar(&html, "html", false, "Write HTML instead of markdown")
	projectCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	projectCmd.Flags().StringVar(&style, "style", "apa", "Bibliography style (default from config)")

	cmd.AddCommand(projectCmd)
	return cmd
}

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/workspace"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Project folder commands",
	}
	cmd.AddCommand(newFoldersCreateCmd(app))
	cmd.AddCommand(newFoldersRenameCmd(app))
	cmd.AddCommand(newFoldersMoveCmd(app))
	cmd.AddCommand(newFoldersDeleteCmd(app))
	cmd.AddCommand(newFoldersTreeCmd(app))
	return cmd
}

func newFoldersCreateCmd(app *App) *cobra.Command {
	var name, projectID, parentID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder (in the current project unless --project is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := w.CreateFolder(cmd.Context(), workspace.FolderInput{
				Name:      name,
				ProjectID: projectID,
				ParentID:  optionalFlag(cmd, "parent", parentID),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Folder name")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent folder id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoldersRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <folder-id>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := w.RenameFolder(cmd.Context(), args[0], name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoldersMoveCmd(app *App) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "move <folder-id>",
		Short: "Move a folder under another folder (no --parent: project root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := w.MoveFolder(cmd.Context(), args[0], parentID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "New parent folder id")
	return cmd
}

func newFoldersDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder and its subfolders (pages stay in the project)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := w.DeleteFolder(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

func newFoldersTreeCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a project's folder tree with its pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db := w.Snapshot()
			projectID = strings.TrimSpace(projectID)
			if projectID == "" {
				cur, ok := db.CurrentProject()
				if !ok {
					return writeErr(cmd, errors.New("missing --project (no project selected)"))
				}
				projectID = cur.ID
			}
			if _, ok := db.FindProject(projectID); !ok {
				return writeErr(cmd, &workspace.NotFoundError{Kind: "project", ID: projectID})
			}
			return writeOut(cmd, app, map[string]any{"data": derive.BuildProjectTree(db.Folders, db.Pages, projectID)})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: current project)")
	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/publish"
	"fieldnotes/internal/workspace"
)

func newPagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pages",
		Aliases: []string{"page", "notes"},
		Short:   "Page (note) commands",
	}
	cmd.AddCommand(newPagesCreateCmd(app))
	cmd.AddCommand(newPagesClipCmd(app))
	cmd.AddCommand(newPagesListCmd(app))
	cmd.AddCommand(newPagesShowCmd(app))
	cmd.AddCommand(newPagesUpdateCmd(app))
	cmd.AddCommand(newPagesFileCmd(app))
	cmd.AddCommand(newPagesDeleteCmd(app))
	cmd.AddCommand(newPagesStarCmd(app))
	cmd.AddCommand(newPagesVersionsCmd(app))
	cmd.AddCommand(newPagesRestoreCmd(app))
	cmd.AddCommand(newPagesExportCmd(app))
	return cmd
}

func newPagesCreateCmd(app *App) *cobra.Command {
	var title, content, projectID, folderID string
	var tags, fields []string
	var starred bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a page (filed under the current project unless --project is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := parseFields(fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.CreatePage(cmd.Context(), workspace.PageInput{
				Title:        title,
				Content:      content,
				IsStarred:    starred,
				ProjectID:    optionalFlag(cmd, "project", projectID),
				FolderID:     optionalFlag(cmd, "folder", folderID),
				Tags:         tags,
				CustomFields: custom,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Page title (default: Untitled)")
	cmd.Flags().StringVar(&content, "content", "", "Page content (markdown)")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (empty string for no project)")
	cmd.Flags().StringVar(&folderID, "folder", "", "Folder id")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Custom field key=value (repeatable)")
	cmd.Flags().BoolVar(&starred, "star", false, "Star the page")
	return cmd
}

func newPagesClipCmd(app *App) *cobra.Command {
	var title, content, url string

	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Save a web clip as a page tagged web-clip",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.ClipPage(cmd.Context(), title, content, url)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().StringVar(&content, "content", "", "Clipped content")
	cmd.Flags().StringVar(&url, "url", "", "Source URL")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newPagesListCmd(app *App) *cobra.Command {
	var q derive.PageQuery
	var sortKey string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := derive.ParsePageSortKey(sortKey)
			if err != nil {
				return writeErr(cmd, err)
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pages := derive.SortPages(derive.FilterPages(w.Snapshot().Pages, q), key)
			if limit > 0 && len(pages) > limit {
				pages = pages[:limit]
			}
			return writeOut(cmd, app, map[string]any{"data": pages})
		},
	}

	cmd.Flags().StringVar(&q.Query, "query", "", "Case-insensitive text match on title, content and tags")
	cmd.Flags().StringVar(&q.Tag, "tag", "", "Only pages with this tag")
	cmd.Flags().BoolVar(&q.Starred, "starred", false, "Only starred pages")
	cmd.Flags().StringVar(&q.ProjectID, "project", "", "Only pages in this project")
	cmd.Flags().StringVar(&q.FolderID, "folder", "", "Only pages in this folder")
	cmd.Flags().StringVar(&sortKey, "sort", "updated", "Sort key (updated|created|title)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max pages to return (0 = all)")
	return cmd
}

func newPagesShowCmd(app *App) *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "show <page-id>",
		Short: "Show a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db := w.Snapshot()
			p, ok := db.FindPage(args[0])
			if !ok {
				return writeErr(cmd, &workspace.NotFoundError{Kind: "page", ID: args[0]})
			}
			if !render {
				return writeOut(cmd, app, map[string]any{"data": p})
			}
			md, err := publish.RenderPageMarkdown(db, p.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			out, err := glamour.Render(md, app.Config.TUI.MarkdownStyle)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render the page as styled terminal markdown instead of JSON")
	return cmd
}

func newPagesUpdateCmd(app *App) *cobra.Command {
	var title, content, projectID, folderID string
	var tags, fields, unset []string

	cmd := &cobra.Command{
		Use:   "update <page-id>",
		Short: "Update a page (title/content edits are versioned)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := parseFields(fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, k := range unset {
				if custom == nil {
					custom = map[string]any{}
				}
				custom[strings.TrimSpace(k)] = nil
			}
			patch := workspace.PagePatch{
				ProjectID:    optionalFlag(cmd, "project", projectID),
				FolderID:     optionalFlag(cmd, "folder", folderID),
				CustomFields: custom,
			}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = &tags
			}

			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.UpdatePage(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&projectID, "project", "", "Move to project (empty string to unfile)")
	cmd.Flags().StringVar(&folderID, "folder", "", "Move to folder (empty string for project root)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replace tags (repeatable)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Set custom field key=value (repeatable)")
	cmd.Flags().StringArrayVar(&unset, "unset-field", nil, "Remove custom field (repeatable)")
	return cmd
}

func newPagesFileCmd(app *App) *cobra.Command {
	var projectID, folderID string

	cmd := &cobra.Command{
		Use:   "file <page-id>",
		Short: "File a page under a project and/or folder (no flags: unfile)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.FilePage(cmd.Context(), args[0], projectID, folderID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&folderID, "folder", "", "Folder id (implies its project)")
	return cmd
}

func newPagesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <page-id>",
		Short: "Delete a page (the last page cannot be deleted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := w.DeletePage(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": args[0], "nav": w.Nav()},
			})
		},
	}
	return cmd
}

func newPagesStarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "star <page-id>",
		Short: "Toggle the star on a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.ToggleStar(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	return cmd
}

func newPagesVersionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions <page-id>",
		Short: "List the saved versions of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := w.Snapshot().FindPage(args[0])
			if !ok {
				return writeErr(cmd, &workspace.NotFoundError{Kind: "page", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": p.ID, "version": p.Version, "versions": p.Versions},
			})
		},
	}
	return cmd
}

func newPagesRestoreCmd(app *App) *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "restore <page-id>",
		Short: "Restore an older version (the current one is kept as a new version)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.RestorePageVersion(cmd.Context(), args[0], version)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "Version number to restore")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

func newPagesExportCmd(app *App) *cobra.Command {
	var html, overwrite bool
	var to string

	cmd := &cobra.Command{
		Use:   "export <page-id>",
		Short: "Export a page as markdown (or HTML) to stdout or --to <file>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db := w.Snapshot()
			var out string
			if html {
				out, err = publish.RenderPageHTML(db, args[0])
			} else {
				out, err = publish.RenderPageMarkdown(db, args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			to = strings.TrimSpace(to)
			if to == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if !overwrite {
				if _, err := os.Stat(to); err == nil {
					return writeErr(cmd, errors.New("file exists (use --overwrite): "+to))
				}
			}
			if err := os.WriteFile(to, []byte(out), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": publish.WriteResult{Written: []string{to}}})
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Export HTML instead of markdown")
	cmd.Flags().StringVar(&to, "to", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}

// parseFields turns key=value pairs into a custom field map. Values stay strings.
func parseFields(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --field %q (expected key=value)", kv)
		}
		out[k] = v
	}
	return out, nil
}

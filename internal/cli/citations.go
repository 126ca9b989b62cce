package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/model"
	"fieldnotes/internal/workspace"
)

// citationFlags are shared by create and update.
type citationFlags struct {
	citationType, title, publisher, journal, volume, issue, pages, doi, url, accessed, projectID string
	authors, tags                                                                                []string
	year                                                                                         int
}

func (f *citationFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.citationType, "type", "", "Type (book|journal_article|website|conference_paper|thesis|report)")
	fs.StringVar(&f.title, "title", "", "Title")
	// StringArray: author names contain commas ("Last, First").
	fs.StringArrayVar(&f.authors, "author", nil, `Author as "Last, First" (repeatable, in order)`)
	fs.IntVar(&f.year, "year", 0, "Publication year")
	fs.StringVar(&f.publisher, "publisher", "", "Publisher (or school / institution)")
	fs.StringVar(&f.journal, "journal", "", "Journal (or proceedings / site name)")
	fs.StringVar(&f.volume, "volume", "", "Volume")
	fs.StringVar(&f.issue, "issue", "", "Issue")
	fs.StringVar(&f.pages, "pages", "", "Page range")
	fs.StringVar(&f.doi, "doi", "", "DOI")
	fs.StringVar(&f.url, "url", "", "URL")
	fs.StringVar(&f.accessed, "accessed", "", "Access date for online sources")
	fs.StringVar(&f.projectID, "project", "", "Project id")
	fs.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
}

func newCitationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "citations",
		Aliases: []string{"citation", "cite"},
		Short:   "Citation commands",
	}
	cmd.AddCommand(newCitationsCreateCmd(app))
	cmd.AddCommand(newCitationsListCmd(app))
	cmd.AddCommand(newCitationsShowCmd(app))
	cmd.AddCommand(newCitationsUpdateCmd(app))
	cmd.AddCommand(newCitationsDeleteCmd(app))
	cmd.AddCommand(newCitationsExportCmd(app))
	return cmd
}

func newCitationsCreateCmd(app *App) *cobra.Command {
	var f citationFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a citation (in the current project unless --project is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			accessed, err := optionalTime(cmd.Flags().Changed("accessed"), f.accessed)
			if err != nil {
				return writeErr(cmd, err)
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := w.CreateCitation(cmd.Context(), workspace.CitationInput{
				Type:       model.CitationType(strings.TrimSpace(f.citationType)),
				Title:      f.title,
				Authors:    f.authors,
				Year:       f.year,
				Publisher:  f.publisher,
				Journal:    f.journal,
				Volume:     f.volume,
				Issue:      f.issue,
				Pages:      f.pages,
				DOI:        f.doi,
				URL:        f.url,
				AccessedAt: accessed,
				ProjectID:  optionalFlag(cmd, "project", f.projectID),
				Tags:       f.tags,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCitationsListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List citations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cites := w.Snapshot().Citations
			if p := strings.TrimSpace(projectID); p != "" {
				cites = derive.ProjectCitations(cites, p)
			}
			return writeOut(cmd, app, map[string]any{"data": cites})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Only citations in this project")
	return cmd
}

func newCitationsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <citation-id>",
		Short: "Show a citation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, ok := w.Snapshot().FindCitation(args[0])
			if !ok {
				return writeErr(cmd, &workspace.NotFoundError{Kind: "citation", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	return cmd
}

func newCitationsUpdateCmd(app *App) *cobra.Command {
	var f citationFlags

	cmd := &cobra.Command{
		Use:   "update <citation-id>",
		Short: "Update a citation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			accessed, err := optionalTime(fs.Changed("accessed"), f.accessed)
			if err != nil {
				return writeErr(cmd, err)
			}
			patch := workspace.CitationPatch{
				AccessedAt: accessed,
				ProjectID:  optionalFlag(cmd, "project", f.projectID),
			}
			if fs.Changed("type") {
				v := model.CitationType(strings.TrimSpace(f.citationType))
				patch.Type = &v
			}
			if fs.Changed("author") {
				patch.Authors = &f.authors
			}
			if fs.Changed("year") {
				patch.Year = &f.year
			}
			if fs.Changed("tag") {
				patch.Tags = &f.tags
			}
			for name, dst := range map[string]**string{
				"title":     &patch.Title,
				"publisher": &patch.Publisher,
				"journal":   &patch.Journal,
				"volume":    &patch.Volume,
				"issue":     &patch.Issue,
				"pages":     &patch.Pages,
				"doi":       &patch.DOI,
				"url":       &patch.URL,
			} {
				if fs.Changed(name) {
					v, _ := fs.GetString(name)
					*dst = &v
				}
			}

			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := w.UpdateCitation(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	f.register(cmd)
	return cmd
}

func newCitationsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <citation-id>",
		Short: "Delete a citation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := w.DeleteCitation(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

func newCitationsExportCmd(app *App) *cobra.Command {
	var style, projectID string

	cmd := &cobra.Command{
		Use:   "export [citation-id...]",
		Short: "Print a bibliography (all citations, a project's, or the given ids in order)",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			ids := args
			if p := strings.TrimSpace(projectID); p != "" && len(ids) == 0 {
				for _, c := range derive.ProjectCitations(w.Snapshot().Citations, p) {
					ids = append(ids, c.ID)
				}
				if len(ids) == 0 {
					return nil
				}
			}
			out, err := w.ExportBibliography(ids, st)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", "apa", "Citation style (apa|mla|chicago|harvard|ieee|bibtex; default from config)")
	cmd.Flags().StringVar(&projectID, "project", "", "Only citations in this project")
	return cmd
}

package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fieldnotes/internal/model"
	"fieldnotes/internal/workspace"
)

func newDocumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"document", "docs"},
		Short:   "Reference document commands",
	}
	cmd.AddCommand(newDocumentsAddCmd(app))
	cmd.AddCommand(newDocumentsListCmd(app))
	cmd.AddCommand(newDocumentsShowCmd(app))
	cmd.AddCommand(newDocumentsUpdateCmd(app))
	cmd.AddCommand(newDocumentsDeleteCmd(app))
	cmd.AddCommand(newDocumentsHighlightCmd(app))
	cmd.AddCommand(newDocumentsAnnotateCmd(app))
	return cmd
}

func newDocumentsAddCmd(app *App) *cobra.Command {
	var name, docType, url, projectID string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add [path]",
		Short: "Register a reference document (a local file and/or a URL)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := workspace.DocumentInput{
				Name:      name,
				Type:      model.DocumentType(strings.TrimSpace(docType)),
				URL:       url,
				ProjectID: optionalFlag(cmd, "project", projectID),
				Tags:      tags,
			}
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				st, err := os.Stat(abs)
				if err != nil {
					return writeErr(cmd, err)
				}
				if st.IsDir() {
					return writeErr(cmd, errors.New("not a file: "+abs))
				}
				in.SourcePath = abs
				in.Size = st.Size()
			} else if strings.TrimSpace(url) == "" {
				return writeErr(cmd, errors.New("missing path or --url"))
			}

			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, err := w.AddDocument(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default: file name)")
	cmd.Flags().StringVar(&docType, "type", "", "Type (pdf|docx|txt|html|markdown|image|other; default: from extension)")
	cmd.Flags().StringVar(&url, "url", "", "Source URL")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newDocumentsListCmd(app *App) *cobra.Command {
	var projectID, docType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID = strings.TrimSpace(projectID)
			docType = strings.TrimSpace(docType)
			out := []model.Document{}
			for _, d := range w.Snapshot().Documents {
				if projectID != "" && (d.ProjectID == nil || *d.ProjectID != projectID) {
					continue
				}
				if docType != "" && string(d.Type) != docType {
					continue
				}
				out = append(out, d)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Only documents in this project")
	cmd.Flags().StringVar(&docType, "type", "", "Only documents of this type")
	return cmd
}

func newDocumentsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show a document with its highlights and annotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, ok := w.Snapshot().FindDocument(args[0])
			if !ok {
				return writeErr(cmd, &workspace.NotFoundError{Kind: "document", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
	return cmd
}

func newDocumentsUpdateCmd(app *App) *cobra.Command {
	var name, docType, url, projectID string
	var tags []string

	cmd := &cobra.Command{
		Use:   "update <document-id>",
		Short: "Update document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			patch := workspace.DocumentPatch{ProjectID: optionalFlag(cmd, "project", projectID)}
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("type") {
				v := model.DocumentType(strings.TrimSpace(docType))
				patch.Type = &v
			}
			if f.Changed("url") {
				patch.URL = &url
			}
			if f.Changed("tag") {
				patch.Tags = &tags
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, err := w.UpdateDocument(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&docType, "type", "", "New type")
	cmd.Flags().StringVar(&url, "url", "", "New URL")
	cmd.Flags().StringVar(&projectID, "project", "", "Move to project (empty string to unfile)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replace tags (repeatable)")
	return cmd
}

func newDocumentsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := w.DeleteDocument(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

func newDocumentsHighlightCmd(app *App) *cobra.Command {
	var in workspace.HighlightInput

	cmd := &cobra.Command{
		Use:   "highlight <document-id>",
		Short: "Add a highlight to a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			h, err := w.AddHighlight(cmd.Context(), args[0], in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": h})
		},
	}

	cmd.Flags().StringVar(&in.Text, "text", "", "Highlighted text")
	cmd.Flags().IntVar(&in.Page, "page", 0, "Page number in the document")
	cmd.Flags().StringVar(&in.Color, "color", "", "Highlight color (default: yellow)")
	cmd.Flags().StringVar(&in.Note, "note", "", "Short note")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newDocumentsAnnotateCmd(app *App) *cobra.Command {
	var body, highlightID string
	var page int

	cmd := &cobra.Command{
		Use:   "annotate <document-id>",
		Short: "Add an annotation to a document (optionally attached to a highlight)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := w.AddAnnotation(cmd.Context(), args[0], workspace.AnnotationInput{
				Body:        body,
				HighlightID: optionalFlag(cmd, "highlight", highlightID),
				Page:        page,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Annotation text")
	cmd.Flags().StringVar(&highlightID, "highlight", "", "Highlight id")
	cmd.Flags().IntVar(&page, "page", 0, "Page number in the document")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/model"
	"fieldnotes/internal/workspace"
)

// projectRow is a project plus the fields derived from it at read time.
type projectRow struct {
	model.Project
	Progress float64        `json:"progress"`
	Urgency  derive.Urgency `json:"urgency"`
	DaysLeft *int           `json:"daysLeft,omitempty"`
}

func newProjectRow(p model.Project, now time.Time) projectRow {
	row := projectRow{Project: p, Urgency: derive.ProjectUrgency(p, now)}
	// Unknown stages (hand-edited state) show as 0%.
	row.Progress, _ = derive.StageProgress(p.Stage)
	if p.Deadline != nil {
		d := derive.DaysUntil(*p.Deadline, now)
		row.DaysLeft = &d
	}
	return row
}

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var name, description, stage, status, template, deadline string
	var tags, fields []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := optionalTime(cmd.Flags().Changed("deadline"), deadline)
			if err != nil {
				return writeErr(cmd, err)
			}
			custom, err := parseFields(fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.CreateProject(cmd.Context(), workspace.ProjectInput{
				Name:         name,
				Description:  description,
				Stage:        model.ProjectStage(stage),
				Status:       model.ProjectStatus(status),
				Template:     model.ProjectTemplate(template),
				Deadline:     due,
				Tags:         tags,
				CustomFields: custom,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newProjectRow(p, time.Now().UTC())})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&stage, "stage", "", "Stage (ideation|research|analysis|writing|review|published)")
	cmd.Flags().StringVar(&status, "status", "", "Status (in_progress|on_hold|needs_review|completed|archived)")
	cmd.Flags().StringVar(&template, "template", "", "Template (general|literature_review|thesis|grant_proposal|journal_article)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Custom field key=value (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var query, status, stage, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := derive.ParseSortKey(sortKey)
			if err != nil {
				return writeErr(cmd, err)
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			now := time.Now().UTC()
			projects := derive.SortProjects(derive.FilterProjects(w.Snapshot().Projects, query, status, stage), key)
			rows := make([]projectRow, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, newProjectRow(p, now))
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Case-insensitive match on name, description and tags")
	cmd.Flags().StringVar(&status, "status", derive.All, "Status filter (or all)")
	cmd.Flags().StringVar(&stage, "stage", derive.All, "Stage filter (or all)")
	cmd.Flags().StringVar(&sortKey, "sort", "updated", "Sort key (updated|created|name|deadline)")
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its folder tree, documents and citations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db := w.Snapshot()
			p, ok := db.FindProject(args[0])
			if !ok {
				return writeErr(cmd, &workspace.NotFoundError{Kind: "project", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"project":   newProjectRow(*p, time.Now().UTC()),
					"tree":      derive.BuildProjectTree(db.Folders, db.Pages, p.ID),
					"documents": derive.ProjectDocuments(db.Documents, p.ID),
					"citations": derive.ProjectCitations(db.Citations, p.ID),
				},
			})
		},
	}
	return cmd
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var name, description, stage, status, template, deadline string
	var tags, fields, unset []string
	var clearDeadline bool

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			due, err := optionalTime(f.Changed("deadline"), deadline)
			if err != nil {
				return writeErr(cmd, err)
			}
			custom, err := parseFields(fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, k := range unset {
				if custom == nil {
					custom = map[string]any{}
				}
				custom[k] = nil
			}
			patch := workspace.ProjectPatch{
				Deadline:      due,
				ClearDeadline: clearDeadline,
				CustomFields:  custom,
			}
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("description") {
				patch.Description = &description
			}
			if f.Changed("stage") {
				v := model.ProjectStage(stage)
				patch.Stage = &v
			}
			if f.Changed("status") {
				v := model.ProjectStatus(status)
				patch.Status = &v
			}
			if f.Changed("template") {
				v := model.ProjectTemplate(template)
				patch.Template = &v
			}
			if f.Changed("tag") {
				patch.Tags = &tags
			}

			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := w.UpdateProject(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newProjectRow(p, time.Now().UTC())})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&stage, "stage", "", "New stage")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringVar(&template, "template", "", "New template")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New deadline")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "Remove the deadline")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replace tags (repeatable)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Set custom field key=value (repeatable)")
	cmd.Flags().StringArrayVar(&unset, "unset-field", nil, "Remove custom field (repeatable)")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its folders (pages, documents and citations are kept, unfiled)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := w.DeleteProject(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

package workspace

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

type ProjectInput struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Stage        model.ProjectStage    `json:"stage"`
	Status       model.ProjectStatus   `json:"status"`
	Template     model.ProjectTemplate `json:"template"`
	Deadline     *time.Time            `json:"deadline"`
	Tags         []string              `json:"tags"`
	CustomFields map[string]any        `json:"customFields"`
}

func (in *ProjectInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&in.Stage, oneOf(model.AllProjectStages())),
		validation.Field(&in.Status, oneOf(model.AllProjectStatuses())),
		validation.Field(&in.Template, oneOf(model.AllProjectTemplates())),
		validation.Field(&in.Tags, tagRule),
	)
}

// ProjectPatch holds the fields to change; nil fields are left alone. ClearDeadline
// removes the deadline and wins over Deadline.
type ProjectPatch struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	Stage         *model.ProjectStage    `json:"stage"`
	Status        *model.ProjectStatus   `json:"status"`
	Template      *model.ProjectTemplate `json:"template"`
	Deadline      *time.Time             `json:"deadline"`
	ClearDeadline bool                   `json:"clearDeadline"`
	Tags          *[]string              `json:"tags"`
	CustomFields  map[string]any         `json:"customFields"`
}

func (p *ProjectPatch) Validate() error {
	return validation.Errors{
		"name":     validation.Validate(p.Name, validation.NilOrNotEmpty, validation.Length(1, maxNameLength)),
		"stage":    validation.Validate(p.Stage, validation.NilOrNotEmpty, oneOf(model.AllProjectStages())),
		"status":   validation.Validate(p.Status, validation.NilOrNotEmpty, oneOf(model.AllProjectStatuses())),
		"template": validation.Validate(p.Template, validation.NilOrNotEmpty, oneOf(model.AllProjectTemplates())),
		"tags":     validateTags(p.Tags),
	}.Filter()
}

func (w *Workspace) CreateProject(ctx context.Context, in ProjectInput) (model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Stage == "" {
		in.Stage = model.StageIdeation
	}
	if in.Status == "" {
		in.Status = model.StatusInProgress
	}
	if in.Template == "" {
		in.Template = model.TemplateGeneral
	}
	if err := in.Validate(); err != nil {
		return model.Project{}, invalid("create project", err)
	}
	fields, err := store.CanonicalFields(in.CustomFields)
	if err != nil {
		return model.Project{}, invalid("create project", validation.Errors{"customFields": err})
	}

	var out model.Project
	err = w.apply(ctx, "create project", func(db *store.DB) (change, error) {
		now := w.stamp()
		p := model.Project{
			ID:           w.newID("proj"),
			Name:         in.Name,
			Description:  strings.TrimSpace(in.Description),
			Stage:        in.Stage,
			Status:       in.Status,
			Template:     in.Template,
			CreatedAt:    now,
			UpdatedAt:    now,
			Tags:         normalizeTags(in.Tags),
			CustomFields: fields,
		}
		if in.Deadline != nil {
			d := in.Deadline.UTC()
			p.Deadline = &d
		}
		if p.CustomFields == nil {
			p.CustomFields = map[string]any{}
		}
		db.Projects = append(db.Projects, p)
		out = store.CloneProject(p)
		return change{Kind: "project.create", EntityID: p.ID, Summary: p.Name}, nil
	})
	return out, err
}

func (w *Workspace) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (model.Project, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := patch.Validate(); err != nil {
		return model.Project{}, invalid("update project", err)
	}
	fields, err := store.CanonicalFields(patch.CustomFields)
	if err != nil {
		return model.Project{}, invalid("update project", validation.Errors{"customFields": err})
	}

	var out model.Project
	err = w.apply(ctx, "update project", func(db *store.DB) (change, error) {
		p, ok := db.FindProject(id)
		if !ok {
			return change{}, notFound("project", id)
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Stage != nil {
			p.Stage = *patch.Stage
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		if patch.Template != nil {
			p.Template = *patch.Template
		}
		switch {
		case patch.ClearDeadline:
			p.Deadline = nil
		case patch.Deadline != nil:
			d := patch.Deadline.UTC()
			p.Deadline = &d
		}
		if patch.Tags != nil {
			p.Tags = normalizeTags(*patch.Tags)
		}
		mergeFields(p.CustomFields, fields)
		p.UpdatedAt = w.stamp()
		out = store.CloneProject(*p)
		return change{Kind: "project.update", EntityID: p.ID, Summary: p.Name}, nil
	})
	return out, err
}

// DeleteProject removes the project and its folders. Pages, documents and citations that
// referenced it stay in the workspace, unfiled.
func (w *Workspace) DeleteProject(ctx context.Context, id string) error {
	return w.apply(ctx, "delete project", func(db *store.DB) (change, error) {
		p, ok := db.FindProject(id)
		if !ok {
			return change{}, notFound("project", id)
		}
		id, name := p.ID, p.Name
		now := w.stamp()

		db.Projects = removeWhere(db.Projects, func(p model.Project) bool { return p.ID == id })
		db.Folders = removeWhere(db.Folders, func(f model.Folder) bool { return f.ProjectID == id })
		for i := range db.Pages {
			pg := &db.Pages[i]
			if deref(pg.ProjectID) == id {
				pg.ProjectID, pg.FolderID = nil, nil
				pg.UpdatedAt = now
			}
		}
		for i := range db.Documents {
			if deref(db.Documents[i].ProjectID) == id {
				db.Documents[i].ProjectID = nil
				db.Documents[i].UpdatedAt = now
			}
		}
		for i := range db.Citations {
			if deref(db.Citations[i].ProjectID) == id {
				db.Citations[i].ProjectID = nil
				db.Citations[i].UpdatedAt = now
			}
		}
		if db.Nav.ItemID == id {
			db.Nav.ItemID = ""
		}
		return change{Kind: "project.delete", EntityID: id, Summary: name}, nil
	})
}

func removeWhere[T any](in []T, drop func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

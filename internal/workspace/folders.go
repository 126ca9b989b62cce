package workspace

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

// Folder names double as directory names on export.
var folderNameRule = validation.Match(regexp.MustCompile(`^[^/\\]+$`)).Error("folder name cannot contain slashes")

type FolderInput struct {
	Name      string  `json:"name"`
	ProjectID string  `json:"projectId"`
	ParentID  *string `json:"parentId"`
}

func (in *FolderInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxNameLength), folderNameRule),
		validation.Field(&in.ProjectID, validation.Required),
	)
}

// CreateFolder adds a folder to a project. Without a ProjectID the currently selected
// project is used. A parent folder must belong to the same project.
func (w *Workspace) CreateFolder(ctx context.Context, in FolderInput) (model.Folder, error) {
	var out model.Folder
	err := w.apply(ctx, "create folder", func(db *store.DB) (change, error) {
		in.Name = strings.TrimSpace(in.Name)
		in.ProjectID = strings.TrimSpace(in.ProjectID)
		if in.ProjectID == "" {
			if cur, ok := db.CurrentProject(); ok {
				in.ProjectID = cur.ID
			}
		}
		if err := in.Validate(); err != nil {
			return change{}, invalid("create folder", err)
		}
		if _, ok := db.FindProject(in.ProjectID); !ok {
			return change{}, notFound("project", in.ProjectID)
		}
		parentID := optionalID(in.ParentID)
		if err := checkParent(db, in.ProjectID, parentID); err != nil {
			return change{}, err
		}

		now := w.stamp()
		f := model.Folder{
			ID:        w.newID("fld"),
			Name:      in.Name,
			ParentID:  parentID,
			ProjectID: in.ProjectID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		db.Folders = append(db.Folders, f)
		out = store.CloneFolder(f)
		return change{Kind: "folder.create", EntityID: f.ID, Summary: f.Name}, nil
	})
	return out, err
}

func checkParent(db *store.DB, projectID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	parent, ok := db.FindFolder(*parentID)
	if !ok {
		return notFound("folder", *parentID)
	}
	if parent.ProjectID != projectID {
		return invalid("folder parent", validation.Errors{
			"parentId": fmt.Errorf("folder %s belongs to project %s", parent.ID, parent.ProjectID),
		})
	}
	return nil
}

func (w *Workspace) RenameFolder(ctx context.Context, id, name string) (model.Folder, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.Length(1, maxNameLength), folderNameRule); err != nil {
		return model.Folder{}, invalid("rename folder", validation.Errors{"name": err})
	}
	var out model.Folder
	err := w.apply(ctx, "rename folder", func(db *store.DB) (change, error) {
		f, ok := db.FindFolder(id)
		if !ok {
			return change{}, notFound("folder", id)
		}
		f.Name = name
		f.UpdatedAt = w.stamp()
		out = store.CloneFolder(*f)
		return change{Kind: "folder.rename", EntityID: f.ID, Summary: name}, nil
	})
	return out, err
}

// MoveFolder re-parents a folder within its project. An empty parentID moves it to the
// project root. Moving a folder under itself or a descendant fails with ErrFolderCycle.
func (w *Workspace) MoveFolder(ctx context.Context, id, parentID string) (model.Folder, error) {
	var out model.Folder
	err := w.apply(ctx, "move folder", func(db *store.DB) (change, error) {
		f, ok := db.FindFolder(id)
		if !ok {
			return change{}, notFound("folder", id)
		}
		parent := optionalID(&parentID)
		if err := checkParent(db, f.ProjectID, parent); err != nil {
			return change{}, err
		}
		if parent != nil && derive.Descendants(db.Folders, f.ID)[*parent] {
			return change{}, ErrFolderCycle
		}
		f.ParentID = parent
		f.UpdatedAt = w.stamp()
		out = store.CloneFolder(*f)
		return change{Kind: "folder.move", EntityID: f.ID, Summary: parentID}, nil
	})
	return out, err
}

// DeleteFolder removes the folder and every folder below it. Their pages stay in the
// project, unfiled from any folder.
func (w *Workspace) DeleteFolder(ctx context.Context, id string) error {
	return w.apply(ctx, "delete folder", func(db *store.DB) (change, error) {
		f, ok := db.FindFolder(id)
		if !ok {
			return change{}, notFound("folder", id)
		}
		name := f.Name
		doomed := derive.Descendants(db.Folders, f.ID)
		db.Folders = removeWhere(db.Folders, func(f model.Folder) bool { return doomed[f.ID] })

		now := w.stamp()
		for i := range db.Pages {
			pg := &db.Pages[i]
			if pg.FolderID != nil && doomed[*pg.FolderID] {
				pg.FolderID = nil
				pg.UpdatedAt = now
			}
		}
		return change{Kind: "folder.delete", EntityID: id, Summary: name}, nil
	})
}

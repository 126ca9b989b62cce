package workspace

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
	"fieldnotes/internal/store"
)

const (
	defaultPageTitle = "Untitled"
	webClipTag       = "web-clip"
	sourceURLField   = "sourceUrl"
)

type PageInput struct {
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	IsStarred    bool           `json:"isStarred"`
	ProjectID    *string        `json:"projectId"`
	FolderID     *string        `json:"folderId"`
	Tags         []string       `json:"tags"`
	CustomFields map[string]any `json:"customFields"`
}

func (in *PageInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&in.Tags, tagRule),
	)
}

// PagePatch holds the fields to change; nil fields are left alone. ProjectID and FolderID
// set to "" clear the reference. CustomFields are merged key by key and a nil value
// removes the key.
type PagePatch struct {
	Title        *string        `json:"title"`
	Content      *string        `json:"content"`
	IsStarred    *bool          `json:"isStarred"`
	ProjectID    *string        `json:"projectId"`
	FolderID     *string        `json:"folderId"`
	Tags         *[]string      `json:"tags"`
	CustomFields map[string]any `json:"customFields"`
}

func (p *PagePatch) Validate() error {
	return validation.Errors{
		"title": validation.Validate(p.Title, validation.Length(0, maxTitleLength)),
		"tags":  validateTags(p.Tags),
	}.Filter()
}

// CreatePage appends a new page and makes it the current page in the note view. Without
// an explicit ProjectID the page is filed under the currently selected project, if any.
func (w *Workspace) CreatePage(ctx context.Context, in PageInput) (model.Page, error) {
	var out model.Page
	err := w.apply(ctx, "create page", func(db *store.DB) (change, error) {
		p, err := w.newPage(db, in)
		if err != nil {
			return change{}, err
		}
		db.Pages = append(db.Pages, p)
		db.Nav.PageID = p.ID
		db.Nav.View = nav.ViewNote
		out = store.ClonePage(p)
		return change{Kind: "page.create", EntityID: p.ID, Summary: p.Title}, nil
	})
	return out, err
}

// ClipPage saves a web clip: a page tagged web-clip that remembers its source url. It
// becomes the current page but the view does not change.
func (w *Workspace) ClipPage(ctx context.Context, title, content, url string) (model.Page, error) {
	url = strings.TrimSpace(url)
	if err := validation.Validate(url, validation.Required, is.URL); err != nil {
		return model.Page{}, invalid("clip page", validation.Errors{"url": err})
	}
	var out model.Page
	err := w.apply(ctx, "clip page", func(db *store.DB) (change, error) {
		p, err := w.newPage(db, PageInput{
			Title:        title,
			Content:      content,
			Tags:         []string{webClipTag},
			CustomFields: map[string]any{sourceURLField: url},
		})
		if err != nil {
			return change{}, err
		}
		db.Pages = append(db.Pages, p)
		db.Nav.PageID = p.ID
		out = store.ClonePage(p)
		return change{Kind: "page.clip", EntityID: p.ID, Summary: url}, nil
	})
	return out, err
}

func (w *Workspace) newPage(db *store.DB, in PageInput) (model.Page, error) {
	if err := in.Validate(); err != nil {
		return model.Page{}, invalid("create page", err)
	}
	fields, err := store.CanonicalFields(in.CustomFields)
	if err != nil {
		return model.Page{}, invalid("create page", validation.Errors{"customFields": err})
	}
	now := w.stamp()
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultPageTitle
	}
	p := model.Page{
		ID:           w.newID("page"),
		Title:        title,
		Content:      in.Content,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsStarred:    in.IsStarred,
		Tags:         normalizeTags(in.Tags),
		CustomFields: fields,
		Version:      1,
		Versions:     []model.PageVersion{},
	}
	if p.CustomFields == nil {
		p.CustomFields = map[string]any{}
	}

	projectID := optionalID(in.ProjectID)
	if in.ProjectID == nil {
		if cur, ok := db.CurrentProject(); ok {
			projectID = &cur.ID
		}
	}
	projectID, folderID, err := resolveFiling(db, projectID, optionalID(in.FolderID))
	if err != nil {
		return model.Page{}, err
	}
	p.ProjectID = projectID
	p.FolderID = folderID
	return p, nil
}

// resolveFiling checks that the referenced project and folder exist and agree. A folder
// without a project files the page under the folder's project.
func resolveFiling(db *store.DB, projectID, folderID *string) (*string, *string, error) {
	if projectID != nil {
		if _, ok := db.FindProject(*projectID); !ok {
			return nil, nil, notFound("project", *projectID)
		}
	}
	if folderID == nil {
		return projectID, nil, nil
	}
	f, ok := db.FindFolder(*folderID)
	if !ok {
		return nil, nil, notFound("folder", *folderID)
	}
	if projectID == nil {
		pid := f.ProjectID
		return &pid, folderID, nil
	}
	if f.ProjectID != *projectID {
		return nil, nil, invalid("file page", validation.Errors{
			"folderId": fmt.Errorf("folder %s belongs to project %s", f.ID, f.ProjectID),
		})
	}
	return projectID, folderID, nil
}

// UpdatePage merges patch into the page and refreshes updatedAt. A change to the title or
// content snapshots the previous title and content and bumps the version.
func (w *Workspace) UpdatePage(ctx context.Context, id string, patch PagePatch) (model.Page, error) {
	var out model.Page
	err := w.apply(ctx, "update page", func(db *store.DB) (change, error) {
		p, err := w.updatePageIn(db, id, patch)
		if err != nil {
			return change{}, err
		}
		out = store.ClonePage(*p)
		return change{Kind: "page.update", EntityID: p.ID, Summary: p.Title}, nil
	})
	return out, err
}

func (w *Workspace) updatePageIn(db *store.DB, id string, patch PagePatch) (*model.Page, error) {
	p, ok := db.FindPage(id)
	if !ok {
		return nil, notFound("page", id)
	}
	if err := patch.Validate(); err != nil {
		return nil, invalid("update page", err)
	}
	fields, err := store.CanonicalFields(patch.CustomFields)
	if err != nil {
		return nil, invalid("update page", validation.Errors{"customFields": err})
	}
	now := w.stamp()

	title, content := p.Title, p.Content
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
		if title == "" {
			title = defaultPageTitle
		}
	}
	if patch.Content != nil {
		content = *patch.Content
	}
	if title != p.Title || content != p.Content {
		p.Versions = append(p.Versions, model.PageVersion{
			Version: p.Version,
			Title:   p.Title,
			Content: p.Content,
			SavedAt: now,
		})
		p.Version++
		p.Title, p.Content = title, content
	}

	if patch.IsStarred != nil {
		p.IsStarred = *patch.IsStarred
	}
	if patch.ProjectID != nil || patch.FolderID != nil {
		projectID, folderID := p.ProjectID, p.FolderID
		if patch.ProjectID != nil {
			projectID = optionalID(patch.ProjectID)
			if patch.FolderID == nil && deref(projectID) != deref(p.ProjectID) {
				folderID = nil
			}
		}
		if patch.FolderID != nil {
			folderID = optionalID(patch.FolderID)
			if patch.ProjectID == nil && folderID != nil {
				projectID = nil
			}
		}
		pid, fid, err := resolveFiling(db, projectID, folderID)
		if err != nil {
			return nil, err
		}
		p.ProjectID, p.FolderID = pid, fid
	}
	if patch.Tags != nil {
		p.Tags = normalizeTags(*patch.Tags)
	}
	mergeFields(p.CustomFields, fields)

	p.UpdatedAt = now
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}
	return p, nil
}

// RestorePageVersion brings back the title and content saved as version. The restore is
// itself an edit, so the state it replaces becomes a new snapshot.
func (w *Workspace) RestorePageVersion(ctx context.Context, id string, version int) (model.Page, error) {
	var out model.Page
	err := w.apply(ctx, "restore page version", func(db *store.DB) (change, error) {
		p, ok := db.FindPage(id)
		if !ok {
			return change{}, notFound("page", id)
		}
		var snap *model.PageVersion
		for i := range p.Versions {
			if p.Versions[i].Version == version {
				snap = &p.Versions[i]
				break
			}
		}
		if snap == nil {
			return change{}, notFound("page version", fmt.Sprintf("%s@%d", p.ID, version))
		}
		title, content := snap.Title, snap.Content
		updated, err := w.updatePageIn(db, id, PagePatch{Title: &title, Content: &content})
		if err != nil {
			return change{}, err
		}
		out = store.ClonePage(*updated)
		return change{Kind: "page.restore", EntityID: updated.ID, Summary: fmt.Sprintf("restored version %d", version)}, nil
	})
	return out, err
}

// DeletePage removes a page. The last page can never be deleted. When the current page is
// deleted the selection moves to the first remaining page.
func (w *Workspace) DeletePage(ctx context.Context, id string) error {
	return w.apply(ctx, "delete page", func(db *store.DB) (change, error) {
		id = strings.TrimSpace(id)
		idx := -1
		for i := range db.Pages {
			if db.Pages[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return change{}, notFound("page", id)
		}
		if len(db.Pages) <= 1 {
			return change{}, ErrLastPage
		}
		title := db.Pages[idx].Title
		db.Pages = append(db.Pages[:idx], db.Pages[idx+1:]...)
		if db.Nav.PageID == id {
			db.Nav.PageID = db.Pages[0].ID
		}
		return change{Kind: "page.delete", EntityID: id, Summary: title}, nil
	})
}

// ToggleStar flips isStarred. Starring is not a content edit, so no version is recorded.
func (w *Workspace) ToggleStar(ctx context.Context, id string) (model.Page, error) {
	var out model.Page
	err := w.apply(ctx, "toggle star", func(db *store.DB) (change, error) {
		cur, ok := db.FindPage(id)
		if !ok {
			return change{}, notFound("page", id)
		}
		starred := !cur.IsStarred
		p, err := w.updatePageIn(db, id, PagePatch{IsStarred: &starred})
		if err != nil {
			return change{}, err
		}
		out = store.ClonePage(*p)
		kind := "page.unstar"
		if starred {
			kind = "page.star"
		}
		return change{Kind: kind, EntityID: p.ID, Summary: p.Title}, nil
	})
	return out, err
}

// FilePage moves a page into a project and optionally a folder. Empty ids unfile it.
func (w *Workspace) FilePage(ctx context.Context, pageID, projectID, folderID string) (model.Page, error) {
	var out model.Page
	err := w.apply(ctx, "file page", func(db *store.DB) (change, error) {
		p, err := w.updatePageIn(db, pageID, PagePatch{ProjectID: &projectID, FolderID: &folderID})
		if err != nil {
			return change{}, err
		}
		out = store.ClonePage(*p)
		return change{Kind: "page.file", EntityID: p.ID, Summary: deref(p.ProjectID) + "/" + deref(p.FolderID)}, nil
	})
	return out, err
}

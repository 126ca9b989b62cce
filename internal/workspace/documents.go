package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

type DocumentInput struct {
	Name       string             `json:"name"`
	Type       model.DocumentType `json:"type"`
	Size       int64              `json:"size"`
	SourcePath string             `json:"sourcePath"`
	URL        string             `json:"url"`
	ProjectID  *string            `json:"projectId"`
	Tags       []string           `json:"tags"`
}

func (in *DocumentInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&in.Type, oneOf(model.AllDocumentTypes())),
		validation.Field(&in.Size, validation.Min(int64(0))),
		validation.Field(&in.URL, is.URL),
		validation.Field(&in.Tags, tagRule),
	)
}

type DocumentPatch struct {
	Name      *string             `json:"name"`
	Type      *model.DocumentType `json:"type"`
	URL       *string             `json:"url"`
	ProjectID *string             `json:"projectId"`
	Tags      *[]string           `json:"tags"`
}

func (p *DocumentPatch) Validate() error {
	return validation.Errors{
		"name": validation.Validate(p.Name, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength)),
		"type": validation.Validate(p.Type, validation.NilOrNotEmpty, oneOf(model.AllDocumentTypes())),
		"url":  validation.Validate(p.URL, is.URL),
		"tags": validateTags(p.Tags),
	}.Filter()
}

type HighlightInput struct {
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Color string `json:"color"`
	Note  string `json:"note"`
}

func (in *HighlightInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Text, validation.Required),
		validation.Field(&in.Page, validation.Min(0)),
		validation.Field(&in.Color, validation.Length(0, 32)),
	)
}

type AnnotationInput struct {
	Body        string  `json:"body"`
	HighlightID *string `json:"highlightId"`
	Page        int     `json:"page"`
}

func (in *AnnotationInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Body, validation.Required),
		validation.Field(&in.Page, validation.Min(0)),
	)
}

// DocumentTypeFromName guesses the document type from a file extension.
func DocumentTypeFromName(name string) model.DocumentType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return model.DocumentPDF
	case ".doc", ".docx":
		return model.DocumentDOCX
	case ".txt", ".text":
		return model.DocumentText
	case ".html", ".htm":
		return model.DocumentHTML
	case ".md", ".markdown":
		return model.DocumentMarkdown
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return model.DocumentImage
	default:
		return model.DocumentOther
	}
}

func (w *Workspace) AddDocument(ctx context.Context, in DocumentInput) (model.Document, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	if in.Name == "" && in.SourcePath != "" {
		in.Name = filepath.Base(in.SourcePath)
	}
	if in.Type == "" {
		name := in.Name
		if in.SourcePath != "" {
			name = in.SourcePath
		}
		in.Type = DocumentTypeFromName(name)
	}
	if err := in.Validate(); err != nil {
		return model.Document{}, invalid("add document", err)
	}

	var out model.Document
	err := w.apply(ctx, "add document", func(db *store.DB) (change, error) {
		projectID := optionalID(in.ProjectID)
		if projectID != nil {
			if _, ok := db.FindProject(*projectID); !ok {
				return change{}, notFound("project", *projectID)
			}
		}
		now := w.stamp()
		d := model.Document{
			ID:          w.newID("doc"),
			Name:        in.Name,
			Type:        in.Type,
			Size:        in.Size,
			SourcePath:  strings.TrimSpace(in.SourcePath),
			URL:         in.URL,
			ProjectID:   projectID,
			Tags:        normalizeTags(in.Tags),
			UploadedAt:  now,
			UpdatedAt:   now,
			Highlights:  []model.Highlight{},
			Annotations: []model.Annotation{},
		}
		db.Documents = append(db.Documents, d)
		out = store.CloneDocument(d)
		return change{Kind: "document.add", EntityID: d.ID, Summary: d.Name}, nil
	})
	return out, err
}

// UpdateDocument merges patch and refreshes updatedAt.
func (w *Workspace) UpdateDocument(ctx context.Context, id string, patch DocumentPatch) (model.Document, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if patch.URL != nil {
		url := strings.TrimSpace(*patch.URL)
		patch.URL = &url
	}
	if err := patch.Validate(); err != nil {
		return model.Document{}, invalid("update document", err)
	}
	var out model.Document
	err := w.apply(ctx, "update document", func(db *store.DB) (change, error) {
		d, ok := db.FindDocument(id)
		if !ok {
			return change{}, notFound("document", id)
		}
		if patch.Name != nil {
			d.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Type != nil {
			d.Type = *patch.Type
		}
		if patch.URL != nil {
			d.URL = strings.TrimSpace(*patch.URL)
		}
		if patch.ProjectID != nil {
			projectID := optionalID(patch.ProjectID)
			if projectID != nil {
				if _, ok := db.FindProject(*projectID); !ok {
					return change{}, notFound("project", *projectID)
				}
			}
			d.ProjectID = projectID
		}
		if patch.Tags != nil {
			d.Tags = normalizeTags(*patch.Tags)
		}
		d.UpdatedAt = w.stamp()
		out = store.CloneDocument(*d)
		return change{Kind: "document.update", EntityID: d.ID, Summary: d.Name}, nil
	})
	return out, err
}

func (w *Workspace) DeleteDocument(ctx context.Context, id string) error {
	return w.apply(ctx, "delete document", func(db *store.DB) (change, error) {
		d, ok := db.FindDocument(id)
		if !ok {
			return change{}, notFound("document", id)
		}
		id, name := d.ID, d.Name
		db.Documents = removeWhere(db.Documents, func(d model.Document) bool { return d.ID == id })
		if db.Nav.ItemID == id {
			db.Nav.ItemID = ""
		}
		return change{Kind: "document.delete", EntityID: id, Summary: name}, nil
	})
}

// AddHighlight appends a highlight. Highlights are never edited or removed.
func (w *Workspace) AddHighlight(ctx context.Context, docID string, in HighlightInput) (model.Highlight, error) {
	if err := in.Validate(); err != nil {
		return model.Highlight{}, invalid("add highlight", err)
	}
	var out model.Highlight
	err := w.apply(ctx, "add highlight", func(db *store.DB) (change, error) {
		d, ok := db.FindDocument(docID)
		if !ok {
			return change{}, notFound("document", docID)
		}
		now := w.stamp()
		h := model.Highlight{
			ID:        w.newID("hl"),
			Text:      in.Text,
			Page:      in.Page,
			Color:     strings.TrimSpace(in.Color),
			Note:      strings.TrimSpace(in.Note),
			CreatedAt: now,
		}
		if h.Color == "" {
			h.Color = "yellow"
		}
		d.Highlights = append(d.Highlights, h)
		d.UpdatedAt = now
		out = h
		return change{Kind: "document.highlight", EntityID: d.ID, Summary: h.ID}, nil
	})
	return out, err
}

// AddAnnotation appends an annotation. A HighlightID must name a highlight on the same
// document.
func (w *Workspace) AddAnnotation(ctx context.Context, docID string, in AnnotationInput) (model.Annotation, error) {
	if err := in.Validate(); err != nil {
		return model.Annotation{}, invalid("add annotation", err)
	}
	var out model.Annotation
	err := w.apply(ctx, "add annotation", func(db *store.DB) (change, error) {
		d, ok := db.FindDocument(docID)
		if !ok {
			return change{}, notFound("document", docID)
		}
		highlightID := optionalID(in.HighlightID)
		if highlightID != nil && !hasHighlight(d, *highlightID) {
			return change{}, notFound("highlight", fmt.Sprintf("%s on %s", *highlightID, d.ID))
		}
		now := w.stamp()
		a := model.Annotation{
			ID:          w.newID("ann"),
			Body:        in.Body,
			HighlightID: highlightID,
			Page:        in.Page,
			CreatedAt:   now,
		}
		d.Annotations = append(d.Annotations, a)
		d.UpdatedAt = now
		out = a
		out.HighlightID = optionalID(a.HighlightID)
		return change{Kind: "document.annotate", EntityID: d.ID, Summary: a.ID}, nil
	})
	return out, err
}

func hasHighlight(d *model.Document, id string) bool {
	for _, h := range d.Highlights {
		if h.ID == id {
			return true
		}
	}
	return false
}

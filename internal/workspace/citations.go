package workspace

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"fieldnotes/internal/biblio"
	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

type CitationInput struct {
	Type       model.CitationType `json:"type"`
	Title      string             `json:"title"`
	Authors    []string           `json:"authors"`
	Year       int                `json:"year"`
	Publisher  string             `json:"publisher"`
	Journal    string             `json:"journal"`
	Volume     string             `json:"volume"`
	Issue      string             `json:"issue"`
	Pages      string             `json:"pages"`
	DOI        string             `json:"doi"`
	URL        string             `json:"url"`
	AccessedAt *time.Time         `json:"accessedAt"`
	ProjectID  *string            `json:"projectId"`
	Tags       []string           `json:"tags"`
}

func (in *CitationInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Type, validation.Required, oneOf(model.AllCitationTypes())),
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleLength*2)),
		validation.Field(&in.Year, validation.Min(0), validation.Max(9999)),
		validation.Field(&in.URL, is.URL),
		validation.Field(&in.Tags, tagRule),
	)
}

// CitationPatch holds the fields to change; nil fields are left alone.
type CitationPatch struct {
	Type       *model.CitationType `json:"type"`
	Title      *string             `json:"title"`
	Authors    *[]string           `json:"authors"`
	Year       *int                `json:"year"`
	Publisher  *string             `json:"publisher"`
	Journal    *string             `json:"journal"`
	Volume     *string             `json:"volume"`
	Issue      *string             `json:"issue"`
	Pages      *string             `json:"pages"`
	DOI        *string             `json:"doi"`
	URL        *string             `json:"url"`
	AccessedAt *time.Time          `json:"accessedAt"`
	ProjectID  *string             `json:"projectId"`
	Tags       *[]string           `json:"tags"`
}

func (p *CitationPatch) Validate() error {
	return validation.Errors{
		"type":  validation.Validate(p.Type, validation.NilOrNotEmpty, oneOf(model.AllCitationTypes())),
		"title": validation.Validate(p.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength*2)),
		"year":  validation.Validate(p.Year, validation.Min(0), validation.Max(9999)),
		"url":   validation.Validate(p.URL, is.URL),
		"tags":  validateTags(p.Tags),
	}.Filter()
}

func cleanAuthors(authors []string) []string {
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (w *Workspace) CreateCitation(ctx context.Context, in CitationInput) (model.Citation, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if err := in.Validate(); err != nil {
		return model.Citation{}, invalid("create citation", err)
	}

	var out model.Citation
	err := w.apply(ctx, "create citation", func(db *store.DB) (change, error) {
		projectID := optionalID(in.ProjectID)
		if projectID == nil && in.ProjectID == nil {
			if cur, ok := db.CurrentProject(); ok {
				projectID = &cur.ID
			}
		}
		if projectID != nil {
			if _, ok := db.FindProject(*projectID); !ok {
				return change{}, notFound("project", *projectID)
			}
		}
		now := w.stamp()
		c := model.Citation{
			ID:        w.newID("cit"),
			Type:      in.Type,
			Title:     in.Title,
			Authors:   cleanAuthors(in.Authors),
			Year:      in.Year,
			Publisher: strings.TrimSpace(in.Publisher),
			Journal:   strings.TrimSpace(in.Journal),
			Volume:    strings.TrimSpace(in.Volume),
			Issue:     strings.TrimSpace(in.Issue),
			Pages:     strings.TrimSpace(in.Pages),
			DOI:       strings.TrimSpace(in.DOI),
			URL:       in.URL,
			ProjectID: projectID,
			Tags:      normalizeTags(in.Tags),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if in.AccessedAt != nil {
			a := in.AccessedAt.UTC()
			c.AccessedAt = &a
		}
		db.Citations = append(db.Citations, c)
		out = store.CloneCitation(c)
		return change{Kind: "citation.create", EntityID: c.ID, Summary: c.Title}, nil
	})
	return out, err
}

// UpdateCitation merges patch and refreshes updatedAt.
func (w *Workspace) UpdateCitation(ctx context.Context, id string, patch CitationPatch) (model.Citation, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.URL != nil {
		url := strings.TrimSpace(*patch.URL)
		patch.URL = &url
	}
	if err := patch.Validate(); err != nil {
		return model.Citation{}, invalid("update citation", err)
	}
	var out model.Citation
	err := w.apply(ctx, "update citation", func(db *store.DB) (change, error) {
		c, ok := db.FindCitation(id)
		if !ok {
			return change{}, notFound("citation", id)
		}
		setStr := func(dst *string, src *string) {
			if src != nil {
				*dst = strings.TrimSpace(*src)
			}
		}
		if patch.Type != nil {
			c.Type = *patch.Type
		}
		setStr(&c.Title, patch.Title)
		setStr(&c.Publisher, patch.Publisher)
		setStr(&c.Journal, patch.Journal)
		setStr(&c.Volume, patch.Volume)
		setStr(&c.Issue, patch.Issue)
		setStr(&c.Pages, patch.Pages)
		setStr(&c.DOI, patch.DOI)
		setStr(&c.URL, patch.URL)
		if patch.Authors != nil {
			c.Authors = cleanAuthors(*patch.Authors)
		}
		if patch.Year != nil {
			c.Year = *patch.Year
		}
		if patch.AccessedAt != nil {
			a := patch.AccessedAt.UTC()
			c.AccessedAt = &a
		}
		if patch.ProjectID != nil {
			projectID := optionalID(patch.ProjectID)
			if projectID != nil {
				if _, ok := db.FindProject(*projectID); !ok {
					return change{}, notFound("project", *projectID)
				}
			}
			c.ProjectID = projectID
		}
		if patch.Tags != nil {
			c.Tags = normalizeTags(*patch.Tags)
		}
		c.UpdatedAt = w.stamp()
		out = store.CloneCitation(*c)
		return change{Kind: "citation.update", EntityID: c.ID, Summary: c.Title}, nil
	})
	return out, err
}

func (w *Workspace) DeleteCitation(ctx context.Context, id string) error {
	return w.apply(ctx, "delete citation", func(db *store.DB) (change, error) {
		c, ok := db.FindCitation(id)
		if !ok {
			return change{}, notFound("citation", id)
		}
		id, title := c.ID, c.Title
		db.Citations = removeWhere(db.Citations, func(c model.Citation) bool { return c.ID == id })
		return change{Kind: "citation.delete", EntityID: id, Summary: title}, nil
	})
}

// ExportBibliography formats the given citations, in the given order. No ids means every
// citation in the workspace.
func (w *Workspace) ExportBibliography(ids []string, style model.CitationStyle) (string, error) {
	db := w.Snapshot()
	selected := db.Citations
	if len(ids) > 0 {
		selected = make([]model.Citation, 0, len(ids))
		for _, id := range ids {
			c, ok := db.FindCitation(id)
			if !ok {
				return "", notFound("citation", id)
			}
			selected = append(selected, *c)
		}
	}
	return biblio.Format(selected, style)
}

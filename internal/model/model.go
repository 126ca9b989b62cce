package model

import "time"

type Page struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsStarred bool      `json:"isStarred"`

	// Weak references; the referenced entity may have been deleted.
	ProjectID *string `json:"projectId,omitempty"`
	FolderID  *string `json:"folderId,omitempty"`

	Tags         []string       `json:"tags"`
	CustomFields map[string]any `json:"customFields"`

	// Version starts at 1 and is bumped each time Title or Content changes.
	// Versions holds the snapshots taken before each of those edits, oldest first.
	Version  int           `json:"version"`
	Versions []PageVersion `json:"versions"`
}

// PageVersion is the state of a page before an edit.
type PageVersion struct {
	Version int       `json:"version"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	SavedAt time.Time `json:"savedAt"`
}

type Project struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Stage        ProjectStage    `json:"stage"`
	Status       ProjectStatus   `json:"status"`
	Template     ProjectTemplate `json:"template"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	CustomFields map[string]any  `json:"customFields"`
	Tags         []string        `json:"tags"`
}

// Folder is a node in a project's folder tree. Children and contained pages are not
// stored here; they are derived from ParentID and Page.FolderID.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parentId,omitempty"`
	ProjectID string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Document struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	Size       int64        `json:"size"`
	SourcePath string       `json:"sourcePath,omitempty"`
	URL        string       `json:"url,omitempty"`
	ProjectID  *string      `json:"projectId,omitempty"`
	Tags       []string     `json:"tags"`
	UploadedAt time.Time    `json:"uploadedAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`

	// Append-only.
	Highlights  []Highlight  `json:"highlights"`
	Annotations []Annotation `json:"annotations"`
}

type Highlight struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Page      int       `json:"page,omitempty"`
	Color     string    `json:"color,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Annotation struct {
	ID          string    `json:"id"`
	Body        string    `json:"body"`
	HighlightID *string   `json:"highlightId,omitempty"`
	Page        int       `json:"page,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Citation struct {
	ID         string       `json:"id"`
	Type       CitationType `json:"type"`
	Title      string       `json:"title"`
	Authors    []string     `json:"authors"` // "Last, First"
	Year       int          `json:"year,omitempty"`
	Publisher  string       `json:"publisher,omitempty"`
	Journal    string       `json:"journal,omitempty"`
	Volume     string       `json:"volume,omitempty"`
	Issue      string       `json:"issue,omitempty"`
	Pages      string       `json:"pages,omitempty"`
	DOI        string       `json:"doi,omitempty"`
	URL        string       `json:"url,omitempty"`
	AccessedAt *time.Time   `json:"accessedAt,omitempty"`
	ProjectID  *string      `json:"projectId,omitempty"`
	Tags       []string     `json:"tags"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Activity is one entry of the workspace activity log.
type Activity struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Kind     string    `json:"kind"`
	EntityID string    `json:"entityId"`
	Summary  string    `json:"summary,omitempty"`
}

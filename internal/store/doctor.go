package store

import (
	"errors"
	"fmt"
	"strings"

	"fieldnotes/internal/nav"
)

var ErrDoctorIssuesFound = errors.New("doctor found errors")

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level      DoctorIssueLevel `json:"level"`
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	EntityKind string           `json:"entityKind,omitempty"`
	EntityID   string           `json:"entityId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks the references between entities. Dangling weak references (a page whose
// project is gone) are warnings; broken structure (duplicate ids, folder cycles, no
// pages) is an error.
func (db *DB) Doctor() DoctorReport {
	var issues []DoctorIssue
	add := func(level DoctorIssueLevel, code, kind, id, format string, args ...any) {
		issues = append(issues, DoctorIssue{
			Level:      level,
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
			EntityKind: kind,
			EntityID:   id,
		})
	}

	if len(db.Pages) == 0 {
		add(DoctorIssueLevelError, "no_pages", "", "", "workspace has no pages")
	}

	seen := map[string]string{}
	checkID := func(kind, id string) {
		if strings.TrimSpace(id) == "" {
			add(DoctorIssueLevelError, "empty_id", kind, id, "%s with empty id", kind)
			return
		}
		if prev, ok := seen[id]; ok {
			add(DoctorIssueLevelError, "duplicate_id", kind, id, "id %s used by a %s and a %s", id, prev, kind)
			return
		}
		seen[id] = kind
	}
	for _, p := range db.Pages {
		checkID("page", p.ID)
	}
	for _, p := range db.Projects {
		checkID("project", p.ID)
	}
	for _, f := range db.Folders {
		checkID("folder", f.ID)
	}
	for _, d := range db.Documents {
		checkID("document", d.ID)
	}
	for _, c := range db.Citations {
		checkID("citation", c.ID)
	}

	for _, f := range db.Folders {
		if _, ok := db.FindProject(f.ProjectID); !ok {
			add(DoctorIssueLevelWarn, "folder_project_missing", "folder", f.ID, "folder %q: project %s not found", f.Name, f.ProjectID)
		}
		if f.ParentID == nil {
			continue
		}
		parent, ok := db.FindFolder(*f.ParentID)
		switch {
		case !ok:
			add(DoctorIssueLevelWarn, "folder_parent_missing", "folder", f.ID, "folder %q: parent %s not found", f.Name, *f.ParentID)
		case parent.ProjectID != f.ProjectID:
			add(DoctorIssueLevelError, "folder_parent_project_mismatch", "folder", f.ID, "folder %q: parent %s belongs to another project", f.Name, parent.ID)
		}
		if db.folderCycle(f.ID) {
			add(DoctorIssueLevelError, "folder_cycle", "folder", f.ID, "folder %q is its own ancestor", f.Name)
		}
	}

	for _, p := range db.Pages {
		if p.ProjectID != nil {
			if _, ok := db.FindProject(*p.ProjectID); !ok {
				add(DoctorIssueLevelWarn, "page_project_missing", "page", p.ID, "page %q: project %s not found", p.Title, *p.ProjectID)
			}
		}
		if p.FolderID == nil {
			continue
		}
		f, ok := db.FindFolder(*p.FolderID)
		switch {
		case !ok:
			add(DoctorIssueLevelWarn, "page_folder_missing", "page", p.ID, "page %q: folder %s not found", p.Title, *p.FolderID)
		case p.ProjectID == nil || *p.ProjectID != f.ProjectID:
			add(DoctorIssueLevelWarn, "page_folder_project_mismatch", "page", p.ID, "page %q: folder %s is in another project", p.Title, f.ID)
		}
	}

	for _, d := range db.Documents {
		if d.ProjectID != nil {
			if _, ok := db.FindProject(*d.ProjectID); !ok {
				add(DoctorIssueLevelWarn, "document_project_missing", "document", d.ID, "document %q: project %s not found", d.Name, *d.ProjectID)
			}
		}
		highlights := map[string]bool{}
		for _, h := range d.Highlights {
			highlights[h.ID] = true
		}
		for _, a := range d.Annotations {
			if a.HighlightID != nil && !highlights[*a.HighlightID] {
				add(DoctorIssueLevelWarn, "annotation_highlight_missing", "document", d.ID, "annotation %s: highlight %s not found", a.ID, *a.HighlightID)
			}
		}
	}

	for _, c := range db.Citations {
		if c.ProjectID != nil {
			if _, ok := db.FindProject(*c.ProjectID); !ok {
				add(DoctorIssueLevelWarn, "citation_project_missing", "citation", c.ID, "citation %q: project %s not found", c.Title, *c.ProjectID)
			}
		}
	}

	if len(db.Pages) > 0 {
		if _, ok := db.CurrentPage(); !ok {
			add(DoctorIssueLevelWarn, "nav_page_missing", "page", db.Nav.PageID, "selected page %s not found", db.Nav.PageID)
		}
	}
	switch db.Nav.View {
	case nav.ViewProject:
		if _, ok := db.CurrentProject(); !ok {
			add(DoctorIssueLevelWarn, "nav_item_missing", "project", db.Nav.ItemID, "selected project %s not found", db.Nav.ItemID)
		}
	case nav.ViewDocument:
		if _, ok := db.CurrentDocument(); !ok {
			add(DoctorIssueLevelWarn, "nav_item_missing", "document", db.Nav.ItemID, "selected document %s not found", db.Nav.ItemID)
		}
	}

	if issues == nil {
		issues = []DoctorIssue{}
	}
	return DoctorReport{Issues: issues}
}

func (db *DB) folderCycle(id string) bool {
	visited := map[string]bool{}
	for cur := id; cur != ""; {
		if visited[cur] {
			return true
		}
		visited[cur] = true
		f, ok := db.FindFolder(cur)
		if !ok || f.ParentID == nil {
			return false
		}
		cur = *f.ParentID
	}
	return false
}

package nav

import (
	"fmt"
	"strings"
)

// View is the screen currently shown by a presentation layer.
type View string

const (
	ViewDashboard      View = "dashboard"
	ViewDocuments      View = "documents"
	ViewNotes          View = "notes"
	ViewProjects       View = "projects"
	ViewProjectCreate  View = "project-create"
	ViewDocumentUpload View = "document-upload"
	ViewProject        View = "project"
	ViewDocument       View = "document"
	ViewCitations      View = "citations"
	ViewNote           View = "note"
)

func AllViews() []View {
	return []View{
		ViewDashboard,
		ViewDocuments,
		ViewNotes,
		ViewProjects,
		ViewProjectCreate,
		ViewDocumentUpload,
		ViewProject,
		ViewDocument,
		ViewCitations,
		ViewNote,
	}
}

func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range AllViews() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid view: %q", s)
}

// State is the selection: a view plus an optional item id.
//
// PageID is a second, page-only slot. Pages stay addressable (e.g. from a sidebar)
// while ItemID points at something else.
type State struct {
	View   View   `json:"view"`
	ItemID string `json:"itemId,omitempty"`
	PageID string `json:"pageId,omitempty"`
}

func Initial(pageID string) State {
	return State{View: ViewDashboard, PageID: pageID}
}

// Navigate never rejects a transition. Whether id resolves is a display-time concern.
func (s State) Navigate(view View, id string) State {
	id = strings.TrimSpace(id)
	next := State{View: view, ItemID: id, PageID: s.PageID}
	if view == ViewNote && id != "" {
		next.PageID = id
	}
	return next
}

// Normalize fills an empty view after loading older or partial state.
func (s State) Normalize() State {
	if _, err := ParseView(string(s.View)); err != nil {
		s.View = ViewDashboard
	}
	return s
}

// NeedsItem reports whether the view is about a single selected item.
func (v View) NeedsItem() bool {
	switch v {
	case ViewProject, ViewDocument, ViewNote:
		return true
	default:
		return false
	}
}

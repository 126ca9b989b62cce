package derive

import (
	"fmt"
	"sort"
	"strings"

	"fieldnotes/internal/model"
)

type PageQuery struct {
	Query     string
	Tag       string
	Starred   bool
	ProjectID string
	FolderID  string
}

// FilterPages keeps pages matching every non-empty field of q. Query matches title,
// content and tags case-insensitively.
func FilterPages(pages []model.Page, q PageQuery) []model.Page {
	query := strings.ToLower(strings.TrimSpace(q.Query))
	tag := strings.ToLower(strings.TrimSpace(q.Tag))
	projectID := strings.TrimSpace(q.ProjectID)
	folderID := strings.TrimSpace(q.FolderID)

	out := make([]model.Page, 0, len(pages))
	for _, p := range pages {
		if q.Starred && !p.IsStarred {
			continue
		}
		if projectID != "" && deref(p.ProjectID) != projectID {
			continue
		}
		if folderID != "" && deref(p.FolderID) != folderID {
			continue
		}
		if tag != "" && !hasTag(p.Tags, tag) {
			continue
		}
		if query != "" && !pageMatches(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func pageMatches(p model.Page, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.ToLower(strings.TrimSpace(t)) == want {
			return true
		}
	}
	return false
}

type PageSortKey string

const (
	PageSortUpdated PageSortKey = "updated"
	PageSortCreated PageSortKey = "created"
	PageSortTitle   PageSortKey = "title"
)

func ParsePageSortKey(s string) (PageSortKey, error) {
	switch PageSortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", PageSortUpdated:
		return PageSortUpdated, nil
	case PageSortCreated:
		return PageSortCreated, nil
	case PageSortTitle:
		return PageSortTitle, nil
	default:
		return "", fmt.Errorf("invalid sort key: %q (expected updated|created|title)", s)
	}
}

// SortPages returns a stably sorted copy. Timestamps sort newest first.
func SortPages(pages []model.Page, key PageSortKey) []model.Page {
	out := make([]model.Page, len(pages))
	copy(out, pages)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case PageSortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case PageSortCreated:
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	})
	return out
}

// RecentPages returns up to n pages, most recently updated first.
func RecentPages(pages []model.Page, n int) []model.Page {
	out := SortPages(pages, PageSortUpdated)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

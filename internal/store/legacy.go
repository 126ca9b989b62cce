package store

import (
	"encoding/json"
	"errors"
	"strings"

	"fieldnotes/internal/model"
)

// decodeLegacyPages reads the browser-storage export: a JSON array of pages with
// ISO-8601 dates. Missing optional fields are tolerated and filled with defaults.
func decodeLegacyPages(b []byte) ([]model.Page, error) {
	var pages []model.Page
	if err := json.Unmarshal(b, &pages); err != nil {
		return nil, err
	}
	out := make([]model.Page, 0, len(pages))
	seen := map[string]bool{}
	for _, p := range pages {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, errors.New("page without id")
		}
		// Old exports used millisecond timestamps as ids, which can repeat.
		if seen[p.ID] {
			p.ID = NewID("page")
		}
		seen[p.ID] = true
		if p.ProjectID != nil && strings.TrimSpace(*p.ProjectID) == "" {
			p.ProjectID = nil
		}
		if p.FolderID != nil && strings.TrimSpace(*p.FolderID) == "" {
			p.FolderID = nil
		}
		normalizePage(&p)
		out = append(out, p)
	}
	return out, nil
}

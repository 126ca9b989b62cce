package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

func RenderPageMarkdown(db *store.DB, pageID string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	page, ok := db.FindPage(strings.TrimSpace(pageID))
	if !ok {
		return "", fmt.Errorf("page not found: %s", pageID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(page.Title))
	writeLn("")

	writeLn("- ID: " + page.ID)
	if page.ProjectID != nil {
		if p, ok := db.FindProject(*page.ProjectID); ok {
			writeLn("- Project: " + strings.TrimSpace(p.Name) + " (" + p.ID + ")")
		} else {
			writeLn("- Project: " + *page.ProjectID)
		}
	}
	if page.FolderID != nil {
		if path := derive.FolderPath(db.Folders, *page.FolderID); len(path) > 0 {
			writeLn("- Folder: " + strings.Join(path, " / "))
		}
	}
	if len(page.Tags) > 0 {
		writeLn("- Tags: " + strings.Join(page.Tags, ", "))
	}
	if page.IsStarred {
		writeLn("- Starred: true")
	}
	if src, ok := page.CustomFields["sourceUrl"].(string); ok && strings.TrimSpace(src) != "" {
		writeLn("- Source: " + strings.TrimSpace(src))
	}
	writeLn("- Created: " + formatTime(page.CreatedAt))
	writeLn("- Updated: " + formatTime(page.UpdatedAt))
	writeLn(fmt.Sprintf("- Version: %d", page.Version))
	writeLn("")

	if content := strings.TrimSpace(page.Content); content != "" {
		writeLn(content)
	}
	return buf.String(), nil
}

// RenderProjectIndexMarkdown lists the project's folders and pages as a nested list of links.
// links maps page ids to the relative path the page was written to.
func RenderProjectIndexMarkdown(db *store.DB, projectID string, links map[string]string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	project, ok := db.FindProject(strings.TrimSpace(projectID))
	if !ok {
		return "", fmt.Errorf("project not found: %s", projectID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(project.Name))
	writeLn("")
	writeLn("- Stage: " + model.Label(project.Stage))
	writeLn("- Status: " + model.Label(project.Status))
	if project.Deadline != nil {
		writeLn("- Deadline: " + project.Deadline.UTC().Format("2006-01-02"))
	}
	if len(project.Tags) > 0 {
		writeLn("- Tags: " + strings.Join(project.Tags, ", "))
	}
	writeLn("")
	if d := strings.TrimSpace(project.Description); d != "" {
		writeLn(d)
		writeLn("")
	}

	writeLn("## Pages")
	writeLn("")
	tree := derive.BuildProjectTree(db.Folders, db.Pages, project.ID)
	for _, id := range tree.RootPageIDs {
		writePageLink(&buf, db, id, links, 0)
	}
	for _, f := range tree.Folders {
		writeFolder(&buf, db, f, links, 0)
	}
	return buf.String(), nil
}

func writeFolder(buf *bytes.Buffer, db *store.DB, f *derive.FolderNode, links map[string]string, depth int) {
	fmt.Fprintf(buf, "%s- %s/\n", strings.Repeat("  ", depth), f.Name)
	for _, id := range f.PageIDs {
		writePageLink(buf, db, id, links, depth+1)
	}
	for _, ch := range f.Children {
		writeFolder(buf, db, ch, links, depth+1)
	}
}

func writePageLink(buf *bytes.Buffer, db *store.DB, pageID string, links map[string]string, depth int) {
	p, ok := db.FindPage(pageID)
	if !ok {
		return
	}
	prefix := strings.Repeat("  ", depth)
	if href, ok := links[pageID]; ok {
		fmt.Fprintf(buf, "%s- [%s](%s)\n", prefix, strings.TrimSpace(p.Title), href)
		return
	}
	fmt.Fprintf(buf, "%s- %s\n", prefix, strings.TrimSpace(p.Title))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

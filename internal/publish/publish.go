package publish

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"fieldnotes/internal/biblio"
	"fieldnotes/internal/derive"
	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

type WriteOptions struct {
	HTML      bool
	Overwrite bool
	// Style of the project bibliography. Empty means APA.
	Style model.CitationStyle
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteProject exports a project under toDir/<project slug>: an index, one file per page
// laid out by folder, and a bibliography of the project's citations.
func WriteProject(db *store.DB, projectID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return WriteResult{}, errors.New("missing projectID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	project, ok := db.FindProject(projectID)
	if !ok {
		return WriteResult{}, errors.New("project not found: " + projectID)
	}
	style := opt.Style
	if style == "" {
		style = model.StyleAPA
	}

	ext := ".md"
	if opt.HTML {
		ext = ".html"
	}
	root := filepath.Join(filepath.Clean(toDir), Slugify(project.Name))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return WriteResult{}, err
	}

	written := []string{}
	links := map[string]string{}
	used := map[string]bool{}
	for _, p := range derive.ProjectPages(db.Pages, project.ID) {
		var dirParts []string
		if p.FolderID != nil {
			for _, name := range derive.FolderPath(db.Folders, *p.FolderID) {
				dirParts = append(dirParts, Slugify(name))
			}
		}
		rel := uniquePath(used, filepath.Join(append(dirParts, Slugify(p.Title))...), ext)

		var body string
		var err error
		if opt.HTML {
			body, err = RenderPageHTML(db, p.ID)
		} else {
			body, err = RenderPageMarkdown(db, p.ID)
		}
		if err != nil {
			return WriteResult{}, err
		}
		out := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return WriteResult{}, err
		}
		if err := writeFile(out, []byte(body), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		links[p.ID] = filepath.ToSlash(rel)
		written = append(written, out)
	}

	index, err := RenderProjectIndexMarkdown(db, project.ID, links)
	if err != nil {
		return WriteResult{}, err
	}
	if opt.HTML {
		if index, err = wrapHTML(project.Name, index); err != nil {
			return WriteResult{}, err
		}
	}
	indexPath := filepath.Join(root, "index"+ext)
	if err := writeFile(indexPath, []byte(index), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written = append([]string{indexPath}, written...)

	if cites := derive.ProjectCitations(db.Citations, project.ID); len(cites) > 0 {
		bib, err := biblio.Format(cites, style)
		if err != nil {
			return WriteResult{}, err
		}
		name := "bibliography.txt"
		if style == model.StyleBibTeX {
			name = "bibliography.bib"
		}
		bibPath := filepath.Join(root, name)
		if err := writeFile(bibPath, []byte(bib), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, bibPath)
	}

	return WriteResult{Written: written}, nil
}

var (
	reNonSlug = regexp.MustCompile(`[^a-z0-9-]+`)
	reDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a title into a file name: lowercase ascii letters, digits and dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = reNonSlug.ReplaceAllString(s, "-")
	s = reDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// uniquePath appends -2, -3, ... until base+ext is unused.
func uniquePath(used map[string]bool, base, ext string) string {
	candidate := base + ext
	for i := 2; used[candidate]; i++ {
		candidate = base + "-" + strconv.Itoa(i) + ext
	}
	used[candidate] = true
	return candidate
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}

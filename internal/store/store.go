package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
)

// DirName is the workspace directory looked up by DiscoverDir.
const DirName = ".fieldnotes"

const (
	sqliteFileName     = "fieldnotes.sqlite"
	legacyPagesFile    = "pages.json"
	currentStateFormat = 1
)

// DB is the full in-memory workspace state. Collections keep insertion order.
type DB struct {
	Version   int              `json:"version"`
	Nav       nav.State        `json:"nav"`
	Pages     []model.Page     `json:"pages"`
	Projects  []model.Project  `json:"projects"`
	Folders   []model.Folder   `json:"folders"`
	Documents []model.Document `json:"documents"`
	Citations []model.Citation `json:"citations"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .fieldnotes workspace directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, DirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) SQLitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) legacyPagesPath() string {
	return filepath.Join(s.Dir, legacyPagesFile)
}

func (s Store) Load(ctx context.Context) (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(ctx)
}

func (s Store) Save(ctx context.Context, db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(ctx, db)
}

// Empty reports whether nothing at all has been persisted yet.
func (db *DB) Empty() bool {
	return db == nil || (len(db.Pages) == 0 &&
		len(db.Projects) == 0 &&
		len(db.Folders) == 0 &&
		len(db.Documents) == 0 &&
		len(db.Citations) == 0)
}

func (db *DB) FindPage(id string) (*model.Page, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Pages {
		if db.Pages[i].ID == id {
			return &db.Pages[i], true
		}
	}
	return nil, false
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

func (db *DB) FindFolder(id string) (*model.Folder, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Folders {
		if db.Folders[i].ID == id {
			return &db.Folders[i], true
		}
	}
	return nil, false
}

func (db *DB) FindDocument(id string) (*model.Document, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Documents {
		if db.Documents[i].ID == id {
			return &db.Documents[i], true
		}
	}
	return nil, false
}

func (db *DB) FindCitation(id string) (*model.Citation, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Citations {
		if db.Citations[i].ID == id {
			return &db.Citations[i], true
		}
	}
	return nil, false
}

// CurrentPage resolves the page selection slot.
func (db *DB) CurrentPage() (*model.Page, bool) {
	return db.FindPage(db.Nav.PageID)
}

// CurrentProject resolves the generic item slot against projects.
func (db *DB) CurrentProject() (*model.Project, bool) {
	return db.FindProject(db.Nav.ItemID)
}

// CurrentDocument resolves the generic item slot against documents.
func (db *DB) CurrentDocument() (*model.Document, bool) {
	return db.FindDocument(db.Nav.ItemID)
}

// Normalize replaces nil collections and maps with empty ones so callers and the JSON
// output never see null.
func (db *DB) Normalize() {
	if db.Version == 0 {
		db.Version = currentStateFormat
	}
	db.Nav = db.Nav.Normalize()
	if db.Pages == nil {
		db.Pages = []model.Page{}
	}
	if db.Projects == nil {
		db.Projects = []model.Project{}
	}
	if db.Folders == nil {
		db.Folders = []model.Folder{}
	}
	if db.Documents == nil {
		db.Documents = []model.Document{}
	}
	if db.Citations == nil {
		db.Citations = []model.Citation{}
	}
	for i := range db.Pages {
		normalizePage(&db.Pages[i])
	}
	for i := range db.Projects {
		p := &db.Projects[i]
		if p.Tags == nil {
			p.Tags = []string{}
		}
		if p.CustomFields == nil {
			p.CustomFields = map[string]any{}
		}
	}
	for i := range db.Documents {
		d := &db.Documents[i]
		if d.Tags == nil {
			d.Tags = []string{}
		}
		if d.Highlights == nil {
			d.Highlights = []model.Highlight{}
		}
		if d.Annotations == nil {
			d.Annotations = []model.Annotation{}
		}
	}
	for i := range db.Citations {
		c := &db.Citations[i]
		if c.Tags == nil {
			c.Tags = []string{}
		}
		if c.Authors == nil {
			c.Authors = []string{}
		}
	}
}

func normalizePage(p *model.Page) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.CustomFields == nil {
		p.CustomFields = map[string]any{}
	}
	if p.Versions == nil {
		p.Versions = []model.PageVersion{}
	}
	if p.Version < 1 {
		p.Version = 1
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}
}

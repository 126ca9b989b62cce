package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fieldnotes/internal/logger"
	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.SQLitePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadSQLite loads the workspace state. If the SQLite state is empty but a legacy
// pages.json export exists, it is imported once and then loaded from SQLite.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	hasState, err := sqliteStateHasAnyRows(ctx, db)
	if err != nil {
		return nil, err
	}
	if !hasState {
		if b, err := os.ReadFile(s.legacyPagesPath()); err == nil && len(b) > 0 {
			pages, err := decodeLegacyPages(b)
			if err != nil {
				return nil, fmt.Errorf("import %s: %w", legacyPagesFile, err)
			}
			if err := replacePages(ctx, db, pages); err != nil {
				return nil, err
			}
			logger.Get().Info("imported legacy pages",
				zap.String("path", s.legacyPagesPath()),
				zap.Int("count", len(pages)),
			)
		}
	}

	return loadStateFromSQLite(ctx, db)
}

// SaveSQLite replaces the whole persisted state in one transaction.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	navJSON, err := json.Marshal(st.Nav)
	if err != nil {
		return err
	}
	meta := map[string]string{
		"version": strconv.Itoa(st.Version),
		"nav":     string(navJSON),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	for _, t := range []string{"pages", "projects", "folders", "documents", "citations"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	if err := insertPages(ctx, tx, st.Pages, nowMs); err != nil {
		return err
	}
	for i, p := range st.Projects {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, ord, name, stage, status, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, p.Name, string(p.Stage), string(p.Status), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, f := range st.Folders {
		raw, err := json.Marshal(f)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO folders(id, ord, project_id, parent_id, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			f.ID, i, f.ProjectID, strOrEmpty(f.ParentID), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, d := range st.Documents {
		raw, err := json.Marshal(d)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO documents(id, ord, project_id, type, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			d.ID, i, strOrEmpty(d.ProjectID), string(d.Type), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, c := range st.Citations {
		raw, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO citations(id, ord, project_id, type, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			c.ID, i, strOrEmpty(c.ProjectID), string(c.Type), string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadPages returns nil when no page has been persisted.
func (s Store) LoadPages(ctx context.Context) ([]model.Page, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	pages, err := readJSONRows[model.Page](ctx, db, `SELECT json FROM pages ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	for i := range pages {
		normalizePage(&pages[i])
	}
	return pages, nil
}

// SavePages replaces only the persisted pages.
func (s Store) SavePages(ctx context.Context, pages []model.Page) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return replacePages(ctx, db, pages)
}

func replacePages(ctx context.Context, db *sql.DB, pages []model.Page) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages`); err != nil {
		return err
	}
	if err := insertPages(ctx, tx, pages, time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPages(ctx context.Context, tx *sql.Tx, pages []model.Page, nowMs int64) error {
	for i, p := range pages {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO pages(id, ord, title, project_id, folder_id, starred, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, p.Title, strOrEmpty(p.ProjectID), strOrEmpty(p.FolderID), boolToInt(p.IsStarred), string(raw), nowMs); err != nil {
			return err
		}
	}
	return nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pages (
			id TEXT PRIMARY KEY,
			ord INTEGER NOT NULL,
			title TEXT NOT NULL,
			project_id TEXT NOT NULL,
			folder_id TEXT NOT NULL,
			starred INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_pages_project ON pages(project_id);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			ord INTEGER NOT NULL,
			name TEXT NOT NULL,
			stage TEXT NOT NULL,
			status TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY,
			ord INTEGER NOT NULL,
			project_id TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_folders_project ON folders(project_id);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			ord INTEGER NOT NULL,
			project_id TEXT NOT NULL,
			type TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS citations (
			id TEXT PRIMARY KEY,
			ord INTEGER NOT NULL,
			project_id TEXT NOT NULL,
			type TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activity (
			id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			summary TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_ts ON activity(ts_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func sqliteStateHasAnyRows(ctx context.Context, db *sql.DB) (bool, error) {
	for _, t := range []string{"pages", "projects", "folders", "documents", "citations"} {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+t).Scan(&n); err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: currentStateFormat}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	if v := readMeta("nav"); v != "" {
		var st nav.State
		// Best effort; a corrupted selection falls back to the dashboard.
		if err := json.Unmarshal([]byte(v), &st); err == nil {
			out.Nav = st
		}
	}

	var err error
	if out.Pages, err = readJSONRows[model.Page](ctx, db, `SELECT json FROM pages ORDER BY ord`); err != nil {
		return nil, err
	}
	if out.Projects, err = readJSONRows[model.Project](ctx, db, `SELECT json FROM projects ORDER BY ord`); err != nil {
		return nil, err
	}
	if out.Folders, err = readJSONRows[model.Folder](ctx, db, `SELECT json FROM folders ORDER BY ord`); err != nil {
		return nil, err
	}
	if out.Documents, err = readJSONRows[model.Document](ctx, db, `SELECT json FROM documents ORDER BY ord`); err != nil {
		return nil, err
	}
	if out.Citations, err = readJSONRows[model.Citation](ctx, db, `SELECT json FROM citations ORDER BY ord`); err != nil {
		return nil, err
	}

	out.Normalize()
	return out, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

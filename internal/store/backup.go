package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const backupDirName = "backups"

// Backup copies the SQLite state file to dest, or to backups/fieldnotes-<timestamp>.sqlite
// inside the workspace when dest is empty. It returns the path written.
func (s Store) Backup(ctx context.Context, dest string, now time.Time) (string, error) {
	src := s.SQLitePath()
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("backup: no state at %s", src)
		}
		return "", err
	}
	if err := s.checkpoint(ctx); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	dest = strings.TrimSpace(dest)
	if dest == "" {
		name := "fieldnotes-" + now.UTC().Format("20060102-150405") + ".sqlite"
		dest = filepath.Join(s.Dir, backupDirName, name)
	}
	if err := CopyFile(src, dest); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	return dest, nil
}

// checkpoint folds the WAL into the main database file so a plain file copy is complete.
func (s Store) checkpoint(ctx context.Context) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")
	return err
}

func CopyFile(src string, dest string) error {
	src = filepath.Clean(src)
	dest = filepath.Clean(dest)
	if src == dest {
		return errors.New("copy file: src and dest are the same file")
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	// Write next to dest and rename so a failed copy never leaves a truncated backup.
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".backup-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

package store

import (
	"context"
	"strings"
	"time"

	"fieldnotes/internal/model"
)

// AppendActivity records a single entry in the workspace activity log.
func (s Store) AppendActivity(ctx context.Context, kind, entityID, summary string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO activity(id, ts_unixms, kind, entity_id, summary) VALUES(?, ?, ?, ?, ?)`,
		NewID("act"), time.Now().UTC().UnixMilli(), strings.TrimSpace(kind), strings.TrimSpace(entityID), strings.TrimSpace(summary))
	return err
}

// ReadActivity returns the newest entries first. If limit <= 0, all entries are returned.
func (s Store) ReadActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, ts_unixms, kind, entity_id, summary FROM activity ORDER BY ts_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		var ts int64
		if err := rows.Scan(&a.ID, &ts, &a.Kind, &a.EntityID, &a.Summary); err != nil {
			return nil, err
		}
		a.TS = time.UnixMilli(ts).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

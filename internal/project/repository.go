// Package project owns the persisted clip arrangement and routes edit
// operations through the timeline manager.
package project

import (
	"context"
	"database/sql"
	"time"

	"github.com/cutroom/cutroom-agent/internal/timeline"
)

// ClipRepository persists the clip arrangement. The arrangement is
// small and written as a whole: ReplaceClips swaps the stored snapshot
// for the given one inside a single transaction.
type ClipRepository interface {
	ReplaceClips(ctx context.Context, cells []timeline.Clip) error
	ListClips(ctx context.Context) ([]timeline.Clip, error)
}

type SQLiteClipRepository struct {
	db *sql.DB
}

func NewClipRepository(db *sql.DB) *SQLiteClipRepository {
	return &SQLiteClipRepository{db: db}
}

func (r *SQLiteClipRepository) ReplaceClips(ctx context.Context, cells []timeline.Clip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clips`); err != nil {
		return err
	}

	now := time.Now().Format(time.RFC3339)
	for _, c := range cells {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO clips (id, media_id, position, start_time, duration, trim_start, trim_end, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.MediaID, c.Position, c.StartTime, c.Duration, c.TrimStart, c.TrimEnd, now)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteClipRepository) ListClips(ctx context.Context) ([]timeline.Clip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, media_id, position, start_time, duration, trim_start, trim_end
		FROM clips ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []timeline.Clip
	for rows.Next() {
		var c timeline.Clip
		if err := rows.Scan(&c.ID, &c.MediaID, &c.Position, &c.StartTime,
			&c.Duration, &c.TrimStart, &c.TrimEnd); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

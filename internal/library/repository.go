package library

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateMedia(ctx context.Context, m *Media) error
	GetMedia(ctx context.Context, id string) (*Media, error)
	GetMediaByPath(ctx context.Context, path string) (*Media, error)
	ListMedia(ctx context.Context) ([]*Media, error)
	DeleteMedia(ctx context.Context, id string) error
	UpdateMediaPresent(ctx context.Context, id string, present bool) error
	CountMedia(ctx context.Context) (int, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateMedia(ctx context.Context, m *Media) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media (id, kind, path, filename, duration, width, height, size, present, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Kind, m.Path, m.Filename, m.Duration, m.Width, m.Height, m.Size,
		boolToInt(m.Present), m.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetMedia(ctx context.Context, id string) (*Media, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, path, filename, duration, width, height, size, present, created_at
		FROM media WHERE id = ?
	`, id)
	return r.scanMedia(row)
}

func (r *SQLiteRepository) GetMediaByPath(ctx context.Context, path string) (*Media, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, path, filename, duration, width, height, size, present, created_at
		FROM media WHERE path = ?
	`, path)
	return r.scanMedia(row)
}

func (r *SQLiteRepository) scanMedia(row *sql.Row) (*Media, error) {
	var m Media
	var present int
	var createdAt string

	err := row.Scan(&m.ID, &m.Kind, &m.Path, &m.Filename, &m.Duration,
		&m.Width, &m.Height, &m.Size, &present, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.Present = present == 1
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &m, nil
}

func (r *SQLiteRepository) ListMedia(ctx context.Context) ([]*Media, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, path, filename, duration, width, height, size, present, created_at
		FROM media ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Media
	for rows.Next() {
		var m Media
		var present int
		var createdAt string

		if err := rows.Scan(&m.ID, &m.Kind, &m.Path, &m.Filename, &m.Duration,
			&m.Width, &m.Height, &m.Size, &present, &createdAt); err != nil {
			return nil, err
		}
		m.Present = present == 1
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		items = append(items, &m)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) DeleteMedia(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) UpdateMediaPresent(ctx context.Context, id string, present bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE media SET present = ? WHERE id = ?", boolToInt(present), id)
	return err
}

func (r *SQLiteRepository) CountMedia(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

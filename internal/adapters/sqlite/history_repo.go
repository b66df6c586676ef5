package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vodkeeper/vodkeeper/internal/domain"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts a completed download. Re-recording the same channel/vod pair
// (a re-run after a lost state file) replaces the previous row.
func (r *HistoryRepository) Record(ctx context.Context, entry domain.ArchiveEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO archives(id, channel, vod_id, title, published_at, video_path, downloaded_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(channel, vod_id) DO UPDATE SET
			title = excluded.title,
			published_at = excluded.published_at,
			video_path = excluded.video_path,
			downloaded_at = excluded.downloaded_at
	`, entry.ID, entry.Channel, entry.VODID, entry.Title,
		entry.PublishedAt.UTC().Format(time.RFC3339),
		entry.VideoPath,
		entry.DownloadedAt.UTC().Format(time.RFC3339))
	return err
}

func (r *HistoryRepository) List(ctx context.Context, limit int) ([]domain.ArchiveEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, channel, vod_id, title, published_at, video_path, downloaded_at
		FROM archives ORDER BY downloaded_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ArchiveEntry{}
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *HistoryRepository) LatestForChannel(ctx context.Context, login string) (domain.ArchiveEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, channel, vod_id, title, published_at, video_path, downloaded_at
		FROM archives WHERE channel = ? ORDER BY downloaded_at DESC LIMIT 1
	`, login)
	e, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ArchiveEntry{}, ports.ErrNotFound
		}
		return domain.ArchiveEntry{}, err
	}
	return e, nil
}

func scanEntry(scan func(dest ...any) error) (domain.ArchiveEntry, error) {
	var e domain.ArchiveEntry
	var publishedAt, downloadedAt string
	if err := scan(&e.ID, &e.Channel, &e.VODID, &e.Title, &publishedAt, &e.VideoPath, &downloadedAt); err != nil {
		return domain.ArchiveEntry{}, err
	}
	e.PublishedAt, _ = time.Parse(time.RFC3339, publishedAt)
	e.DownloadedAt, _ = time.Parse(time.RFC3339, downloadedAt)
	return e, nil
}

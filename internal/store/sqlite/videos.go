package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store"
)

// UpsertVideo registers a video. On conflict the metadata is refreshed
// but the accumulated click count is preserved.
func (s *Store) UpsertVideo(ctx context.Context, v *model.Video) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (id, title, thumbnail_url, video_url, click_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			thumbnail_url = excluded.thumbnail_url,
			video_url = excluded.video_url,
			updated_at = excluded.updated_at;`,
		v.ID, v.Title, v.ThumbnailURL, v.VideoURL, v.CreatedAt.UTC(), v.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert video: %w", err)
	}
	return nil
}

// GetVideo retrieves a video by id.
func (s *Store) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, thumbnail_url, video_url, click_count, created_at, updated_at
		FROM videos WHERE id = ?;`, id,
	).Scan(&v.ID, &v.Title, &v.ThumbnailURL, &v.VideoURL, &v.ClickCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVideoNotFound
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

// UpdateVideo overwrites a video's mutable fields. click_count is not
// part of this statement on purpose.
func (s *Store) UpdateVideo(ctx context.Context, v *model.Video) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE videos SET title = ?, thumbnail_url = ?, video_url = ?, updated_at = ?
		WHERE id = ?;`,
		v.Title, v.ThumbnailURL, v.VideoURL, v.UpdatedAt.UTC(), v.ID,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update video rows: %w", err)
	}
	if n == 0 {
		return store.ErrVideoNotFound
	}
	return nil
}

// DeleteVideo removes a video from the catalog. Its click events stay
// in the event store.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete video rows: %w", err)
	}
	if n == 0 {
		return store.ErrVideoNotFound
	}
	return nil
}

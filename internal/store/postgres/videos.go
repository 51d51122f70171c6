package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store"
)

// UpsertVideo registers a video. On conflict the metadata is refreshed
// but the accumulated click count is preserved.
func (s *Store) UpsertVideo(ctx context.Context, v *model.Video) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO videos (id, title, thumbnail_url, video_url, click_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			thumbnail_url = EXCLUDED.thumbnail_url,
			video_url = EXCLUDED.video_url,
			updated_at = EXCLUDED.updated_at
	`, v.ID, v.Title, v.ThumbnailURL, v.VideoURL, v.CreatedAt.UTC(), v.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert video: %w", err)
	}
	return nil
}

// GetVideo retrieves a video by id.
func (s *Store) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, thumbnail_url, video_url, click_count, created_at, updated_at
		FROM videos WHERE id = $1
	`, id).Scan(&v.ID, &v.Title, &v.ThumbnailURL, &v.VideoURL, &v.ClickCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrVideoNotFound
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

// UpdateVideo overwrites a video's mutable fields. click_count is not
// part of this statement on purpose.
func (s *Store) UpdateVideo(ctx context.Context, v *model.Video) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE videos SET title = $2, thumbnail_url = $3, video_url = $4, updated_at = $5
		WHERE id = $1
	`, v.ID, v.Title, v.ThumbnailURL, v.VideoURL, v.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrVideoNotFound
	}
	return nil
}

// DeleteVideo removes a video from the catalog. Its click events stay
// in the event store.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrVideoNotFound
	}
	return nil
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sharetrack/sharetrack/internal/metrics"
	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store"
)

// videoIDLength is the hex length of derived video ids.
const videoIDLength = 12

// VideoService manages the video registry.
type VideoService struct {
	store   store.VideoStore
	metrics metrics.Recorder
}

// NewVideoService creates a new VideoService.
func NewVideoService(st store.VideoStore, recorder metrics.Recorder) *VideoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &VideoService{store: st, metrics: recorder}
}

// RegisterVideoInput defines input for registering a video.
type RegisterVideoInput struct {
	VideoID      string // optional; derived from title when empty
	Title        string
	ThumbnailURL string
	VideoURL     string
}

// Register adds a video to the registry and returns it. When no id is
// supplied one is derived from the title, so registering the same title
// twice is idempotent. Two distinct videos sharing a title collide on
// the same id; callers that need to distinguish them must supply ids.
func (s *VideoService) Register(ctx context.Context, input RegisterVideoInput) (*model.Video, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}

	id := input.VideoID
	if id == "" {
		id = deriveVideoID(input.Title)
	}

	now := time.Now().UTC()
	video := &model.Video{
		ID:           id,
		Title:        input.Title,
		ThumbnailURL: input.ThumbnailURL,
		VideoURL:     input.VideoURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.UpsertVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("register video: %w", err)
	}

	s.metrics.IncVideoRegistered()

	return video, nil
}

// Get retrieves a video by id.
func (s *VideoService) Get(ctx context.Context, id string) (*model.Video, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}

	video, err := s.store.GetVideo(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

// EditVideoInput defines input for editing a video. Nil fields keep
// their prior value.
type EditVideoInput struct {
	VideoID      string
	Title        *string
	ThumbnailURL *string
	VideoURL     *string
}

// Edit updates the supplied fields of an existing video. The click
// count is never settable through this path.
func (s *VideoService) Edit(ctx context.Context, input EditVideoInput) (*model.Video, error) {
	if input.VideoID == "" {
		return nil, ErrInvalidInput
	}

	video, err := s.store.GetVideo(ctx, input.VideoID)
	if err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrInvalidInput
		}
		video.Title = *input.Title
	}
	if input.ThumbnailURL != nil {
		video.ThumbnailURL = *input.ThumbnailURL
	}
	if input.VideoURL != nil {
		video.VideoURL = *input.VideoURL
	}
	video.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateVideo(ctx, video); err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	s.metrics.IncVideoUpdated()

	return video, nil
}

// Delete removes a video from the registry. Recorded click events for
// it are not deleted.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}

	if err := s.store.DeleteVideo(ctx, id); err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	s.metrics.IncVideoDeleted()

	return nil
}

// deriveVideoID returns a stable id for a title: the leading hex of its
// SHA256 digest.
func deriveVideoID(title string) string {
	sum := sha256.Sum256([]byte(title))
	return hex.EncodeToString(sum[:])[:videoIDLength]
}

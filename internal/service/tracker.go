// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sharetrack/sharetrack/internal/cache"
	"github.com/sharetrack/sharetrack/internal/metrics"
	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store"
)

// Service errors.
var (
	ErrInvalidInput  = errors.New("missing or invalid required field")
	ErrVideoNotFound = errors.New("video not found")
)

// TrackerService records click events and derives aggregates from them.
type TrackerService struct {
	store      store.ClickStore
	cache      *cache.Cache
	metrics    metrics.Recorder
	rankingTTL time.Duration
}

// NewTrackerService creates a new TrackerService. cache may be nil, in
// which case ranking reads always hit the store.
func NewTrackerService(st store.ClickStore, c *cache.Cache, recorder metrics.Recorder, rankingTTL time.Duration) *TrackerService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if rankingTTL <= 0 {
		rankingTTL = cache.DefaultRankingTTL
	}
	return &TrackerService{
		store:      st,
		cache:      c,
		metrics:    recorder,
		rankingTTL: rankingTTL,
	}
}

// RecordClickInput defines input for recording a click.
type RecordClickInput struct {
	VideoID string
	UserID  string
	// Origin is the deduplication context (caller network address).
	// Empty means unknown; unknown clicks are counted, not rejected.
	Origin string
	// Day is the UTC calendar date the click counts against, in
	// model.DayFormat. Empty means today (UTC).
	Day string
}

// RecordClick records a click with at-most-once-per-day semantics per
// (video, user, origin). A duplicate is a normal outcome, not an error.
func (s *TrackerService) RecordClick(ctx context.Context, input RecordClickInput) (model.TrackOutcome, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveTrackDuration(time.Since(start))
	}()

	if input.VideoID == "" || input.UserID == "" {
		return "", ErrInvalidInput
	}

	origin := input.Origin
	if origin == "" {
		origin = model.UnknownOrigin
	}

	day := input.Day
	if day == "" {
		day = model.DayOf(time.Now())
	} else if _, err := time.Parse(model.DayFormat, day); err != nil {
		return "", ErrInvalidInput
	}

	ev := &model.ClickEvent{
		ID:         ulid.Make().String(),
		VideoID:    input.VideoID,
		UserID:     input.UserID,
		Origin:     origin,
		Day:        day,
		RecordedAt: time.Now().UTC(),
	}

	counted, err := s.store.RecordClick(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("record click: %w", err)
	}

	outcome := model.OutcomeDuplicate
	if counted {
		outcome = model.OutcomeCounted
		s.invalidateRanking(ctx)
	}
	s.metrics.IncClick(string(outcome))

	return outcome, nil
}

// CountForUser returns the total click count for a user across all
// videos and days.
func (s *TrackerService) CountForUser(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrInvalidInput
	}
	return s.store.CountForUser(ctx, userID)
}

// Ranking returns all users with recorded clicks, sorted by count
// descending with a stable tie-break. Served from cache when possible.
func (s *TrackerService) Ranking(ctx context.Context) ([]model.RankingEntry, error) {
	return s.cachedRanking(ctx, cache.ClickRankingKey, s.rankingTTL, func() ([]model.RankingEntry, error) {
		return s.store.ClickRanking(ctx)
	})
}

// ResetClicks deletes all click events. The denormalized per-video
// click counts are deliberately not recomputed.
func (s *TrackerService) ResetClicks(ctx context.Context) error {
	if err := s.store.ResetClicks(ctx); err != nil {
		return err
	}
	s.invalidateRanking(ctx)
	return nil
}

func (s *TrackerService) invalidateRanking(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Best effort: a stale snapshot expires within the TTL anyway.
	_ = s.cache.InvalidateRanking(ctx, cache.ClickRankingKey)
}

func (s *TrackerService) cachedRanking(ctx context.Context, key string, ttl time.Duration, fetch func() ([]model.RankingEntry, error)) ([]model.RankingEntry, error) {
	return cachedRanking(ctx, s.cache, s.metrics, key, ttl, fetch)
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/sharetrack/sharetrack/internal/cache"
	"github.com/sharetrack/sharetrack/internal/metrics"
	"github.com/sharetrack/sharetrack/internal/model"
)

// cachedRanking serves a ranking snapshot cache-first. Cache failures
// fall through to the store; a ranking read must never fail because
// Redis is down.
func cachedRanking(
	ctx context.Context,
	c *cache.Cache,
	recorder metrics.Recorder,
	key string,
	ttl time.Duration,
	fetch func() ([]model.RankingEntry, error),
) ([]model.RankingEntry, error) {
	if c != nil {
		entries, err := c.GetRanking(ctx, key)
		if err == nil {
			recorder.IncRankingCacheHit()
			return entries, nil
		}
		if errors.Is(err, cache.ErrCacheMiss) {
			recorder.IncRankingCacheMiss()
		}
	}

	entries, err := fetch()
	if err != nil {
		return nil, err
	}

	if c != nil {
		_ = c.SetRanking(ctx, key, entries, ttl)
	}
	return entries, nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharetrack/sharetrack/internal/model"
)

// Ranking cache keys. Rankings are cheap to recompute but read far more
// often than they change, so a short-TTL snapshot absorbs bursts.
const (
	ClickRankingKey    = "ranking:clicks"
	ReferralRankingKey = "ranking:referrals"

	// DefaultRankingTTL bounds staleness when an invalidation is lost.
	DefaultRankingTTL = 30 * time.Second
)

// ErrCacheMiss is returned when a key is not present.
var ErrCacheMiss = errors.New("cache miss")

// GetRanking retrieves a cached ranking snapshot.
func (c *Cache) GetRanking(ctx context.Context, key string) ([]model.RankingEntry, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get ranking: %w", err)
	}

	var entries []model.RankingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode cached ranking: %w", err)
	}
	return entries, nil
}

// SetRanking stores a ranking snapshot with the given TTL.
func (c *Cache) SetRanking(ctx context.Context, key string, entries []model.RankingEntry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultRankingTTL
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set ranking: %w", err)
	}
	return nil
}

// InvalidateRanking drops a cached ranking snapshot.
func (c *Cache) InvalidateRanking(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del ranking: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/testutil"
)

// newIntegrationCache connects to the test Redis and flushes it. Skips
// when TEST_REDIS_URL is not set.
func newIntegrationCache(t *testing.T) *Cache {
	t.Helper()
	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")

	ctx := context.Background()
	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect to test Redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.client); err != nil {
		t.Fatalf("flush Redis: %v", err)
	}
	return c
}

func TestIntegration_RankingRoundTrip(t *testing.T) {
	c := newIntegrationCache(t)
	ctx := context.Background()

	if _, err := c.GetRanking(ctx, ClickRankingKey); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss on empty cache, got %v", err)
	}

	entries := []model.RankingEntry{
		{UserID: "alice", Count: 3},
		{UserID: "bob", Count: 1},
	}
	if err := c.SetRanking(ctx, ClickRankingKey, entries, time.Minute); err != nil {
		t.Fatalf("set ranking: %v", err)
	}

	got, err := c.GetRanking(ctx, ClickRankingKey)
	if err != nil {
		t.Fatalf("get ranking: %v", err)
	}
	if len(got) != 2 || got[0] != entries[0] || got[1] != entries[1] {
		t.Errorf("expected %+v, got %+v", entries, got)
	}

	if err := c.InvalidateRanking(ctx, ClickRankingKey); err != nil {
		t.Fatalf("invalidate ranking: %v", err)
	}
	if _, err := c.GetRanking(ctx, ClickRankingKey); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after invalidation, got %v", err)
	}
}

func TestIntegration_IPRateLimit(t *testing.T) {
	c := newIntegrationCache(t)
	ctx := context.Background()

	// Burst of 2 at 1 rps: two immediate requests pass, the third is
	// limited.
	for i := 0; i < 2; i++ {
		result, err := c.CheckIPRateLimit(ctx, "203.0.113.5", 1, 2)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("check %d: expected allowed", i)
		}
	}

	result, err := c.CheckIPRateLimit(ctx, "203.0.113.5", 1, 2)
	if err != nil {
		t.Fatalf("third check: %v", err)
	}
	if result.Allowed {
		t.Error("expected third request to be limited")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %s", result.RetryAfter)
	}

	// A different IP has its own bucket.
	other, err := c.CheckIPRateLimit(ctx, "203.0.113.6", 1, 2)
	if err != nil {
		t.Fatalf("other ip: %v", err)
	}
	if !other.Allowed {
		t.Error("expected a fresh bucket for a different ip")
	}
}

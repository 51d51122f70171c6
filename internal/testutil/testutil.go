// Package testutil provides shared helpers for tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store/sqlite"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewSQLiteStore opens an ephemeral SQLite store for a test and closes
// it on cleanup.
func NewSQLiteStore(t testing.TB) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetCoreSchema drops and recreates the core schema for tests.
func ResetCoreSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", "000001_core.down.sql")
	upPath := filepath.Join(root, "migrations", "000001_core.up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestClick creates a click event with sensible defaults.
func NewTestClick(t testing.TB, videoID, userID string) *model.ClickEvent {
	t.Helper()
	now := time.Now().UTC()
	return &model.ClickEvent{
		ID:         ulid.Make().String(),
		VideoID:    videoID,
		UserID:     userID,
		Origin:     "203.0.113.7",
		Day:        model.DayOf(now),
		RecordedAt: now,
	}
}

// NewTestVideo creates a video with sensible defaults.
func NewTestVideo(t testing.TB, id string) *model.Video {
	t.Helper()
	now := time.Now().UTC()
	return &model.Video{
		ID:           id,
		Title:        "Video " + id,
		ThumbnailURL: "https://cdn.example.com/" + id + ".jpg",
		VideoURL:     "https://videos.example.com/" + id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestReferralCode creates a referral code with sensible defaults.
func NewTestReferralCode(t testing.TB, userID, code string) *model.ReferralCode {
	t.Helper()
	return &model.ReferralCode{
		UserID:    userID,
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
}

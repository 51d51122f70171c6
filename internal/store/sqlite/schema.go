package sqlite

import (
	"database/sql"
	"fmt"
)

// schema is the embedded DDL. Statements are idempotent so Open can run
// them on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS click_events (
		id          TEXT PRIMARY KEY,
		video_id    TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		origin      TEXT NOT NULL,
		day         TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		UNIQUE (video_id, user_id, origin, day)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_click_events_user ON click_events (user_id);`,
	`CREATE TABLE IF NOT EXISTS videos (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL DEFAULT '',
		video_url     TEXT NOT NULL DEFAULT '',
		click_count   INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS referral_codes (
		user_id        TEXT PRIMARY KEY,
		code           TEXT NOT NULL UNIQUE,
		referred_count INTEGER NOT NULL DEFAULT 0,
		created_at     TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS referral_events (
		code        TEXT NOT NULL,
		new_user_id TEXT NOT NULL,
		applied_at  TIMESTAMP NOT NULL,
		PRIMARY KEY (code, new_user_id)
	);`,
}

func applySchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

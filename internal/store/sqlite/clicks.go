package sqlite

import (
	"context"
	"fmt"

	"github.com/sharetrack/sharetrack/internal/model"
)

// RecordClick inserts the event and bumps the owning video's counter in
// a single transaction. INSERT OR IGNORE carries the uniqueness check:
// zero rows affected means the tuple was already recorded.
func (s *Store) RecordClick(ctx context.Context, ev *model.ClickEvent) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin record click: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO click_events (id, video_id, user_id, origin, day, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?);`,
		ev.ID, ev.VideoID, ev.UserID, ev.Origin, ev.Day, ev.RecordedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("insert click event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert click event rows: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	// Unregistered videos get no counter update and no error.
	if _, err := tx.ExecContext(ctx, `
		UPDATE videos SET click_count = click_count + 1, updated_at = ? WHERE id = ?;`,
		ev.RecordedAt.UTC(), ev.VideoID,
	); err != nil {
		return false, fmt.Errorf("increment click count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit record click: %w", err)
	}
	return true, nil
}

// CountForUser returns the total number of click events for a user.
func (s *Store) CountForUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM click_events WHERE user_id = ?;`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count clicks for user: %w", err)
	}
	return count, nil
}

// ClickRanking groups events by user, sorted by count descending. The
// MIN(id) tie-break orders equal counts by first appearance, since
// event ids are time-sortable ULIDs.
func (s *Store) ClickRanking(ctx context.Context) ([]model.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, COUNT(*) AS cnt
		FROM click_events
		GROUP BY user_id
		ORDER BY cnt DESC, MIN(id) ASC, user_id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("query click ranking: %w", err)
	}
	defer rows.Close()

	var entries []model.RankingEntry
	for rows.Next() {
		var e model.RankingEntry
		if err := rows.Scan(&e.UserID, &e.Count); err != nil {
			return nil, fmt.Errorf("scan click ranking: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ResetClicks deletes every click event. Video click counts are left as
// they are.
func (s *Store) ResetClicks(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM click_events;`); err != nil {
		return fmt.Errorf("reset clicks: %w", err)
	}
	return nil
}

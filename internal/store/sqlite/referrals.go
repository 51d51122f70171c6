package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store"
)

// GetCodeByUser retrieves a user's referral binding.
func (s *Store) GetCodeByUser(ctx context.Context, userID string) (*model.ReferralCode, error) {
	var rc model.ReferralCode
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, code, referred_count, created_at
		FROM referral_codes WHERE user_id = ?;`, userID,
	).Scan(&rc.UserID, &rc.Code, &rc.ReferredCount, &rc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCodeNotFound
		}
		return nil, fmt.Errorf("get code by user: %w", err)
	}
	return &rc, nil
}

// CreateCode persists a new user<->code binding. A single row carries
// both directions, so the bijection is atomic by construction.
func (s *Store) CreateCode(ctx context.Context, rc *model.ReferralCode) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO referral_codes (user_id, code, referred_count, created_at)
		VALUES (?, ?, 0, ?);`,
		rc.UserID, rc.Code, rc.CreatedAt.UTC(),
	)
	if err != nil {
		// Driver error codes vary; detect constraint targets by message
		// the way the unique checks elsewhere in this package do.
		msg := err.Error()
		if strings.Contains(msg, "referral_codes.code") {
			return store.ErrCodeTaken
		}
		if strings.Contains(msg, "referral_codes.user_id") {
			return store.ErrUserHasCode
		}
		return fmt.Errorf("create referral code: %w", err)
	}
	return nil
}

// ApplyReferral resolves the code and increments its owner's count,
// deduplicated per (code, new user) pair via the referral_events
// primary key. Everything happens in one transaction.
func (s *Store) ApplyReferral(ctx context.Context, code, newUserID string) (model.ReferralOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin apply referral: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var ownerID string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM referral_codes WHERE code = ?;`, code,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReferralUnknownCode, nil
		}
		return "", fmt.Errorf("resolve referral code: %w", err)
	}

	if ownerID == newUserID {
		return model.ReferralSelf, nil
	}

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO referral_events (code, new_user_id, applied_at)
		VALUES (?, ?, ?);`,
		code, newUserID, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert referral event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("insert referral event rows: %w", err)
	}
	if n == 0 {
		return model.ReferralDuplicate, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE referral_codes SET referred_count = referred_count + 1 WHERE user_id = ?;`,
		ownerID,
	); err != nil {
		return "", fmt.Errorf("increment referred count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit apply referral: %w", err)
	}
	return model.ReferralApplied, nil
}

// ReferralRanking returns every code owner sorted by referred count
// descending, ties broken by binding age then user id.
func (s *Store) ReferralRanking(ctx context.Context) ([]model.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, referred_count
		FROM referral_codes
		ORDER BY referred_count DESC, created_at ASC, user_id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("query referral ranking: %w", err)
	}
	defer rows.Close()

	var entries []model.RankingEntry
	for rows.Next() {
		var e model.RankingEntry
		if err := rows.Scan(&e.UserID, &e.Count); err != nil {
			return nil, fmt.Errorf("scan referral ranking: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ResetReferralCounts zeroes all referred counts and clears the pair
// ledger so future referrals can count again. Bindings stay.
func (s *Store) ResetReferralCounts(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset referrals: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE referral_codes SET referred_count = 0;`); err != nil {
		return fmt.Errorf("reset referred counts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM referral_events;`); err != nil {
		return fmt.Errorf("reset referral events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset referrals: %w", err)
	}
	return nil
}

// Package store defines the storage contracts for click events, the
// video registry and the referral ledger, plus the sentinel errors
// shared by all backends.
package store

import (
	"context"
	"errors"

	"github.com/sharetrack/sharetrack/internal/model"
)

// Common errors returned by store implementations.
var (
	ErrVideoNotFound = errors.New("video not found")
	ErrCodeNotFound  = errors.New("referral code not found")
	// ErrCodeTaken indicates a freshly generated code collided with an
	// existing one. Callers retry with a new code.
	ErrCodeTaken = errors.New("referral code already taken")
	// ErrUserHasCode indicates the user already owns a code. Callers
	// re-read and return the existing binding.
	ErrUserHasCode = errors.New("user already has a referral code")
)

// ClickStore records and aggregates click events.
type ClickStore interface {
	// RecordClick inserts the event unless its (video, user, origin,
	// day) tuple already exists. On a counted insert the owning video's
	// click_count is incremented in the same transaction if and only if
	// the video is registered; clicks for unregistered videos are still
	// recorded. Returns false without error for duplicates.
	RecordClick(ctx context.Context, ev *model.ClickEvent) (counted bool, err error)

	// CountForUser returns the total number of events for a user across
	// all videos and days.
	CountForUser(ctx context.Context, userID string) (int64, error)

	// ClickRanking returns all users with at least one event, sorted by
	// count descending. Ties break by first appearance (smallest event
	// ID, which is time-sortable), then user id; the order is stable
	// across repeated calls on the same data.
	ClickRanking(ctx context.Context) ([]model.RankingEntry, error)

	// ResetClicks deletes all click events. It deliberately does not
	// touch the denormalized video click counts.
	ResetClicks(ctx context.Context) error
}

// VideoStore is the catalog of registered videos.
type VideoStore interface {
	// UpsertVideo registers a video. Re-registering an existing id
	// updates title and URLs but preserves the accumulated click count.
	UpsertVideo(ctx context.Context, v *model.Video) error

	GetVideo(ctx context.Context, id string) (*model.Video, error)

	// UpdateVideo overwrites the mutable fields of an existing video.
	// click_count is never settable through this path.
	UpdateVideo(ctx context.Context, v *model.Video) error

	// DeleteVideo removes a video. Recorded click events survive.
	DeleteVideo(ctx context.Context, id string) error
}

// ReferralStore maintains the user<->code bijection and referred counts.
type ReferralStore interface {
	GetCodeByUser(ctx context.Context, userID string) (*model.ReferralCode, error)

	// CreateCode persists a new binding atomically in both directions.
	// Returns ErrCodeTaken if the code is already bound to another user
	// and ErrUserHasCode if the user already owns a code.
	CreateCode(ctx context.Context, rc *model.ReferralCode) error

	// ApplyReferral resolves code to its owner and increments the
	// owner's referred count at most once per (code, new user) pair.
	// Self-referrals and unknown codes are reported as outcomes, never
	// as errors.
	ApplyReferral(ctx context.Context, code, newUserID string) (model.ReferralOutcome, error)

	// ReferralRanking returns all code owners sorted by referred count
	// descending, ties broken by binding creation order then user id.
	ReferralRanking(ctx context.Context) ([]model.RankingEntry, error)

	// ResetReferralCounts zeroes every referred count but keeps all
	// code bindings.
	ResetReferralCounts(ctx context.Context) error
}

// Store is the full persistence surface the services depend on.
type Store interface {
	ClickStore
	VideoStore
	ReferralStore

	Ping(ctx context.Context) error
	Close() error
}

// Package model defines domain entities for the application.
package model

import "time"

// DayFormat is the calendar-date layout used for click deduplication.
// Days are always derived in UTC; mixing timezone conventions would
// silently double-count clicks across day boundaries.
const DayFormat = "2006-01-02"

// UnknownOrigin is the sentinel origin recorded when the caller cannot
// supply one. Clicks with a missing origin are still counted, grouped
// under this value.
const UnknownOrigin = "unknown"

// ClickEvent represents a single recorded share click.
// The tuple (video_id, user_id, origin, day) is unique across the store:
// a second insert with the same tuple is a duplicate, not an overwrite.
type ClickEvent struct {
	ID string `json:"id"` // ULID (time-sortable)

	VideoID string `json:"video_id"`
	UserID  string `json:"user_id"`

	// Origin is the deduplication context, typically the caller's
	// network address. Defaults to UnknownOrigin.
	Origin string `json:"origin"`

	// Day is the UTC calendar date (DayFormat) the click counts against.
	Day string `json:"day"`

	RecordedAt time.Time `json:"recorded_at"`
}

// DayOf returns the UTC calendar day for t in DayFormat.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// TrackOutcome is the result of recording a click.
type TrackOutcome string

const (
	// OutcomeCounted means the event was stored and counted.
	OutcomeCounted TrackOutcome = "counted"
	// OutcomeDuplicate means an event with the same tuple already exists.
	OutcomeDuplicate TrackOutcome = "duplicate"
)

// RankingEntry is one row of a user ranking, shared by click and
// referral rankings.
type RankingEntry struct {
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Click tracking metrics
	IncClick(outcome string) // outcome: "counted" or "duplicate"
	ObserveTrackDuration(duration time.Duration)

	// Registry metrics
	IncVideoRegistered()
	IncVideoUpdated()
	IncVideoDeleted()

	// Referral metrics
	IncReferral(outcome string) // outcome: applied, duplicate, self_referral, unknown_code

	// Ranking cache metrics
	IncRankingCacheHit()
	IncRankingCacheMiss()
}

package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncClick is a no-op.
func (n *NoopRecorder) IncClick(outcome string) {}

// ObserveTrackDuration is a no-op.
func (n *NoopRecorder) ObserveTrackDuration(duration time.Duration) {}

// IncVideoRegistered is a no-op.
func (n *NoopRecorder) IncVideoRegistered() {}

// IncVideoUpdated is a no-op.
func (n *NoopRecorder) IncVideoUpdated() {}

// IncVideoDeleted is a no-op.
func (n *NoopRecorder) IncVideoDeleted() {}

// IncReferral is a no-op.
func (n *NoopRecorder) IncReferral(outcome string) {}

// IncRankingCacheHit is a no-op.
func (n *NoopRecorder) IncRankingCacheHit() {}

// IncRankingCacheMiss is a no-op.
func (n *NoopRecorder) IncRankingCacheMiss() {}

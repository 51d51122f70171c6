package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder on Prometheus collectors
// registered with the default registry.
type PrometheusRecorder struct {
	clickTotal       *prometheus.CounterVec
	trackDuration    prometheus.Histogram
	videoOpsTotal    *prometheus.CounterVec
	referralTotal    *prometheus.CounterVec
	rankingCacheHits *prometheus.CounterVec
}

// NewPrometheus returns a Recorder backed by the default Prometheus
// registry. Safe to call more than once: already-registered collectors
// are reused.
func NewPrometheus() *PrometheusRecorder {
	r := &PrometheusRecorder{
		clickTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharetrack_clicks_total",
			Help: "Total number of click recording attempts by outcome",
		}, []string{"outcome"}),
		trackDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sharetrack_track_duration_seconds",
			Help:    "Click recording duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		videoOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharetrack_video_operations_total",
			Help: "Total number of video registry mutations",
		}, []string{"operation"}),
		referralTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharetrack_referrals_total",
			Help: "Total number of referral registrations by outcome",
		}, []string{"outcome"}),
		rankingCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharetrack_ranking_cache_total",
			Help: "Ranking cache lookups by result",
		}, []string{"result"}),
	}

	r.clickTotal = registerOrGetCounterVec(r.clickTotal)
	r.trackDuration = registerOrGetHistogram(r.trackDuration)
	r.videoOpsTotal = registerOrGetCounterVec(r.videoOpsTotal)
	r.referralTotal = registerOrGetCounterVec(r.referralTotal)
	r.rankingCacheHits = registerOrGetCounterVec(r.rankingCacheHits)

	return r
}

// IncClick increments the click counter for an outcome.
func (r *PrometheusRecorder) IncClick(outcome string) {
	r.clickTotal.WithLabelValues(outcome).Inc()
}

// ObserveTrackDuration records a click recording duration.
func (r *PrometheusRecorder) ObserveTrackDuration(duration time.Duration) {
	r.trackDuration.Observe(duration.Seconds())
}

// IncVideoRegistered increments the register counter.
func (r *PrometheusRecorder) IncVideoRegistered() {
	r.videoOpsTotal.WithLabelValues("register").Inc()
}

// IncVideoUpdated increments the update counter.
func (r *PrometheusRecorder) IncVideoUpdated() {
	r.videoOpsTotal.WithLabelValues("update").Inc()
}

// IncVideoDeleted increments the delete counter.
func (r *PrometheusRecorder) IncVideoDeleted() {
	r.videoOpsTotal.WithLabelValues("delete").Inc()
}

// IncReferral increments the referral counter for an outcome.
func (r *PrometheusRecorder) IncReferral(outcome string) {
	r.referralTotal.WithLabelValues(outcome).Inc()
}

// IncRankingCacheHit increments the ranking cache hit counter.
func (r *PrometheusRecorder) IncRankingCacheHit() {
	r.rankingCacheHits.WithLabelValues("hit").Inc()
}

// IncRankingCacheMiss increments the ranking cache miss counter.
func (r *PrometheusRecorder) IncRankingCacheMiss() {
	r.rankingCacheHits.WithLabelValues("miss").Inc()
}

func registerOrGetCounterVec(c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if ok := asAlreadyRegistered(err, &are); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return c
}

func registerOrGetHistogram(h prometheus.Histogram) prometheus.Histogram {
	if err := prometheus.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if ok := asAlreadyRegistered(err, &are); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
	}
	return h
}

func asAlreadyRegistered(err error, target *prometheus.AlreadyRegisteredError) bool {
	if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
		*target = are
		return true
	}
	return false
}

var _ Recorder = (*PrometheusRecorder)(nil)

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation engine Prometheus metrics.
var (
	BootstrapRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cartfill",
			Name:      "bootstrap_runs_total",
			Help:      "Total artifact regeneration runs",
		},
		[]string{"status"}, // "success" / "error"
	)

	BootstrapDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cartfill",
			Name:      "bootstrap_duration_seconds",
			Help:      "Artifact regeneration duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cartfill",
			Name:      "recommend_requests_total",
			Help:      "Total recommendation computations",
		},
		[]string{"mode", "outcome"}, // mode: "item" / "customer"; outcome: "ok" / "empty"
	)

	CandidateSetSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cartfill",
			Name:      "candidate_set_size",
			Help:      "Admitted candidate count before top-k truncation",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"mode"},
	)

	RecCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cartfill",
			Name:      "recommendation_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	InsightsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cartfill",
			Name:      "insights_requests_total",
			Help:      "Total text-generation requests",
		},
		[]string{"kind", "status"}, // kind: "explanation" / "customer"; status: "success" / "quota" / "auth" / "error"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(BootstrapRunsTotal)
	prometheus.MustRegister(BootstrapDuration)
	prometheus.MustRegister(RecommendRequestsTotal)
	prometheus.MustRegister(CandidateSetSize)
	prometheus.MustRegister(RecCacheTotal)
	prometheus.MustRegister(InsightsRequestsTotal)
	engineMetricsRegistered = true
}

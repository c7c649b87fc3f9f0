// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parche_recommendations_total",
			Help: "Responses produced, by source (remote, local, error)",
		},
		[]string{"source"},
	)

	Intents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parche_intents_total",
			Help: "Locally classified intents",
		},
		[]string{"intent"},
	)

	RemoteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parche_remote_failures_total",
			Help: "Remote completion failures recovered by the local pipeline",
		},
		[]string{"reason"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parche_recommendation_duration_seconds",
			Help:    "Time to produce a response, by source",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	ThrottledRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parche_throttled_requests_total",
			Help: "Chat requests rejected by the per-client throttle",
		},
	)

	CatalogSnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parche_catalog_snapshot_size",
			Help: "Number of plans in the last catalog snapshot",
		},
	)
)

// ObserveResponse records one engine response.
func ObserveResponse(source, intent, fallbackReason string, seconds float64) {
	Recommendations.WithLabelValues(source).Inc()
	RecommendationDuration.WithLabelValues(source).Observe(seconds)
	if intent != "" {
		Intents.WithLabelValues(intent).Inc()
	}
	if fallbackReason != "" {
		RemoteFailures.WithLabelValues(fallbackReason).Inc()
	}
}

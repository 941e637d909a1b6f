// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_sessions_started_total",
			Help: "Total number of search sessions created",
		},
	)

	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_session_transitions_total",
			Help: "Session step transitions",
		},
		[]string{"from", "to"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_submissions_total",
			Help: "Submissions handed to the resolution engine, by outcome",
		},
		[]string{"mode", "outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_submission_duration_seconds",
			Help:    "Time spent waiting on the resolution engine",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_validation_failures_total",
			Help: "Rejected operator input, by error code",
		},
		[]string{"code"},
	)

	SubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_submissions_in_flight",
			Help: "Submissions currently awaiting the resolution engine",
		},
	)
)

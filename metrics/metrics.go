package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackfest_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackfest_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ScoresSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackfest_scores_submitted_total",
			Help: "Total number of score upserts by judge type",
		},
		[]string{"judge_type"},
	)

	ProgressTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackfest_progress_transitions_total",
			Help: "Total number of team progress changes",
		},
		[]string{"from", "to"},
	)

	GithubItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackfest_github_batch_items_total",
			Help: "Total number of GitHub batch items by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AttendanceScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackfest_attendance_scans_total",
			Help: "Total number of attendance scans by outcome",
		},
		[]string{"outcome"},
	)
)

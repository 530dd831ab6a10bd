// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_api_requests_total",
			Help: "Total number of backend API requests by method, path and outcome",
		},
		[]string{"method", "path", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "console_api_request_duration_seconds",
			Help: "Duration of backend API requests in seconds",
		},
		[]string{"method", "path"},
	)

	SelectorFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_selector_fetches_total",
			Help: "Total number of dependent-selector option fetches by selector and outcome",
		},
		[]string{"selector", "outcome"},
	)

	SelectorStaleDiscards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_selector_stale_discards_total",
			Help: "Option fetches discarded because a newer generation was already issued",
		},
		[]string{"selector"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_submissions_total",
			Help: "Total number of form submissions by screen and outcome",
		},
		[]string{"screen", "outcome"},
	)

	DraftCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_draft_cache_entries",
			Help: "Number of draft option records currently held in the local cache",
		},
	)
)

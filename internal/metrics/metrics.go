// Package metrics holds the portal's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by several collectors.
const (
	OutcomeSuccess   = "success"
	OutcomeBusiness  = "business_error"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
	OutcomeInvalid   = "validation_error"
)

var (
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_api_requests_total",
			Help: "Calls made to the talent-acquisition API",
		},
		[]string{"endpoint", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careers_api_request_duration_seconds",
			Help:    "Duration of talent-acquisition API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_catalog_refreshes_total",
			Help: "Job collection refresh attempts",
		},
		[]string{"outcome"},
	)

	CatalogJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "careers_catalog_jobs",
			Help: "Jobs currently held in the collection",
		},
	)

	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_applications_submitted_total",
			Help: "Application submissions by outcome",
		},
		[]string{"outcome"},
	)

	PendingApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_pending_applications_total",
			Help: "Deferred apply intents stashed and restored",
		},
		[]string{"event"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_http_requests_total",
			Help: "Portal HTTP requests",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careers_http_request_duration_seconds",
			Help:    "Portal HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

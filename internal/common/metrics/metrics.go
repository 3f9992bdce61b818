// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_searches_total",
			Help: "Total number of connection searches run",
		},
		[]string{"status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_cache_lookups_total",
			Help: "Total number of per-source cache lookups by outcome",
		},
		[]string{"source", "outcome"},
	)

	SourceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_source_calls_total",
			Help: "Total number of source calls by outcome",
		},
		[]string{"source", "outcome"},
	)

	PeopleFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_people_found_total",
			Help: "Total number of people returned by sources",
		},
		[]string{"source"},
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_validation_rejections_total",
			Help: "Total number of people rejected during validation",
		},
		[]string{"reason"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_search_duration_seconds",
			Help:    "Duration of full pipeline runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50},
		},
		[]string{"status"},
	)

	RateLimitWaits = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_rate_limit_wait_seconds",
			Help: "Time spent waiting on the per-source rate limiter",
		},
		[]string{"source"},
	)
)

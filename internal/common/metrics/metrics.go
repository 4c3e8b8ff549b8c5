// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_evaluations_total",
			Help: "Total number of evaluation passes, by aggregation mode",
		},
		[]string{"mode"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_evaluation_duration_seconds",
			Help: "Duration of one evaluation pass in seconds",
		},
		[]string{"mode"},
	)

	RecordsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_records_rejected_total",
			Help: "Progress rows rejected by boundary validation",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_cache_hits_total",
			Help: "Evaluation cache hits, by layer",
		},
		[]string{"layer"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_cache_misses_total",
			Help: "Evaluation cache misses, by layer",
		},
		[]string{"layer"},
	)

	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_notifications_dispatched_total",
			Help: "Suggested actions executed by the dispatcher",
		},
		[]string{"channel", "action"},
	)
)

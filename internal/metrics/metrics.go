package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LabelsTotal counts classified texts by assigned label
	LabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_labels_total",
			Help: "Total classified texts by label",
		},
		[]string{"label"},
	)

	// ScoringDuration tracks how long a scorer takes for one table
	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_scoring_duration_seconds",
			Help:    "Sentiment scoring duration in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"scorer"},
	)

	// ScoringErrors counts failed scoring calls
	ScoringErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_scoring_errors_total",
			Help: "Total failed sentiment scoring calls by scorer",
		},
		[]string{"scorer"},
	)

	// CacheLookups counts score cache lookups by result (hit/miss)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_lookups_total",
			Help: "Score cache lookups by result",
		},
		[]string{"result"},
	)

	// SinkErrors counts failed result deliveries by sink
	SinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_sink_errors_total",
			Help: "Failed result deliveries by sink",
		},
		[]string{"sink"},
	)
)

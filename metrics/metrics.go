// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_predictions_total",
			Help: "Total number of loan predictions by decision",
		},
		[]string{"decision"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_prediction_failures_total",
			Help: "Total number of failed predictions by error code",
		},
		[]string{"code"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_prediction_duration_seconds",
			Help:    "Duration of a single prediction in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
	)

	PredictionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_prediction_cache_hits_total",
			Help: "Total number of predictions served from the decision cache",
		},
	)

	TrainingSetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loan_training_set_size",
			Help: "Number of records in the loaded training set",
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

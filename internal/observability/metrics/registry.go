package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics. Path labels are route patterns, never raw URLs.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
			// Model inference dominates; summaries of large batches take tens of seconds.
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)
)

// Analysis metrics.
var (
	CommentsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comments_processed_total",
			Help: "Comment fragments received per operation",
		},
		[]string{"operation"},
	)

	SentimentLabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_labels_total",
			Help: "Sentiment results by label",
		},
		[]string{"label"},
	)

	SummaryChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_chunks",
			Help:    "Number of chunks per summarization request",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Summarization requests by outcome (summary, empty)",
		},
		[]string{"outcome"},
	)

	WordCloudsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordclouds_total",
			Help: "Word-cloud requests by outcome (image, empty)",
		},
		[]string{"outcome"},
	)

	BackendUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backend_up",
			Help: "1 if the last health probe of a backend succeeded",
		},
		[]string{"backend"},
	)
)

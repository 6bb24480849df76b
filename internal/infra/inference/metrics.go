package inference

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts outbound inference calls by backend and outcome.
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_requests_total",
			Help: "Total number of outbound model inference requests",
		},
		[]string{"backend", "outcome"},
	)

	// requestDuration tracks end-to-end latency including retries.
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_request_duration_seconds",
			Help:    "Outbound model inference latency in seconds, retries included",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"backend"},
	)
)

const (
	outcomeSuccess     = "success"
	outcomeError       = "error"
	outcomeCircuitOpen = "circuit_open"
	outcomeThrottled   = "throttled"
)

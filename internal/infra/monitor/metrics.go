package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_job_runs_total",
			Help: "Total scheduled job runs by job and status (success, failure)",
		},
		[]string{"job", "status"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_job_duration_seconds",
			Help:    "Duration of scheduled job runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"job"},
	)

	lastRunTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "monitor_job_last_run_timestamp",
			Help: "Unix timestamp of the last run of each scheduled job",
		},
		[]string{"job"},
	)
)

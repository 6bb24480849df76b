package summarizer

import (
	"sync"
	"time"

	"commentlens/internal/usecase/summarize"
	"commentlens/internal/utils/text"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder defines the interface for recording summary-related metrics.
// This interface abstracts the metrics recording implementation, enabling:
//   - Mocking in unit tests (inject mock recorder instead of Prometheus)
//   - Swapping metrics systems
//   - Reusability across engines (BART, OpenAI, Claude, extractive)
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in characters.
	RecordLength(engine string, length int)

	// RecordNoOutput counts engine answers that held no usable summary.
	RecordNoOutput(engine string)

	// RecordDuration records the time taken to generate a summary.
	RecordDuration(engine string, duration time.Duration)

	// RecordCache counts cache lookups by result ("hit" or "miss").
	RecordCache(result string)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus metrics.
type PrometheusSummaryMetrics struct {
	lengthHistogram   *prometheus.HistogramVec
	noOutputCounter   *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
	cacheCounter      *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogramVec gets an existing histogram or creates a new one if it doesn't exist
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		// If it's not an AlreadyRegisteredError, use promauto which handles this gracefully
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// getOrCreateCounterVec gets an existing counter or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusSummaryMetrics creates a new Prometheus-based metrics recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "comment_summary_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{100, 250, 500, 750, 1000, 1500, 2000, 3000},
			}, []string{"engine"}),
			noOutputCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "comment_summary_no_output_total",
				Help: "Total number of engine answers without a usable summary",
			}, []string{"engine"}),
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "comment_summarization_duration_seconds",
				Help:    "Time taken by one summarization engine call",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			}, []string{"engine"}),
			cacheCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "comment_summary_cache_lookups_total",
				Help: "Summary cache lookups by result",
			}, []string{"result"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.RecordLength
func (p *PrometheusSummaryMetrics) RecordLength(engine string, length int) {
	p.lengthHistogram.WithLabelValues(engine).Observe(float64(length))
}

// RecordNoOutput implements SummaryMetricsRecorder.RecordNoOutput
func (p *PrometheusSummaryMetrics) RecordNoOutput(engine string) {
	p.noOutputCounter.WithLabelValues(engine).Inc()
}

// RecordDuration implements SummaryMetricsRecorder.RecordDuration
func (p *PrometheusSummaryMetrics) RecordDuration(engine string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(engine).Observe(duration.Seconds())
}

// RecordCache implements SummaryMetricsRecorder.RecordCache
func (p *PrometheusSummaryMetrics) RecordCache(result string) {
	p.cacheCounter.WithLabelValues(result).Inc()
}

// observe records the outcome of one engine call.
func observe(m SummaryMetricsRecorder, engine string, res summarize.Result, d time.Duration) {
	m.RecordDuration(engine, d)
	if res.OK {
		m.RecordLength(engine, text.CountRunes(res.Text))
		return
	}
	m.RecordNoOutput(engine)
}

package metrics

import "commentlens/internal/domain/entity"

// Operations used as the "operation" label.
const (
	OperationSentiment = "sentiment"
	OperationSummarize = "summarize"
	OperationWordCloud = "wordcloud"
)

// RecordComments counts the fragments received by an operation.
func RecordComments(operation string, n int) {
	CommentsProcessedTotal.WithLabelValues(operation).Add(float64(n))
}

// RecordSentiments counts results per label. Non-canonical labels are folded
// into "other" to keep cardinality bounded.
func RecordSentiments(results []entity.Sentiment) {
	for _, r := range results {
		label := "other"
		if r.Label.IsCanonical() {
			label = r.Label.String()
		}
		SentimentLabelsTotal.WithLabelValues(label).Inc()
	}
}

// ObserveSummaryChunks records how many chunks one request was split into.
func ObserveSummaryChunks(chunks int) {
	SummaryChunks.Observe(float64(chunks))
}

// RecordSummary records one summarization request.
func RecordSummary(summary string) {
	outcome := "summary"
	if summary == "" {
		outcome = "empty"
	}
	SummariesTotal.WithLabelValues(outcome).Inc()
}

// RecordWordCloud records one word-cloud request.
func RecordWordCloud(rendered bool) {
	outcome := "image"
	if !rendered {
		outcome = "empty"
	}
	WordCloudsTotal.WithLabelValues(outcome).Inc()
}

// SetBackendUp publishes the result of a backend health probe.
func SetBackendUp(backend string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	BackendUp.WithLabelValues(backend).Set(v)
}

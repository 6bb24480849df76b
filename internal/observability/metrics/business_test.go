package metrics

import (
	"testing"

	"commentlens/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSentiments(t *testing.T) {
	pos := testutil.ToFloat64(SentimentLabelsTotal.WithLabelValues("positive"))
	other := testutil.ToFloat64(SentimentLabelsTotal.WithLabelValues("other"))

	RecordSentiments([]entity.Sentiment{
		{Label: entity.LabelPositive, Score: 0.9},
		{Label: entity.LabelPositive, Score: 0.7},
		{Label: entity.Label("mixed"), Score: 0.5},
	})

	assert.Equal(t, pos+2, testutil.ToFloat64(SentimentLabelsTotal.WithLabelValues("positive")))
	assert.Equal(t, other+1, testutil.ToFloat64(SentimentLabelsTotal.WithLabelValues("other")))
}

func TestRecordComments(t *testing.T) {
	before := testutil.ToFloat64(CommentsProcessedTotal.WithLabelValues(OperationWordCloud))

	RecordComments(OperationWordCloud, 7)

	assert.Equal(t, before+7, testutil.ToFloat64(CommentsProcessedTotal.WithLabelValues(OperationWordCloud)))
}

func TestRecordSummary(t *testing.T) {
	empty := testutil.ToFloat64(SummariesTotal.WithLabelValues("empty"))
	summary := testutil.ToFloat64(SummariesTotal.WithLabelValues("summary"))

	RecordSummary("")
	RecordSummary("viewers liked it")

	assert.Equal(t, empty+1, testutil.ToFloat64(SummariesTotal.WithLabelValues("empty")))
	assert.Equal(t, summary+1, testutil.ToFloat64(SummariesTotal.WithLabelValues("summary")))
}

func TestObserveSummaryChunks(t *testing.T) {
	before := testutil.CollectAndCount(SummaryChunks)

	ObserveSummaryChunks(3)

	assert.Equal(t, before, testutil.CollectAndCount(SummaryChunks))
}

func TestRecordWordCloud(t *testing.T) {
	image := testutil.ToFloat64(WordCloudsTotal.WithLabelValues("image"))

	RecordWordCloud(true)
	RecordWordCloud(false)

	assert.Equal(t, image+1, testutil.ToFloat64(WordCloudsTotal.WithLabelValues("image")))
}

func TestSetBackendUp(t *testing.T) {
	SetBackendUp("classifier", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(BackendUp.WithLabelValues("classifier")))

	SetBackendUp("classifier", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(BackendUp.WithLabelValues("classifier")))
}

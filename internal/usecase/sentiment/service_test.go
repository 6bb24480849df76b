package sentiment

import (
	"context"
	"errors"
	"testing"

	"commentlens/internal/domain/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───────── stub ───────── */

type stubClassifier struct {
	calls    int
	received [][]string
	fn       func(texts []string) ([]entity.RawClassification, error)
}

func (s *stubClassifier) Classify(_ context.Context, texts []string) ([]entity.RawClassification, error) {
	s.calls++
	s.received = append(s.received, texts)
	if s.fn != nil {
		return s.fn(texts)
	}
	out := make([]entity.RawClassification, len(texts))
	for i := range texts {
		out[i] = entity.RawClassification{Label: "LABEL_2", Score: 0.9}
	}
	return out, nil
}

func (s *stubClassifier) Name() string { return "stub" }

/* ───────── tests ───────── */

func TestService_Analyze(t *testing.T) {
	stub := &stubClassifier{fn: func([]string) ([]entity.RawClassification, error) {
		return []entity.RawClassification{{Label: "NEGATIVE", Score: 0.97}}, nil
	}}
	svc := NewService(stub)

	got, err := svc.Analyze(context.Background(), "this video is terrible")

	require.NoError(t, err)
	assert.Equal(t, entity.Sentiment{Label: entity.LabelNegative, Score: 0.97}, got)
	assert.Equal(t, 1, stub.calls)
}

func TestService_AnalyzeBatch_SingleCallInOrder(t *testing.T) {
	stub := &stubClassifier{fn: func(texts []string) ([]entity.RawClassification, error) {
		return []entity.RawClassification{
			{Label: "LABEL_0", Score: 0.8},
			{Label: "LABEL_1", Score: 0.7},
			{Label: "LABEL_2", Score: 0.55},
		}, nil
	}}
	svc := NewService(stub)

	got, err := svc.AnalyzeBatch(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	want := []entity.Sentiment{
		{Label: entity.LabelNegative, Score: 0.8},
		{Label: entity.LabelNeutral, Score: 0.7},
		{Label: entity.LabelNeutral, Score: 0.55},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AnalyzeBatch mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, stub.calls, "batch must be a single classifier call")
	assert.Equal(t, []string{"a", "b", "c"}, stub.received[0])
}

func TestService_AnalyzeBatch_Empty(t *testing.T) {
	stub := &stubClassifier{}
	svc := NewService(stub)

	got, err := svc.AnalyzeBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, stub.calls)
}

func TestService_AnalyzeBatch_UnknownLabelPassesThrough(t *testing.T) {
	stub := &stubClassifier{fn: func([]string) ([]entity.RawClassification, error) {
		return []entity.RawClassification{{Label: "MIXED", Score: 0.9}}, nil
	}}

	got, err := NewService(stub).AnalyzeBatch(context.Background(), []string{"x"})

	require.NoError(t, err)
	assert.Equal(t, entity.Label("mixed"), got[0].Label)
	assert.False(t, got[0].Label.IsCanonical())
}

func TestService_AnalyzeBatch_ClassifierError(t *testing.T) {
	boom := errors.New("backend unreachable")
	stub := &stubClassifier{fn: func([]string) ([]entity.RawClassification, error) {
		return nil, boom
	}}

	_, err := NewService(stub).AnalyzeBatch(context.Background(), []string{"x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stub")
}

func TestService_AnalyzeBatch_LengthMismatch(t *testing.T) {
	stub := &stubClassifier{fn: func([]string) ([]entity.RawClassification, error) {
		return []entity.RawClassification{{Label: "POSITIVE", Score: 1}}, nil
	}}

	_, err := NewService(stub).AnalyzeBatch(context.Background(), []string{"x", "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 results for 2 texts")
}

func TestService_Backend(t *testing.T) {
	assert.Equal(t, "stub", NewService(&stubClassifier{}).Backend())
}

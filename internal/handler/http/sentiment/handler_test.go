package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentlens/internal/domain/entity"
	"commentlens/internal/handler/http/respond"
	sentimentUC "commentlens/internal/usecase/sentiment"
)

type stubClassifier struct {
	mu    sync.Mutex
	calls [][]string
	fn    func(texts []string) ([]entity.RawClassification, error)
}

func (s *stubClassifier) Classify(_ context.Context, texts []string) ([]entity.RawClassification, error) {
	s.mu.Lock()
	s.calls = append(s.calls, texts)
	s.mu.Unlock()
	if s.fn != nil {
		return s.fn(texts)
	}
	out := make([]entity.RawClassification, len(texts))
	for i, t := range texts {
		switch {
		case strings.Contains(t, "love"):
			out[i] = entity.RawClassification{Label: "LABEL_2", Score: 0.91}
		case strings.Contains(t, "hate"):
			out[i] = entity.RawClassification{Label: "LABEL_0", Score: 0.88}
		default:
			out[i] = entity.RawClassification{Label: "LABEL_1", Score: 0.7}
		}
	}
	return out, nil
}

func (s *stubClassifier) Name() string { return "stub" }

func serve(t *testing.T, c sentimentUC.Classifier, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	Register(mux, sentimentUC.NewService(c), func(h http.Handler) http.Handler { return h })
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, "/sentiment", strings.NewReader(body)))
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp respond.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

func TestAnalyzeHandler_Single(t *testing.T) {
	stub := &stubClassifier{}

	rr := serve(t, stub, http.MethodPost, `{"text":"I love this"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var got Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, Result{Label: "positive", Score: 0.91}, got)
	assert.Equal(t, [][]string{{"I love this"}}, stub.calls)
}

func TestAnalyzeHandler_SingleLabelRules(t *testing.T) {
	tests := []struct {
		name  string
		raw   entity.RawClassification
		label string
	}{
		{"uncertain score is neutral", entity.RawClassification{Label: "POSITIVE", Score: 0.55}, "neutral"},
		{"lower case input label", entity.RawClassification{Label: "negative", Score: 0.9}, "negative"},
		{"unknown label passes through", entity.RawClassification{Label: "FOO", Score: 0.9}, "foo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubClassifier{fn: func([]string) ([]entity.RawClassification, error) {
				return []entity.RawClassification{tt.raw}, nil
			}}

			rr := serve(t, stub, http.MethodPost, `{"text":"x"}`)

			require.Equal(t, http.StatusOK, rr.Code)
			var got Result
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.raw.Score, got.Score)
		})
	}
}

func TestAnalyzeHandler_Batch(t *testing.T) {
	stub := &stubClassifier{}

	rr := serve(t, stub, http.MethodPost, `{"texts":["love it","meh","hate it"]}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var got BatchResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	want := BatchResponse{Results: []Result{
		{Label: "positive", Score: 0.91},
		{Label: "neutral", Score: 0.7},
		{Label: "negative", Score: 0.88},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("batch response mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, stub.calls, 1, "batch is a single classifier call")
}

func TestAnalyzeHandler_EmptyBatch(t *testing.T) {
	stub := &stubClassifier{}

	rr := serve(t, stub, http.MethodPost, `{"texts":[]}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"results":[]}`, rr.Body.String())
	assert.Empty(t, stub.calls)
}

func TestAnalyzeHandler_TextWinsOverTexts(t *testing.T) {
	stub := &stubClassifier{}

	rr := serve(t, stub, http.MethodPost, `{"text":"love","texts":["hate","hate"]}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, [][]string{{"love"}}, stub.calls)
}

func TestAnalyzeHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"neither field", `{}`, "text: either text or texts is required"},
		{"null fields", `{"text":null,"texts":null}`, "either text or texts"},
		{"malformed json", `{"text":`, "body: malformed JSON"},
		{"wrong type", `{"texts":"one"}`, `field "texts"`},
		{"empty body", ``, "request body is empty"},
		{"batch too large", `{"texts":[` + strings.TrimSuffix(strings.Repeat(`"a",`, MaxBatchTexts+1), ",") + `]}`, "texts: must not contain more than 512 entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubClassifier{}

			rr := serve(t, stub, http.MethodPost, tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decodeError(t, rr), tt.wantMsg)
			assert.Empty(t, stub.calls)
		})
	}
}

func TestAnalyzeHandler_ClassifierFailure(t *testing.T) {
	stub := &stubClassifier{fn: func([]string) ([]entity.RawClassification, error) {
		return nil, errors.New("model server exploded, token hf_abcdefghijklmnop")
	}}

	rr := serve(t, stub, http.MethodPost, `{"texts":["a"]}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", decodeError(t, rr))
}

func TestAnalyzeHandler_BackendUnavailable(t *testing.T) {
	stub := &stubClassifier{fn: func([]string) ([]entity.RawClassification, error) {
		return nil, entity.ErrBackendUnavailable
	}}

	rr := serve(t, stub, http.MethodPost, `{"text":"a"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "internal server error", decodeError(t, rr))
}

func TestRegister_MethodNotAllowed(t *testing.T) {
	rr := serve(t, &stubClassifier{}, http.MethodGet, "")

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

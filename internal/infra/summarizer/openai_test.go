package summarizer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"commentlens/internal/resilience/retry"
	"commentlens/internal/usecase/summarize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIServer(t *testing.T, status int, content string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var lastReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &lastReq)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"invalid model","type":"invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastReq
}

func newTestOpenAI(baseURL string) (*OpenAI, *mockMetricsRecorder) {
	rec := &mockMetricsRecorder{}
	o := NewOpenAI(LLMConfig{APIKey: "sk-test", BaseURL: baseURL + "/v1", Timeout: 5 * time.Second})
	o.metricsRecorder = rec
	return o, rec
}

func TestOpenAI_Summarize(t *testing.T) {
	srv, lastReq := openAIServer(t, http.StatusOK, "  Viewers praise the pacing.  ")
	o, rec := newTestOpenAI(srv.URL)

	got, err := o.Summarize(context.Background(), "great pacing\nloved it", summarize.ParamsFor(180))

	require.NoError(t, err)
	assert.Equal(t, summarize.Output("Viewers praise the pacing."), got)
	assert.Equal(t, "gpt-4o-mini", (*lastReq)["model"])
	assert.EqualValues(t, 180*2+64, (*lastReq)["max_tokens"])
	assert.NotNil(t, (*lastReq)["temperature"])
	assert.Equal(t, []int{26}, rec.lengths)
	assert.Equal(t, "openai:gpt-4o-mini", o.Name())
	assert.False(t, o.IsOpen())
}

func TestOpenAI_Summarize_EmptyCompletion(t *testing.T) {
	srv, _ := openAIServer(t, http.StatusOK, "   ")
	o, rec := newTestOpenAI(srv.URL)

	got, err := o.Summarize(context.Background(), "text", summarize.ParamsFor(0))

	require.NoError(t, err)
	assert.Equal(t, summarize.NoOutput(), got)
	assert.Equal(t, 1, rec.noOutputs)
}

func TestOpenAI_Summarize_ClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid model","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)
	o, _ := newTestOpenAI(srv.URL)

	_, err := o.Summarize(context.Background(), "text", summarize.ParamsFor(0))

	require.Error(t, err)
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, 1, calls)
}

package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"commentlens/internal/infra/inference"
	"commentlens/internal/observability/logging"
	"commentlens/internal/usecase/summarize"
)

// DefaultHuggingFaceModel is the abstractive summarization model.
const DefaultHuggingFaceModel = "facebook/bart-large-cnn"

// Poster is the part of the inference client used by HuggingFace.
type Poster interface {
	Post(ctx context.Context, model string, payload any) ([]byte, error)
}

// HuggingFace summarizes through a hosted summarization model.
type HuggingFace struct {
	client          Poster
	model           string
	metricsRecorder SummaryMetricsRecorder
}

// NewHuggingFace creates an engine for the given model.
func NewHuggingFace(client Poster, model string) *HuggingFace {
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	return &HuggingFace{
		client:          client,
		model:           model,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Name returns the engine name.
func (h *HuggingFace) Name() string { return "huggingface:" + h.model }

type bartRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters bartParameters `json:"parameters"`
	Options    bartOptions    `json:"options"`
}

type bartParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type bartOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Summarize returns Output only when the response is a non-empty list whose
// first element carries a summary_text string; any other shape is NoOutput.
func (h *HuggingFace) Summarize(ctx context.Context, input string, p summarize.Params) (summarize.Result, error) {
	start := time.Now()
	body, err := h.client.Post(ctx, h.model, bartRequest{
		Inputs: input,
		Parameters: bartParameters{
			MaxLength: p.MaxLength,
			MinLength: p.MinLength,
			DoSample:  !p.Deterministic,
		},
		Options: bartOptions{WaitForModel: true},
	})
	if err != nil {
		return summarize.Result{}, fmt.Errorf("huggingface summarize: %w", err)
	}

	res := parseSummary(body)
	if !res.OK {
		logging.FromContext(ctx).Warn("summarization response without summary_text",
			slog.String("engine", h.Name()),
			inference.Preview(body))
	}
	observe(h.metricsRecorder, h.Name(), res, time.Since(start))
	return res, nil
}

func parseSummary(body []byte) summarize.Result {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		return summarize.NoOutput()
	}
	raw, ok := items[0]["summary_text"]
	if !ok {
		return summarize.NoOutput()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return summarize.NoOutput()
	}
	if s = strings.TrimSpace(s); s == "" {
		return summarize.NoOutput()
	}
	return summarize.Output(s)
}

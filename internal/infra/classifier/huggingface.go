package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"commentlens/internal/domain/entity"
	"commentlens/internal/infra/inference"
	"commentlens/internal/observability/logging"
)

// DefaultHuggingFaceModel is a three-class model whose labels are LABEL_0..LABEL_2.
const DefaultHuggingFaceModel = "cardiffnlp/twitter-roberta-base-sentiment"

// Poster is the part of the inference client used by remote backends.
type Poster interface {
	Post(ctx context.Context, model string, payload any) ([]byte, error)
}

// HuggingFace classifies texts through a hosted text-classification model.
type HuggingFace struct {
	client Poster
	model  string
}

// NewHuggingFace creates a classifier for the given model.
func NewHuggingFace(client Poster, model string) *HuggingFace {
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	return &HuggingFace{client: client, model: model}
}

// Name returns the backend name.
func (h *HuggingFace) Name() string { return "huggingface:" + h.model }

type hfRequest struct {
	Inputs  []string  `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends all texts in one request and keeps the top label per text.
func (h *HuggingFace) Classify(ctx context.Context, texts []string) ([]entity.RawClassification, error) {
	body, err := h.client.Post(ctx, h.model, hfRequest{
		Inputs:  texts,
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("huggingface classify: %w", err)
	}

	items, err := decodeClassifications(body)
	if err != nil {
		logging.FromContext(ctx).Warn("unexpected classification response", inference.Preview(body), slog.Any("error", err))
		return nil, fmt.Errorf("huggingface classify: %w", err)
	}

	// A single input may come back unwrapped as a flat label list.
	if len(texts) == 1 && len(items) > 1 {
		items = [][]hfLabel{flatten(items)}
	}

	if len(items) != len(texts) {
		logging.FromContext(ctx).Warn("classification count mismatch",
			slog.Int("inputs", len(texts)),
			slog.Int("results", len(items)),
			inference.Preview(body))
		return nil, fmt.Errorf("huggingface classify: got %d results for %d inputs", len(items), len(texts))
	}

	out := make([]entity.RawClassification, len(texts))
	for i := range items {
		out[i] = top(items[i])
	}
	return out, nil
}

// decodeClassifications accepts [[{label,score}...]...] or a flat [{label,score}...].
func decodeClassifications(body []byte) ([][]hfLabel, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("response is not a list: %w", err)
	}

	items := make([][]hfLabel, 0, len(raw))
	for _, r := range raw {
		var group []hfLabel
		if err := json.Unmarshal(r, &group); err == nil {
			items = append(items, group)
			continue
		}
		var single hfLabel
		if err := json.Unmarshal(r, &single); err != nil {
			return nil, fmt.Errorf("unrecognized classification item: %w", err)
		}
		items = append(items, []hfLabel{single})
	}
	return items, nil
}

func flatten(items [][]hfLabel) []hfLabel {
	var out []hfLabel
	for _, g := range items {
		out = append(out, g...)
	}
	return out
}

func top(labels []hfLabel) entity.RawClassification {
	var best entity.RawClassification
	for i, l := range labels {
		if i == 0 || l.Score > best.Score {
			best = entity.RawClassification{Label: l.Label, Score: l.Score}
		}
	}
	return best
}

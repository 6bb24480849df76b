//go:build ORT

package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"commentlens/internal/domain/entity"
	"commentlens/internal/usecase/sentiment"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultHugotModel is an ONNX export of a binary POSITIVE/NEGATIVE sentiment model.
const DefaultHugotModel = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"

// Hugot runs a text-classification pipeline in process on ONNX Runtime.
// It needs the onnxruntime shared library and libtokenizers at link time,
// so it is only compiled with -tags ORT.
type Hugot struct {
	// The pipeline is not documented as safe for concurrent runs.
	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	model    string
}

// NewHugot loads model from modelDir, downloading it first when the
// directory does not hold it yet.
func NewHugot(model, modelDir string) (*Hugot, error) {
	if model == "" {
		model = DefaultHugotModel
	}
	if modelDir == "" {
		modelDir = "./models"
	}

	modelPath, err := ensureModel(model, modelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "commentSentiment",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("create hugot pipeline: %w", err)
	}

	slog.Info("hugot classifier ready",
		slog.String("model", model),
		slog.String("path", modelPath))

	return &Hugot{session: session, pipeline: pipeline, model: model}, nil
}

func newHugotClassifier(model, modelDir string) (sentiment.Classifier, error) {
	h, err := NewHugot(model, modelDir)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func ensureModel(model, modelDir string) (string, error) {
	local := filepath.Join(modelDir, filepath.Base(model))
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}
	slog.Info("downloading model", slog.String("model", model), slog.String("dir", modelDir))
	path, err := hugot.DownloadModel(model, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", model, err)
	}
	return path, nil
}

// Name returns the backend name.
func (h *Hugot) Name() string { return "hugot:" + h.model }

// Classify runs all texts through the pipeline as one batch.
func (h *Hugot) Classify(ctx context.Context, texts []string) ([]entity.RawClassification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline(texts)
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("hugot classify: %w", err)
	}

	out := make([]entity.RawClassification, len(texts))
	for i := range texts {
		if i >= len(output.ClassificationOutputs) {
			break
		}
		for j, c := range output.ClassificationOutputs[i] {
			if j == 0 || float64(c.Score) > out[i].Score {
				out[i] = entity.RawClassification{Label: c.Label, Score: float64(c.Score)}
			}
		}
	}
	return out, nil
}

// Close releases the inference session.
func (h *Hugot) Close() error {
	return h.session.Destroy()
}

// Package sentiment classifies texts through a pluggable backend and maps the
// backend's labels onto positive, negative and neutral.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"

	"commentlens/internal/domain/entity"
	"commentlens/internal/observability/logging"
)

// Classifier is a sentiment model backend. Implementations must be safe for
// concurrent use and return exactly one classification per input text, in order.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]entity.RawClassification, error)
	Name() string
}

// Service normalizes classifier output.
type Service struct {
	classifier Classifier
}

// NewService creates a sentiment service over the given classifier.
func NewService(c Classifier) *Service {
	return &Service{classifier: c}
}

// Backend returns the name of the configured classifier.
func (s *Service) Backend() string {
	return s.classifier.Name()
}

// Analyze classifies a single text.
func (s *Service) Analyze(ctx context.Context, text string) (entity.Sentiment, error) {
	res, err := s.AnalyzeBatch(ctx, []string{text})
	if err != nil {
		return entity.Sentiment{}, err
	}
	return res[0], nil
}

// AnalyzeBatch classifies texts with a single classifier call and returns
// results in input order. An empty batch returns an empty slice without
// touching the classifier.
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string) ([]entity.Sentiment, error) {
	if len(texts) == 0 {
		return []entity.Sentiment{}, nil
	}

	raw, err := s.classifier.Classify(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("classify %d texts with %s: %w", len(texts), s.classifier.Name(), err)
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("classify with %s: got %d results for %d texts",
			s.classifier.Name(), len(raw), len(texts))
	}

	out := make([]entity.Sentiment, len(raw))
	for i, r := range raw {
		out[i] = Normalize(r)
		if !out[i].Label.IsCanonical() {
			logging.FromContext(ctx).Warn("classifier returned unknown label",
				slog.String("backend", s.classifier.Name()),
				slog.String("label", r.Label),
				slog.Float64("score", r.Score))
		}
	}
	return out, nil
}

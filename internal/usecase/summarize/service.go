// Package summarize condenses a list of comment fragments into one summary by
// summarizing fixed-size chunks and then summarizing the partial summaries.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"commentlens/internal/observability/logging"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxTokens is the summary budget used when the caller gives none.
	DefaultMaxTokens = 180

	minSummaryLength = 60

	partialSeparator = " \n"
)

// Service runs the chunk-and-merge pipeline over an Engine.
type Service struct {
	engine      Engine
	chunkChars  int
	concurrency int
	onChunks    func(n int)
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets how many chunks may be summarized at the same time.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithChunkChars overrides the chunk size.
func WithChunkChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.chunkChars = n
		}
	}
}

// WithChunkObserver registers fn to be told how many chunks each request produced.
func WithChunkObserver(fn func(n int)) Option {
	return func(s *Service) {
		s.onChunks = fn
	}
}

// NewService creates a summarization service over the given engine.
func NewService(e Engine, opts ...Option) *Service {
	s := &Service{
		engine:      e,
		chunkChars:  DefaultChunkChars,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the name of the configured engine.
func (s *Service) Backend() string {
	return s.engine.Name()
}

// ParamsFor derives engine parameters from a token budget.
func ParamsFor(maxTokens int) Params {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return Params{
		MaxLength:     maxTokens,
		MinLength:     max(minSummaryLength, maxTokens/3),
		Deterministic: true,
	}
}

// SummarizeComments summarizes texts into a single string.
//
// Fragments are trimmed, blanks dropped, and the rest joined with newlines.
// Blank input returns "" without calling the engine. Chunks whose summary is
// unusable are skipped. With more than one partial summary, the partials are
// summarized again; if that final pass is unusable the joined partials are
// returned as they are. Engine errors are returned to the caller.
func (s *Service) SummarizeComments(ctx context.Context, texts []string, maxTokens int) (string, error) {
	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return "", nil
	}

	params := ParamsFor(maxTokens)
	chunks := ChunkText(strings.Join(kept, "\n"), s.chunkChars)
	if s.onChunks != nil {
		s.onChunks(len(chunks))
	}

	partials, err := s.summarizeChunks(ctx, chunks, params)
	if err != nil {
		return "", err
	}

	logging.FromContext(ctx).Debug("chunk summaries complete",
		slog.String("engine", s.engine.Name()),
		slog.Int("chunks", len(chunks)),
		slog.Int("partials", len(partials)))

	switch len(partials) {
	case 0:
		return "", nil
	case 1:
		return partials[0], nil
	}

	merged := strings.Join(partials, partialSeparator)
	final, err := s.engine.Summarize(ctx, merged, params)
	if err != nil {
		return "", fmt.Errorf("summarize merged partials: %w", err)
	}
	if !final.OK {
		return merged, nil
	}
	return final.Text, nil
}

// summarizeChunks returns the usable partial summaries in chunk order.
func (s *Service) summarizeChunks(ctx context.Context, chunks []string, p Params) ([]string, error) {
	results := make([]Result, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ch := range chunks {
		g.Go(func() error {
			res, err := s.engine.Summarize(gctx, ch, p)
			if err != nil {
				return fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	partials := make([]string, 0, len(results))
	for _, r := range results {
		if r.OK {
			partials = append(partials, r.Text)
		}
	}
	return partials, nil
}

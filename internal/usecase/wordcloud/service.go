// Package wordcloud turns a list of comment fragments into a word-cloud image.
package wordcloud

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"commentlens/internal/domain/entity"
	"commentlens/internal/observability/logging"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 400
	DefaultBackground = "white"

	// TopWordsLimit caps the word list returned next to the image.
	TopWordsLimit = 20

	fragmentSeparator = " \n"
)

// Options controls the rendered image.
type Options struct {
	Width      int
	Height     int
	Background string
}

// WithDefaults fills zero fields with the default canvas settings.
func (o Options) WithDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if strings.TrimSpace(o.Background) == "" {
		o.Background = DefaultBackground
	}
	return o
}

// Renderer draws a word cloud from word frequencies.
type Renderer interface {
	Render(ctx context.Context, freqs map[string]int, opts Options) (image.Image, error)
}

// Result is a generated word cloud. ImageBase64 is nil when there was
// nothing to draw.
type Result struct {
	ImageBase64 *string
	TopWords    []WordCount
}

// Service produces word-cloud images.
type Service struct {
	renderer Renderer
}

// NewService creates a word-cloud service over the given renderer.
func NewService(r Renderer) *Service {
	return &Service{renderer: r}
}

// Generate renders texts into a base64-encoded PNG.
// Blank fragments are ignored; if nothing remains the renderer is not called.
func (s *Service) Generate(ctx context.Context, texts []string, opts Options) (Result, error) {
	joined := strings.Join(entity.NonBlank(texts), fragmentSeparator)
	if strings.TrimSpace(joined) == "" {
		return Result{TopWords: []WordCount{}}, nil
	}

	freqs := Frequencies(joined)
	top := TopWords(freqs, TopWordsLimit)
	if len(freqs) == 0 {
		// Only stopwords or numbers: nothing the renderer could place.
		return Result{TopWords: top}, nil
	}

	opts = opts.WithDefaults()
	img, err := s.renderer.Render(ctx, freqs, opts)
	if err != nil {
		return Result{}, fmt.Errorf("render word cloud: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("encode word cloud png: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	logging.FromContext(ctx).Debug("word cloud rendered",
		slog.Int("words", len(freqs)),
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
		slog.Int("png_bytes", buf.Len()))

	return Result{ImageBase64: &encoded, TopWords: top}, nil
}

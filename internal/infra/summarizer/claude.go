// Package summarizer provides the summarization engines behind the
// chunk-and-merge pipeline: a hosted BART model, OpenAI and Claude chat models,
// and an offline extractive fallback, plus a cache decorator.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"commentlens/internal/domain/entity"
	"commentlens/internal/observability/logging"
	"commentlens/internal/resilience/circuitbreaker"
	"commentlens/internal/resilience/retry"
	"commentlens/internal/usecase/summarize"
	"commentlens/internal/utils/text"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-3-5-haiku-latest"

// Claude implements summarize.Engine using Claude AI.
type Claude struct {
	client          anthropic.Client
	model           string
	timeout         time.Duration
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder SummaryMetricsRecorder
}

// NewClaude creates a new Claude summarizer.
// The SDK's own retries are disabled; retry.WithBackoff owns retrying.
func NewClaude(cfg LLMConfig) *Claude {
	if cfg.Model == "" {
		cfg.Model = DefaultClaudeModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("Initialized Claude summarizer", slog.String("model", cfg.Model))

	return &Claude{
		client:          anthropic.NewClient(opts...),
		model:           cfg.Model,
		timeout:         cfg.Timeout,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ChatAPIConfig("claude-summarizer")),
		retryConfig:     retry.ChatAPIConfig(),
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Name returns the engine name.
func (c *Claude) Name() string { return "claude:" + c.model }

// IsOpen reports whether the circuit breaker currently rejects calls.
func (c *Claude) IsOpen() bool { return c.circuitBreaker.IsOpen() }

// Summarize generates a summary of the given text using Claude AI.
// It uses circuit breaker and retry logic for improved reliability.
func (c *Claude) Summarize(ctx context.Context, input string, p summarize.Params) (summarize.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result summarize.Result

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doSummarize(ctx, input, p)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				logging.FromContext(ctx).Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api: %w", entity.ErrBackendUnavailable)
			}
			return err
		}

		result = cbResult.(summarize.Result)
		return nil
	})

	if retryErr != nil {
		return summarize.Result{}, fmt.Errorf("claude summarize failed after retries: %w", retryErr)
	}

	return result, nil
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (c *Claude) doSummarize(ctx context.Context, input string, p summarize.Params) (summarize.Result, error) {
	// Generate unique request ID for tracing
	requestID := uuid.New().String()

	truncated, cut := text.TruncateRunes(input, maxInputChars)
	if cut {
		slog.WarnContext(ctx, "text truncated for claude api",
			slog.String("request_id", requestID),
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", maxInputChars))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(responseTokenBudget(p)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(buildPrompt(truncated, p)),
			),
		},
	}
	if p.Deterministic {
		params.Temperature = anthropic.Float(0)
	}

	start := time.Now()
	message, err := c.client.Messages.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return summarize.Result{}, fmt.Errorf("claude api error: %w",
				&retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()})
		}
		return summarize.Result{}, fmt.Errorf("claude api error: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	res := summarize.NoOutput()
	if s := strings.TrimSpace(strings.Join(parts, "")); s != "" {
		res = summarize.Output(s)
	}

	slog.DebugContext(ctx, "Summarization completed",
		slog.String("request_id", requestID),
		slog.Bool("ok", res.OK),
		slog.Int("summary_length", text.CountRunes(res.Text)),
		slog.Duration("duration", duration))

	observe(c.metricsRecorder, c.Name(), res, duration)
	return res, nil
}

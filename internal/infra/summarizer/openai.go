package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"commentlens/internal/domain/entity"
	"commentlens/internal/observability/logging"
	"commentlens/internal/resilience/circuitbreaker"
	"commentlens/internal/resilience/retry"
	"commentlens/internal/usecase/summarize"
	"commentlens/internal/utils/text"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI implements summarize.Engine using OpenAI's chat completion API.
// It includes circuit breaker and retry logic for improved reliability.
type OpenAI struct {
	client          *openai.Client
	model           string
	timeout         time.Duration
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder SummaryMetricsRecorder
}

// NewOpenAI creates a new OpenAI summarizer.
func NewOpenAI(cfg LLMConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("Initialized OpenAI summarizer", slog.String("model", cfg.Model))

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           cfg.Model,
		timeout:         cfg.Timeout,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ChatAPIConfig("openai-summarizer")),
		retryConfig:     retry.ChatAPIConfig(),
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Name returns the engine name.
func (o *OpenAI) Name() string { return "openai:" + o.model }

// IsOpen reports whether the circuit breaker currently rejects calls.
func (o *OpenAI) IsOpen() bool { return o.circuitBreaker.IsOpen() }

// Summarize generates a summary of the given text.
// An empty completion is reported as NoOutput.
func (o *OpenAI) Summarize(ctx context.Context, input string, p summarize.Params) (summarize.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var result summarize.Result

	// Wrap with retry logic
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		// Execute through circuit breaker
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSummarize(ctx, input, p)
		})

		// Handle circuit breaker open state
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				logging.FromContext(ctx).Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api: %w", entity.ErrBackendUnavailable)
			}
			return err
		}

		result = cbResult.(summarize.Result)
		return nil
	})

	if retryErr != nil {
		return summarize.Result{}, fmt.Errorf("openai summarize failed after retries: %w", retryErr)
	}

	return result, nil
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doSummarize(ctx context.Context, input string, p summarize.Params) (summarize.Result, error) {
	truncated, cut := text.TruncateRunes(input, maxInputChars)
	if cut {
		slog.WarnContext(ctx, "text truncated for openai api",
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", maxInputChars))
	}

	req := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: responseTokenBudget(p),
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(truncated, p),
		}},
	}
	if p.Deterministic {
		// A zero temperature is dropped by omitempty and the API would fall back to 1.
		req.Temperature = math.SmallestNonzeroFloat32
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("engine", o.Name()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return summarize.Result{}, openAIError(err)
	}

	res := summarize.NoOutput()
	if len(resp.Choices) > 0 {
		if s := strings.TrimSpace(resp.Choices[0].Message.Content); s != "" {
			res = summarize.Output(s)
		}
	}

	slog.DebugContext(ctx, "Summarization completed",
		slog.String("engine", o.Name()),
		slog.Bool("ok", res.OK),
		slog.Int("summary_length", text.CountRunes(res.Text)),
		slog.Duration("duration", duration))

	observe(o.metricsRecorder, o.Name(), res, duration)
	return res, nil
}

// openAIError exposes the HTTP status of API errors so retry can classify them.
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return fmt.Errorf("openai api error: %w", &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message})
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return fmt.Errorf("openai api error: %w", &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()})
	}
	return fmt.Errorf("openai api error: %w", err)
}

package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"commentlens/internal/domain/entity"
	"commentlens/internal/observability/logging"
	"commentlens/internal/resilience/circuitbreaker"
	"commentlens/internal/resilience/retry"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const (
	DefaultOpenAIModel = "gpt-4o-mini"

	openAIClassifyPrompt = `Classify the sentiment of each numbered comment as POSITIVE, NEGATIVE or NEUTRAL.
Reply with a JSON object {"results":[{"label":"...","score":0.0}]} holding exactly one entry per comment, in order.
score is your confidence between 0 and 1.`
)

// OpenAIConfig holds the settings of the OpenAI classifier.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAI classifies texts with a chat completion model in JSON mode.
type OpenAI struct {
	client         *openai.Client
	model          string
	timeout        time.Duration
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewOpenAI creates an OpenAI classifier.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientCfg),
		model:          cfg.Model,
		timeout:        cfg.Timeout,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ChatAPIConfig("openai-classifier")),
		retryConfig:    retry.ChatAPIConfig(),
	}
}

// Name returns the backend name.
func (o *OpenAI) Name() string { return "openai:" + o.model }

// IsOpen reports whether the circuit breaker currently rejects calls.
func (o *OpenAI) IsOpen() bool { return o.circuitBreaker.IsOpen() }

type openAIResults struct {
	Results []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// Classify asks the model for one label per text. Missing entries are
// returned as zero values so the batch keeps its length.
func (o *OpenAI) Classify(ctx context.Context, texts []string) ([]entity.RawClassification, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var content string
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		res, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doClassify(ctx, texts)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				return fmt.Errorf("openai classifier: %w", entity.ErrBackendUnavailable)
			}
			return err
		}
		content = res.(string)
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("openai classify: %w", retryErr)
	}

	var parsed openAIResults
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("openai classify: decode model output: %w", err)
	}
	if len(parsed.Results) != len(texts) {
		logging.FromContext(ctx).Warn("openai classifier returned unexpected result count",
			slog.Int("texts", len(texts)),
			slog.Int("results", len(parsed.Results)))
		return nil, fmt.Errorf("openai classify: got %d results for %d inputs", len(parsed.Results), len(texts))
	}

	out := make([]entity.RawClassification, len(texts))
	for i, r := range parsed.Results {
		out[i] = entity.RawClassification{Label: r.Label, Score: r.Score}
	}
	return out, nil
}

func (o *OpenAI) doClassify(ctx context.Context, texts []string) (string, error) {
	var b strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.ReplaceAll(t, "\n", " "))
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAIClassifyPrompt},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return "", toHTTPError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// toHTTPError exposes the status code of API errors so retry can classify them.
func toHTTPError(err error) error {
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

// Package inference provides a JSON client for hosted model inference APIs
// with outbound rate limiting, retries and a circuit breaker.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"commentlens/internal/domain/entity"
	"commentlens/internal/observability/logging"
	"commentlens/internal/resilience/circuitbreaker"
	"commentlens/internal/resilience/retry"
	"commentlens/internal/utils/text"

	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL is the Hugging Face serverless inference endpoint.
	DefaultBaseURL = "https://api-inference.huggingface.co"

	maxResponseBytes = 8 << 20
	previewLength    = 120
)

// Config holds the settings of one inference client.
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	Retry     retry.Config
	Breaker   circuitbreaker.Config
}

// Client posts JSON payloads to /models/{model} and returns the raw response body.
// A Client is safe for concurrent use.
type Client struct {
	name       string
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *RateLimiter
	breaker    *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
}

// NewClient creates a client. name labels logs, metrics and the circuit breaker.
func NewClient(name string, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.InferenceConfig()
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.InferenceAPIConfig(name)
	}

	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    NewRateLimiter(cfg.RateLimit, cfg.Burst),
		breaker:    circuitbreaker.New(cfg.Breaker),
		retryCfg:   cfg.Retry,
	}
}

// Name returns the client name.
func (c *Client) Name() string { return c.name }

// IsOpen reports whether the circuit breaker currently rejects calls.
func (c *Client) IsOpen() bool { return c.breaker.IsOpen() }

// Post sends payload to the given model and returns the response body.
// Non-2xx responses are returned as *retry.HTTPError; an open circuit
// yields an error wrapping entity.ErrBackendUnavailable.
func (c *Client) Post(ctx context.Context, model string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", c.name, err)
	}

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		requestsTotal.WithLabelValues(c.name, outcomeThrottled).Inc()
		return nil, fmt.Errorf("%s rate limiter: %w", c.name, err)
	}

	endpoint := c.baseURL + "/models/" + model
	var respBody []byte
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, retry.WithBackoff(ctx, c.retryCfg, func() error {
			b, err := c.do(ctx, endpoint, body)
			if err != nil {
				return err
			}
			respBody = b
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			requestsTotal.WithLabelValues(c.name, outcomeCircuitOpen).Inc()
			return nil, fmt.Errorf("%s: %w: %v", c.name, entity.ErrBackendUnavailable, err)
		}
		requestsTotal.WithLabelValues(c.name, outcomeError).Inc()
		logging.FromContext(ctx).Error("inference request failed",
			slog.String("backend", c.name),
			slog.String("model", model),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err))
		return nil, fmt.Errorf("%s request: %w", c.name, err)
	}

	requestsTotal.WithLabelValues(c.name, outcomeSuccess).Inc()
	logging.FromContext(ctx).Debug("inference request succeeded",
		slog.String("backend", c.name),
		slog.String("model", model),
		slog.Duration("elapsed", time.Since(start)))
	return respBody, nil
}

func (c *Client) do(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    preview(respBody),
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}
	return respBody, nil
}

// Preview returns a log attribute holding the start of a response body.
func Preview(body []byte) slog.Attr {
	return slog.String("raw_response", preview(body))
}

func preview(body []byte) string {
	raw, _ := text.TruncateRunes(strings.TrimSpace(string(body)), previewLength)
	return raw
}

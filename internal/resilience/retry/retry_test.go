package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff(t *testing.T) {
	unavailable := &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: "model loading"}

	tests := []struct {
		name         string
		failures     int
		err          error
		wantAttempts int
		wantErr      bool
	}{
		{name: "first attempt succeeds", failures: 0, err: unavailable, wantAttempts: 1},
		{name: "succeeds after transient failures", failures: 2, err: unavailable, wantAttempts: 3},
		{name: "gives up after max attempts", failures: 10, err: unavailable, wantAttempts: 3, wantErr: true},
		{name: "does not retry client errors", failures: 10, err: &HTTPError{StatusCode: 400}, wantAttempts: 1, wantErr: true},
		{name: "does not retry plain errors", failures: 10, err: errors.New("bad payload"), wantAttempts: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := WithBackoff(context.Background(), fastConfig(3), func() error {
				attempts++
				if attempts <= tt.failures {
					return tt.err
				}
				return nil
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Second

	attempts := 0
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		cancel()
		return &HTTPError{StatusCode: http.StatusBadGateway}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestWithBackoff_HonorsRetryAfterCappedAtMaxDelay(t *testing.T) {
	cfg := fastConfig(2)
	cfg.MaxDelay = 20 * time.Millisecond

	start := time.Now()
	attempts := 0
	err := WithBackoff(context.Background(), cfg, func() error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("wrapped: %w", &HTTPError{StatusCode: http.StatusTooManyRequests, RetryAfter: time.Hour})
		}
		return nil
	})

	require.NoError(t, err)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: false},
		{name: "500", err: &HTTPError{StatusCode: 500}, want: true},
		{name: "503 wrapped", err: fmt.Errorf("inference: %w", &HTTPError{StatusCode: 503}), want: true},
		{name: "429", err: &HTTPError{StatusCode: 429}, want: true},
		{name: "408", err: &HTTPError{StatusCode: 408}, want: true},
		{name: "400", err: &HTTPError{StatusCode: 400}, want: false},
		{name: "401", err: &HTTPError{StatusCode: 401}, want: false},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset", err: syscall.ECONNRESET, want: true},
		{name: "network unreachable", err: syscall.ENETUNREACH, want: true},
		{name: "generic", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "empty", value: "", want: 0},
		{name: "seconds", value: "7", want: 7 * time.Second},
		{name: "zero", value: "0", want: 0},
		{name: "negative", value: "-3", want: 0},
		{name: "http date", value: now.Add(90 * time.Second).Format(http.TimeFormat), want: 90 * time.Second},
		{name: "past date", value: now.Add(-time.Minute).Format(http.TimeFormat), want: 0},
		{name: "garbage", value: "soon", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRetryAfter(tt.value, now))
		})
	}
}

func TestPresets(t *testing.T) {
	assert.Equal(t, 3, DefaultConfig().MaxAttempts)
	assert.Equal(t, 2*time.Second, ChatAPIConfig().InitialDelay)
	assert.Equal(t, 4, InferenceConfig().MaxAttempts)
	assert.Equal(t, 20*time.Second, InferenceConfig().MaxDelay)
}

func TestHTTPError_Error(t *testing.T) {
	assert.Equal(t, "HTTP 503: model loading", (&HTTPError{StatusCode: 503, Message: "model loading"}).Error())
}

func TestAddJitter(t *testing.T) {
	d := 100 * time.Millisecond
	assert.Equal(t, d, addJitter(d, 0))

	seen := map[time.Duration]bool{}
	for i := 0; i < 20; i++ {
		got := addJitter(d, 0.2)
		assert.GreaterOrEqual(t, got, d)
		assert.LessOrEqual(t, got, 120*time.Millisecond)
		seen[got] = true
	}
	assert.Greater(t, len(seen), 1)
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentlens/internal/infra/monitor"
)

type stubBackends struct {
	results map[string]monitor.CheckResult
}

func (s stubBackends) Snapshot() map[string]monitor.CheckResult { return s.results }

func (s stubBackends) Healthy() bool {
	for _, r := range s.results {
		if r.Status != monitor.StatusHealthy {
			return false
		}
	}
	return true
}

func healthyBackends() stubBackends {
	return stubBackends{results: map[string]monitor.CheckResult{
		"inference": {Status: monitor.StatusHealthy, CheckedAt: time.Now()},
	}}
}

func failingBackends() stubBackends {
	return stubBackends{results: map[string]monitor.CheckResult{
		"inference": {Status: monitor.StatusHealthy, CheckedAt: time.Now()},
		"cache":     {Status: monitor.StatusUnhealthy, Message: "connection refused", CheckedAt: time.Now()},
	}}
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		backends       BackendStatus
		expectedStatus int
		expectedBody   string
		expectedChecks int
	}{
		{"no backends", nil, http.StatusOK, "ok", 0},
		{"healthy backends", healthyBackends(), http.StatusOK, "ok", 1},
		{"failing backend", failingBackends(), http.StatusServiceUnavailable, "unhealthy", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandler{Version: "1.0.0", Backends: tt.backends}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, must-revalidate", rr.Header().Get("Cache-Control"))

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.expectedBody, resp.Status)
			assert.Equal(t, "1.0.0", resp.Version)
			assert.Len(t, resp.Checks, tt.expectedChecks)
			_, err := time.Parse(time.RFC3339, resp.Timestamp)
			assert.NoError(t, err)
		})
	}
}

func TestHealthHandler_ReportsProbeMessage(t *testing.T) {
	h := &HealthHandler{Backends: failingBackends()}
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, monitor.StatusUnhealthy, resp.Checks["cache"].Status)
	assert.Equal(t, "connection refused", resp.Checks["cache"].Message)
}

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		backends       BackendStatus
		expectedStatus int
		expectedBody   string
	}{
		{"no backends", nil, http.StatusOK, "ready"},
		{"healthy", healthyBackends(), http.StatusOK, "ready"},
		{"failing", failingBackends(), http.StatusServiceUnavailable, "backends not ready\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &ReadyHandler{Backends: tt.backends}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rr := httptest.NewRecorder()

	(&LiveHandler{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
	assert.Equal(t, "alive", rr.Body.String())
}

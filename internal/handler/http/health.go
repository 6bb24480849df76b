// Package http provides the HTTP middleware, operational endpoints and
// metrics of the API server. Analysis endpoints live in subpackages.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"commentlens/internal/infra/monitor"
)

// BackendStatus exposes the latest backend probe results.
type BackendStatus interface {
	Snapshot() map[string]monitor.CheckResult
	Healthy() bool
}

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                         `json:"status"`    // "ok" or "unhealthy"
	Timestamp string                         `json:"timestamp"` // RFC 3339, UTC
	Version   string                         `json:"version"`
	Checks    map[string]monitor.CheckResult `json:"checks"`
}

// HealthHandler reports overall status and the result of each backend probe.
// Backends is optional; without it the service reports ok with no checks.
type HealthHandler struct {
	Version  string
	Backends BackendStatus
}

// ServeHTTP returns 200 when every backend passed its latest probe, 503 otherwise.
//
// @Summary      Service health
// @Description  Overall status with the latest result of every backend probe
// @Tags         operations
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
		Checks:    map[string]monitor.CheckResult{},
	}
	code := http.StatusOK
	if h.Backends != nil {
		resp.Checks = h.Backends.Snapshot()
		if !h.Backends.Healthy() {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "health: failed to encode response", slog.Any("error", err))
	}
}

// ReadyHandler handles readiness probes.
type ReadyHandler struct {
	Backends BackendStatus
}

// ServeHTTP returns "ready", or 503 while a backend probe is failing.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Backends != nil && !h.Backends.Healthy() {
		http.Error(w, "backends not ready", http.StatusServiceUnavailable)
		return
	}
	writeText(w, r, "ready")
}

// LiveHandler handles liveness probes. It always answers while the process serves.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeText(w, r, "alive")
}

func writeText(w http.ResponseWriter, r *http.Request, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", slog.Any("error", err))
	}
}

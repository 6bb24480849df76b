// Package respond writes JSON responses and sanitizes errors before they reach clients.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"commentlens/internal/domain/entity"
	"commentlens/internal/observability/logging"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error" example:"texts must not be empty"`
}

// JSON writes v as JSON with the given status code.
func JSON(ctx context.Context, w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; nothing left to do but log.
			logging.FromContext(ctx).Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes err's message verbatim. Use only for client-caused errors.
func Error(ctx context.Context, w http.ResponseWriter, code int, err error) {
	JSON(ctx, w, code, ErrorResponse{Error: err.Error()})
}

// SafeError returns client errors as-is and replaces everything else with
// "internal server error". 5xx details are logged with secrets masked.
func SafeError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	code := StatusFor(err)
	if code < http.StatusInternalServerError {
		JSON(ctx, w, code, ErrorResponse{Error: clientMessage(err)})
		return
	}

	logging.FromContext(ctx).Error("internal server error",
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(ctx, w, code, ErrorResponse{Error: "internal server error"})
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, entity.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage prefers the validation error itself over any wrapping context.
func clientMessage(err error) string {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) && !isJoined(err) {
		return vErr.Error()
	}
	return err.Error()
}

func isJoined(err error) bool {
	_, ok := err.(interface{ Unwrap() []error })
	return ok
}

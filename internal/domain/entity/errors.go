package entity

import "errors"

var (
	// ErrInvalidInput marks client mistakes. Every *ValidationError matches it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackendUnavailable means a model backend refused the call, usually
	// because its circuit breaker is open.
	ErrBackendUnavailable = errors.New("inference backend unavailable")
)

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is makes errors.Is(err, ErrInvalidInput) hold for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

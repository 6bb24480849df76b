package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"commentlens/internal/domain/entity"
)

// DecodeJSON reads a single JSON object from the request body into v.
// Every failure is returned as an *entity.ValidationError so SafeError maps it to 400.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return &entity.ValidationError{Field: "body", Message: decodeMessage(err)}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &entity.ValidationError{Field: "body", Message: "must contain a single JSON object"}
	}
	return nil
}

func decodeMessage(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &maxErr):
		return fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed JSON"
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
		}
		return fmt.Sprintf("expected %s", typeErr.Type)
	default:
		return "invalid JSON"
	}
}

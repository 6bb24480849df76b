package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// Request bounds. Images larger than this are refused before any rendering.
const (
	MaxImageDimension = 4096
	MaxSummaryTokens  = 1024
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
var colorNamePattern = regexp.MustCompile(`^[a-zA-Z]+$`)

// ValidateDimension checks a width or height. Zero means "use the default".
func ValidateDimension(field string, v int) error {
	if v < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	if v > MaxImageDimension {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d", MaxImageDimension),
		}
	}
	return nil
}

// ValidateColor accepts a CSS color name or a #rgb / #rrggbb hex value.
// An empty string means "use the default".
func ValidateColor(field, c string) error {
	c = strings.TrimSpace(c)
	if c == "" || hexColorPattern.MatchString(c) || colorNamePattern.MatchString(c) {
		return nil
	}
	return &ValidationError{Field: field, Message: "must be a color name or #rrggbb"}
}

// ValidateMaxTokens checks a summary token budget. Zero or less means "use the default".
func ValidateMaxTokens(field string, v int) error {
	if v > MaxSummaryTokens {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d", MaxSummaryTokens),
		}
	}
	return nil
}

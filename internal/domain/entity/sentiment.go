package entity

import "strings"

// Label is a sentiment label as returned to API clients.
// The canonical set is positive, negative and neutral; anything else is a
// lower-cased label passed through from a classifier that used a vocabulary
// we do not know.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// IsCanonical reports whether the label is one of positive, negative or neutral.
func (l Label) IsCanonical() bool {
	switch l {
	case LabelPositive, LabelNegative, LabelNeutral:
		return true
	default:
		return false
	}
}

func (l Label) String() string { return string(l) }

// RawClassification is what a classifier backend produces for one text,
// before label normalization.
type RawClassification struct {
	Label string
	Score float64
}

// Sentiment is the normalized per-text result.
type Sentiment struct {
	Label Label
	Score float64
}

// NonBlank returns the texts that contain something other than whitespace.
func NonBlank(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

// Package sentiment provides the HTTP handler for sentiment classification.
package sentiment

import "commentlens/internal/domain/entity"

// Request accepts either a single text or a batch. When both are present the
// single text wins.
type Request struct {
	Text  *string  `json:"text,omitempty" example:"This video was super helpful"`
	Texts []string `json:"texts,omitempty"`
}

// Result is one classified text.
type Result struct {
	Label string  `json:"label" example:"positive"`
	Score float64 `json:"score" example:"0.93"`
}

// BatchResponse is returned for {"texts": [...]} requests.
type BatchResponse struct {
	Results []Result `json:"results"`
}

func toResult(s entity.Sentiment) Result {
	return Result{Label: s.Label.String(), Score: s.Score}
}

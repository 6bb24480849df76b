// Package summary provides the HTTP handler that condenses comments into one summary.
package summary

// Request lists the comment fragments to summarize.
// MaxSummaryTokens of zero or null selects the default budget of 180.
type Request struct {
	Texts            []string `json:"texts"`
	MaxSummaryTokens *int     `json:"max_summary_tokens,omitempty" example:"180"`
}

// Response carries the summary; it is empty when there was nothing to summarize.
type Response struct {
	Summary string `json:"summary" example:"Viewers found the tutorial clear and asked for a follow-up on testing."`
}

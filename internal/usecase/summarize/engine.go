package summarize

import "context"

// Params controls the length of a single summary.
type Params struct {
	MaxLength int
	MinLength int
	// Deterministic disables sampling so the same input yields the same output.
	Deterministic bool
}

// Result is what an engine produced for one input.
// OK is false when the backend answered but gave nothing usable.
type Result struct {
	Text string
	OK   bool
}

// Output wraps usable summary text.
func Output(text string) Result { return Result{Text: text, OK: true} }

// NoOutput is the result for a response with no usable summary.
func NoOutput() Result { return Result{} }

// Engine is a length-constrained summarization backend.
// A returned error means the backend could not be reached or failed;
// an answer that is merely unusable is reported as NoOutput.
type Engine interface {
	Summarize(ctx context.Context, text string, p Params) (Result, error)
	Name() string
}

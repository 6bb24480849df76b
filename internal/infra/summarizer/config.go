package summarizer

import (
	"fmt"
	"strings"
	"time"

	"commentlens/internal/usecase/summarize"
)

// LLMConfig holds the settings shared by the chat-model summarizers.
type LLMConfig struct {
	// APIKey authenticates against the provider.
	APIKey string

	// Model is the provider's model identifier.
	Model string

	// BaseURL overrides the provider endpoint. Empty means the SDK default.
	BaseURL string

	// Timeout is the maximum duration for a single summarization call.
	Timeout time.Duration
}

// Validate checks the configuration.
func (c LLMConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// maxInputChars bounds the text sent to chat models in one call.
// Chunking keeps inputs near 3000 characters, so this only trips on merge passes.
const maxInputChars = 10000

// buildPrompt asks for a summary of roughly p.MinLength..p.MaxLength words.
func buildPrompt(text string, p summarize.Params) string {
	return fmt.Sprintf(
		"Summarize the following viewer comments in plain prose. "+
			"Use between %d and %d words. Describe what viewers say, not the comments themselves.\n\n%s",
		p.MinLength, p.MaxLength, text)
}

// responseTokenBudget leaves headroom so the model can finish its last sentence.
func responseTokenBudget(p summarize.Params) int {
	return p.MaxLength*2 + 64
}

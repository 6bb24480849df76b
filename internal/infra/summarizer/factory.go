package summarizer

import (
	"fmt"
	"strings"
	"time"

	"commentlens/internal/usecase/summarize"
)

// Backend names accepted by New.
const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendClaude      = "claude"
	BackendExtractive  = "extractive"
)

// Options selects and configures a summarization engine.
type Options struct {
	Backend string

	Inference Poster
	HFModel   string

	OpenAI LLMConfig
	Claude LLMConfig

	// Cache is optional; when set, usable results are cached for CacheTTL.
	Cache    Cache
	CacheTTL time.Duration
}

// New builds the engine named by opts.Backend.
func New(opts Options) (summarize.Engine, error) {
	var engine summarize.Engine
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendHuggingFace:
		if opts.Inference == nil {
			return nil, fmt.Errorf("huggingface summarizer requires an inference client")
		}
		engine = NewHuggingFace(opts.Inference, opts.HFModel)
	case BackendOpenAI:
		if err := opts.OpenAI.Validate(); err != nil {
			return nil, fmt.Errorf("invalid OpenAI configuration: %w", err)
		}
		engine = NewOpenAI(opts.OpenAI)
	case BackendClaude:
		if err := opts.Claude.Validate(); err != nil {
			return nil, fmt.Errorf("invalid Claude configuration: %w", err)
		}
		engine = NewClaude(opts.Claude)
	case "", BackendExtractive:
		engine = NewExtractive()
	default:
		return nil, fmt.Errorf("unknown summary backend %q", opts.Backend)
	}

	if opts.Cache != nil {
		engine = NewCached(engine, opts.Cache, opts.CacheTTL)
	}
	return engine, nil
}

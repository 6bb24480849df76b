// Package classifier provides the sentiment model backends.
package classifier

import (
	"errors"
	"fmt"
	"strings"

	"commentlens/internal/usecase/sentiment"
)

// Backend names accepted by New.
const (
	BackendVader       = "vader"
	BackendHuggingFace = "huggingface"
	BackendHugot       = "hugot"
	BackendOpenAI      = "openai"
)

// ErrHugotUnavailable is returned for the hugot backend when the binary was
// built without the ORT tag.
var ErrHugotUnavailable = errors.New("hugot backend requires a build with -tags ORT")

// Options selects and configures a classifier backend.
type Options struct {
	Backend string

	Inference Poster
	HFModel   string

	HugotModel string
	HugotDir   string

	OpenAI OpenAIConfig
}

// New builds the classifier named by opts.Backend.
func New(opts Options) (sentiment.Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendVader:
		return NewVader(), nil
	case BackendHuggingFace:
		if opts.Inference == nil {
			return nil, fmt.Errorf("huggingface classifier requires an inference client")
		}
		return NewHuggingFace(opts.Inference, opts.HFModel), nil
	case BackendHugot:
		return newHugotClassifier(opts.HugotModel, opts.HugotDir)
	case BackendOpenAI:
		if opts.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai classifier requires OPENAI_API_KEY")
		}
		return NewOpenAI(opts.OpenAI), nil
	default:
		return nil, fmt.Errorf("unknown sentiment backend %q", opts.Backend)
	}
}

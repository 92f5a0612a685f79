package runtime

import (
	"fmt"

	"inkwell/scribe/pkg/providers"
	"inkwell/scribe/pkg/providers/anthropic"
	"inkwell/scribe/pkg/providers/gemini"
	"inkwell/scribe/pkg/providers/ollama"
	"inkwell/scribe/pkg/providers/openaicompat"
)

// knownProviders lists the provider ids the factory can construct, in the
// order they are reported to callers.
var knownProviders = []string{
	"openai",
	"anthropic",
	"gemini",
	"groq",
	"mistral",
	"ollama",
}

// KnownProviders returns the ids NewProvider accepts.
func KnownProviders() []string {
	out := make([]string, len(knownProviders))
	copy(out, knownProviders)
	return out
}

// NewProvider constructs an uninitialized adapter for the given provider id.
// OpenAI, Groq, and Mistral share the OpenAI-compatible adapter; the rest
// have dedicated adapters for their wire formats.
func NewProvider(id string) (providers.Provider, error) {
	switch id {
	case "openai", "groq", "mistral":
		return openaicompat.New(id)
	case "anthropic":
		return anthropic.New(), nil
	case "gemini":
		return gemini.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, &providers.ConfigError{
			Provider: id,
			Field:    "provider",
			Message:  fmt.Sprintf("unknown provider id (known: %v)", knownProviders),
		}
	}
}

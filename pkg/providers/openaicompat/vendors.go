package openaicompat

import "inkwell/scribe/pkg/providers"

// Vendor ids served by this family. All three speak the same REST + SSE
// chat-completions protocol; only endpoints, key prefixes, and model
// catalogs differ.
const (
	VendorOpenAI  = "openai"
	VendorGroq    = "groq"
	VendorMistral = "mistral"
)

var textCapabilities = []providers.Capability{
	providers.CapCompletion,
	providers.CapChat,
	providers.CapStream,
	providers.CapExplain,
	providers.CapRefactor,
	providers.CapConvert,
	providers.CapInferSchema,
	providers.CapSummarizeLogs,
	providers.CapGenerateTests,
	providers.CapFixSyntax,
	providers.CapTransformText,
}

// vendorDescriptors holds the static descriptor per vendor id.
var vendorDescriptors = map[string]providers.Descriptor{
	VendorOpenAI: {
		ID:          VendorOpenAI,
		DisplayName: "OpenAI",
		BaseURL:     "https://api.openai.com/v1",
		Models: []providers.ModelInfo{
			{ID: "gpt-4o", Name: "GPT-4o", ContextWindow: 128000, IsDefault: true, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "gpt-4o-mini", Name: "GPT-4o mini", ContextWindow: 128000, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ContextWindow: 128000, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelDeprecated},
		},
		Capabilities:   providers.NewCapabilitySet(append(textCapabilities, providers.CapVision)...),
		RequiresAPIKey: true,
		APIKeyPrefix:   "sk-",
	},

	VendorGroq: {
		ID:          VendorGroq,
		DisplayName: "Groq",
		BaseURL:     "https://api.groq.com/openai/v1",
		Models: []providers.ModelInfo{
			{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", ContextWindow: 131072, IsDefault: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B", ContextWindow: 131072, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B", ContextWindow: 32768, SupportsStreaming: true, Status: providers.ModelDeprecated},
		},
		Capabilities:   providers.NewCapabilitySet(textCapabilities...),
		RequiresAPIKey: true,
		APIKeyPrefix:   "gsk_",
	},

	VendorMistral: {
		ID:          VendorMistral,
		DisplayName: "Mistral AI",
		BaseURL:     "https://api.mistral.ai/v1",
		Models: []providers.ModelInfo{
			{ID: "mistral-large-latest", Name: "Mistral Large", ContextWindow: 131072, IsDefault: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "codestral-latest", Name: "Codestral", ContextWindow: 256000, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "mistral-small-latest", Name: "Mistral Small", ContextWindow: 32768, SupportsStreaming: true, Status: providers.ModelStable},
		},
		Capabilities:   providers.NewCapabilitySet(textCapabilities...),
		RequiresAPIKey: true,
	},
}

// Vendors returns the vendor ids served by this family.
func Vendors() []string {
	return []string{VendorOpenAI, VendorGroq, VendorMistral}
}

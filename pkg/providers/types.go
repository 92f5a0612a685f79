package providers

// Capability is a tag declaring an operation or high-level action a provider
// supports. The manager and the auto-select heuristic check capabilities by
// set membership before dispatching a request; a request requiring capability
// X is never routed to a provider lacking X.
type Capability string

const (
	CapCompletion    Capability = "completion"
	CapChat          Capability = "chat"
	CapStream        Capability = "stream"
	CapVision        Capability = "vision"
	CapCodeExecution Capability = "code_execution"

	// Action capabilities, one per high-level action id.
	CapExplain       Capability = "explain"
	CapRefactor      Capability = "refactor"
	CapConvert       Capability = "convert"
	CapInferSchema   Capability = "infer_schema"
	CapSummarizeLogs Capability = "summarize_logs"
	CapGenerateTests Capability = "generate_tests"
	CapFixSyntax     Capability = "fix_syntax"
	CapTransformText Capability = "transform_text"
)

// CapabilitySet is an immutable set of capability tags.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given tags.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the capability.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities as a slice. Order is not guaranteed.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return out
}

// ModelStatus indicates the lifecycle stage of a model.
type ModelStatus string

const (
	ModelStable     ModelStatus = "stable"
	ModelPreview    ModelStatus = "preview"
	ModelDeprecated ModelStatus = "deprecated"
)

// ModelInfo describes a single model offered by a provider.
// Immutable once constructed.
type ModelInfo struct {
	// ID is the wire-level model identifier sent to the provider.
	ID string `json:"id"`

	// Name is the human-readable model name.
	Name string `json:"name"`

	// ContextWindow is the model's context size in tokens.
	ContextWindow int `json:"context_window"`

	// IsDefault marks the model selected when the caller does not choose one.
	// At most one model per provider should carry it.
	IsDefault bool `json:"is_default"`

	// SupportsVision indicates image input support.
	SupportsVision bool `json:"supports_vision"`

	// SupportsStreaming indicates incremental response support.
	SupportsStreaming bool `json:"supports_streaming"`

	// Status is the model lifecycle stage (stable, preview, deprecated).
	Status ModelStatus `json:"status"`
}

// Descriptor is the static description of a provider adapter.
// It is created once at construction and never mutated.
type Descriptor struct {
	// ID is the provider identifier (e.g., "openai", "anthropic", "ollama").
	ID string `json:"id"`

	// DisplayName is the human-readable provider name.
	DisplayName string `json:"display_name"`

	// Models is the non-empty list of models the provider offers.
	Models []ModelInfo `json:"models"`

	// Capabilities is the set of operations and actions the provider supports.
	Capabilities CapabilitySet `json:"capabilities"`

	// BaseURL is the default API endpoint. Overridable at initialization.
	BaseURL string `json:"base_url"`

	// RequiresAPIKey indicates whether the provider needs a credential.
	RequiresAPIKey bool `json:"requires_api_key"`

	// APIKeyPrefix is the expected key prefix (e.g., "sk-"), empty if none.
	APIKeyPrefix string `json:"api_key_prefix,omitempty"`
}

// DefaultModel returns the model marked IsDefault, or the first model if
// none is marked. The models list is required to be non-empty.
func (d Descriptor) DefaultModel() ModelInfo {
	for _, m := range d.Models {
		if m.IsDefault {
			return m
		}
	}
	return d.Models[0]
}

// ModelByID looks up a model by id. Returns false if the provider does not
// offer the model.
func (d Descriptor) ModelByID(id string) (ModelInfo, bool) {
	for _, m := range d.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single message in a conversation. It is provider-agnostic;
// adapters transform it to vendor-specific shapes, including the role rename
// some vendors require.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SplitSystem extracts a leading system message from a conversation. It
// returns the system content (empty if absent) and the remaining messages.
// Vendors that take system instructions in a dedicated request field must
// never see a system message inline.
func SplitSystem(msgs []Message) (string, []Message) {
	if len(msgs) > 0 && msgs[0].Role == RoleSystem {
		return msgs[0].Content, msgs[1:]
	}
	return "", msgs
}

// TokenUsage tracks token consumption for a single call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the terminal outcome of every call, streaming or not. For
// streaming calls it is reconstructed from the accumulated chunks when the
// stream completes or is cancelled.
type Result struct {
	// Text is the full generated text.
	Text string `json:"text"`

	// Confidence is an advisory score in [0,1] derived from the finish
	// reason. Never used for control flow.
	Confidence float64 `json:"confidence,omitempty"`

	// Metadata carries provider/model/request context.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Usage is token accounting, when the vendor reports it.
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Finish reason constants, normalized across vendors.
const (
	FinishStop          = "stop"
	FinishLength        = "length"
	FinishContentFilter = "content_filter"
)

// CallOptions carries per-call options shared by completion and chat.
type CallOptions struct {
	// SystemPrompt overrides the task-derived default system instruction.
	SystemPrompt string

	// ExtractFormat asks the caller-side extraction helper to salvage a
	// fenced block of this format ("json", "xml", ...) from the response.
	ExtractFormat string
}

// CompletionParams is the uniform input for completion calls.
type CompletionParams struct {
	Prompt      string
	Language    string
	Model       string
	MaxTokens   int
	Temperature float64
	Task        string
	Options     CallOptions
}

// Default call parameters.
const (
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.2
)

// ApplyDefaults fills zero-valued fields with the uniform defaults.
func (p *CompletionParams) ApplyDefaults() {
	if p.MaxTokens <= 0 {
		p.MaxTokens = DefaultMaxTokens
	}
	if p.Temperature <= 0 {
		p.Temperature = DefaultTemperature
	}
	if p.Temperature > 0.7 {
		p.Temperature = 0.7
	}
}

// ChunkHandler receives decoded text deltas during streaming. It is invoked
// once per delta and exactly once with done=true (text may be empty) when
// the stream completes, fails after partial output, or is cancelled.
type ChunkHandler func(text string, done bool)

// RuntimeConfig is the mutable per-provider runtime state applied at
// initialization.
type RuntimeConfig struct {
	// APIKey is the credential, required when the descriptor says so.
	APIKey string

	// Model selects the initial model id; empty means the default model.
	Model string

	// BaseURL overrides the descriptor's endpoint (self-hosted gateways,
	// regional endpoints, local daemons on non-standard ports).
	BaseURL string
}

// ValidationResult is the outcome of a side-effect-free credential probe.
// Probes never fail hard; transport and auth problems are reported here.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

package providers

import "context"

// Provider is the contract every vendor-family adapter implements. It gives
// callers one uniform completion/chat/streaming surface over unrelated
// inference backends (OpenAI-compatible REST+SSE, Anthropic-style messages,
// Google-style generateContent, local daemon NDJSON).
//
// All methods accept a context.Context. Streaming implementations check the
// context between successive reads of the response body and stop cleanly on
// cancellation, returning the partial Result accumulated so far rather than
// an error.
//
// Adapters hold no mutable per-call state: two concurrent streaming calls
// against the same adapter instance must not corrupt each other's output.
//
// Example:
//
//	p, err := runtime.NewProvider("anthropic")
//	if err != nil {
//	    return err
//	}
//	if err := p.Initialize(providers.RuntimeConfig{APIKey: key}); err != nil {
//	    return err
//	}
//	res, err := p.Chat(ctx, []providers.Message{
//	    {Role: providers.RoleUser, Content: "Hello!"},
//	}, nil)
type Provider interface {
	// Info returns the immutable descriptor: models, capabilities,
	// endpoint defaults, credential requirements.
	Info() Descriptor

	// Initialize applies runtime configuration (credential, model choice,
	// endpoint override) and flips the adapter to initialized. It validates
	// shape only; it performs no network I/O.
	Initialize(cfg RuntimeConfig) error

	// IsReady reports whether the adapter is initialized and, when the
	// descriptor requires a key, a key is present.
	IsReady() bool

	// CurrentModelID resolves the model to use for the next call: the
	// selected model, else the descriptor default, else the first model.
	CurrentModelID() string

	// SetModel switches the selected model. The id must be one the
	// descriptor offers.
	SetModel(id string) error

	// ValidateConfig issues a minimal side-effect-free probe (a model list
	// or a one-token call) to confirm credentials. It never returns an
	// error; failures are reported in the result.
	ValidateConfig(ctx context.Context) ValidationResult

	// Complete sends one non-streaming completion request and maps the
	// vendor response into a Result. Non-2xx responses and transport
	// failures are classified into the shared error taxonomy.
	Complete(ctx context.Context, params *CompletionParams) (*Result, error)

	// StreamComplete sends the same request with streaming enabled and
	// decodes the vendor's wire framing into onChunk invocations: one per
	// text delta plus exactly one final call with done=true.
	StreamComplete(ctx context.Context, params *CompletionParams, onChunk ChunkHandler) (*Result, error)

	// Chat sends an ordered conversation. A leading system message is
	// extracted and routed to the vendor's system field where one exists.
	Chat(ctx context.Context, msgs []Message, opts *CallOptions) (*Result, error)

	// StreamChat is Chat with streaming delivery under the onChunk contract.
	StreamChat(ctx context.Context, msgs []Message, onChunk ChunkHandler, opts *CallOptions) (*Result, error)

	// Close releases HTTP resources. The adapter must not be used after.
	Close() error
}

package ollama

import (
	"context"
	"fmt"
	"net/http"

	"inkwell/scribe/pkg/providers"
)

// Client is the adapter for a local Ollama daemon. Content never leaves the
// device, so the privacy guard scans calls to it for UX only and never
// blocks them.
type Client struct {
	*providers.Base
}

// New creates the Ollama adapter.
func New() *Client {
	desc := providers.Descriptor{
		ID:          "ollama",
		DisplayName: "Ollama (local)",
		BaseURL:     "http://127.0.0.1:11434",
		Models: []providers.ModelInfo{
			{ID: "llama3.1:8b", Name: "Llama 3.1 8B", ContextWindow: 131072, IsDefault: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "qwen2.5-coder:7b", Name: "Qwen 2.5 Coder 7B", ContextWindow: 32768, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "mistral:7b", Name: "Mistral 7B", ContextWindow: 32768, SupportsStreaming: true, Status: providers.ModelStable},
		},
		Capabilities: providers.NewCapabilitySet(
			providers.CapCompletion, providers.CapChat, providers.CapStream,
			providers.CapExplain, providers.CapRefactor, providers.CapConvert,
			providers.CapInferSchema, providers.CapSummarizeLogs, providers.CapGenerateTests,
			providers.CapFixSyntax, providers.CapTransformText,
		),
		RequiresAPIKey: false,
	}

	return &Client{Base: providers.NewBase(desc, providers.HTTPClientConfig{})}
}

// ValidateConfig probes GET /api/tags, the daemon's model list.
func (c *Client) ValidateConfig(ctx context.Context) providers.ValidationResult {
	if !c.IsReady() {
		return providers.ValidationResult{Valid: false, Error: "provider is not configured"}
	}

	var tags tagsResponse
	if err := c.HTTP().DoJSON(ctx, http.MethodGet, c.BaseURL()+"/api/tags", nil, &tags, nil); err != nil {
		return providers.ValidationResult{Valid: false, Error: err.Error()}
	}
	return providers.ValidationResult{Valid: true}
}

// Complete sends one non-streaming completion request.
func (c *Client) Complete(ctx context.Context, params *providers.CompletionParams) (*providers.Result, error) {
	params.ApplyDefaults()
	system := providers.SystemPromptFor(&params.Options, params.Task, params.Language)
	msgs := []providers.Message{{Role: providers.RoleUser, Content: params.Prompt}}
	req := buildRequest(c.ResolveModel(params.Model), system, msgs, params.MaxTokens, params.Temperature, false)
	return c.send(ctx, req)
}

// StreamComplete sends the same request with NDJSON streaming.
func (c *Client) StreamComplete(ctx context.Context, params *providers.CompletionParams, onChunk providers.ChunkHandler) (*providers.Result, error) {
	params.ApplyDefaults()
	system := providers.SystemPromptFor(&params.Options, params.Task, params.Language)
	msgs := []providers.Message{{Role: providers.RoleUser, Content: params.Prompt}}
	req := buildRequest(c.ResolveModel(params.Model), system, msgs, params.MaxTokens, params.Temperature, true)
	return c.stream(ctx, req, onChunk)
}

// Chat sends an ordered conversation.
func (c *Client) Chat(ctx context.Context, msgs []providers.Message, opts *providers.CallOptions) (*providers.Result, error) {
	system, rest := c.chatSystem(msgs, opts)
	req := buildRequest(c.CurrentModelID(), system, rest, providers.DefaultMaxTokens, providers.DefaultTemperature, false)
	return c.send(ctx, req)
}

// StreamChat is Chat with streaming delivery.
func (c *Client) StreamChat(ctx context.Context, msgs []providers.Message, onChunk providers.ChunkHandler, opts *providers.CallOptions) (*providers.Result, error) {
	system, rest := c.chatSystem(msgs, opts)
	req := buildRequest(c.CurrentModelID(), system, rest, providers.DefaultMaxTokens, providers.DefaultTemperature, true)
	return c.stream(ctx, req, onChunk)
}

func (c *Client) chatSystem(msgs []providers.Message, opts *providers.CallOptions) (string, []providers.Message) {
	system, rest := providers.SplitSystem(msgs)
	if system == "" {
		system = providers.SystemPromptFor(opts, "", "")
	}
	return system, rest
}

// send performs the non-streaming round trip.
func (c *Client) send(ctx context.Context, req *chatRequest) (*providers.Result, error) {
	var resp chatResponse
	if err := c.HTTP().DoJSON(ctx, http.MethodPost, c.BaseURL()+"/api/chat", req, &resp, nil); err != nil {
		return nil, err
	}

	if resp.Message == nil {
		return nil, &providers.ParseError{
			Provider: c.Info().ID,
			Cause:    fmt.Errorf("no message in response"),
		}
	}

	finish := finishReason(&resp)
	md := providers.NewResultMetadata(c.Info().ID, req.Model, false)
	md[providers.MetaFinishReason] = finish

	return &providers.Result{
		Text:       resp.Message.Content,
		Confidence: providers.ConfidenceFromFinishReason(finish),
		Metadata:   md,
		Usage:      toUsage(&resp),
	}, nil
}

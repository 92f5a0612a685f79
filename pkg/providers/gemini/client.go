package gemini

import (
	"context"
	"fmt"
	"net/http"

	"inkwell/scribe/pkg/providers"
)

// Client is the adapter for the Google generateContent API family.
type Client struct {
	*providers.Base
}

// New creates the Gemini adapter.
func New() *Client {
	desc := providers.Descriptor{
		ID:          "gemini",
		DisplayName: "Google Gemini",
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		Models: []providers.ModelInfo{
			{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", ContextWindow: 1048576, IsDefault: true, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "gemini-2.0-flash-thinking-exp", Name: "Gemini 2.0 Flash Thinking", ContextWindow: 1048576, SupportsStreaming: true, Status: providers.ModelPreview},
			{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", ContextWindow: 2097152, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelStable},
		},
		Capabilities: providers.NewCapabilitySet(
			providers.CapCompletion, providers.CapChat, providers.CapStream,
			providers.CapVision, providers.CapCodeExecution,
			providers.CapExplain, providers.CapRefactor, providers.CapConvert,
			providers.CapInferSchema, providers.CapSummarizeLogs, providers.CapGenerateTests,
			providers.CapFixSyntax, providers.CapTransformText,
		),
		RequiresAPIKey: true,
		APIKeyPrefix:   "AIza",
	}

	return &Client{Base: providers.NewBase(desc, providers.HTTPClientConfig{})}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-goog-api-key": c.APIKey(),
		"Content-Type":   "application/json",
	}
}

// generateURL builds the per-model endpoint. Streaming uses a different
// verb and must carry the SSE query flag for clients that expect framed
// events rather than a bare JSON array.
func (c *Client) generateURL(model string, stream bool) string {
	if stream {
		return fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.BaseURL(), model)
	}
	return fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL(), model)
}

// ValidateConfig probes GET {base}/models. Never returns an error.
func (c *Client) ValidateConfig(ctx context.Context) providers.ValidationResult {
	if !c.IsReady() {
		return providers.ValidationResult{Valid: false, Error: "provider is not configured"}
	}

	var models modelsResponse
	if err := c.HTTP().DoJSON(ctx, http.MethodGet, c.BaseURL()+"/models", nil, &models, c.headers()); err != nil {
		return providers.ValidationResult{Valid: false, Error: err.Error()}
	}
	return providers.ValidationResult{Valid: true}
}

// Complete sends one non-streaming completion request.
func (c *Client) Complete(ctx context.Context, params *providers.CompletionParams) (*providers.Result, error) {
	params.ApplyDefaults()
	system := providers.SystemPromptFor(&params.Options, params.Task, params.Language)
	msgs := []providers.Message{{Role: providers.RoleUser, Content: params.Prompt}}
	model := c.ResolveModel(params.Model)
	req := buildRequest(model, system, msgs, params.MaxTokens, params.Temperature)
	return c.send(ctx, model, req)
}

// StreamComplete sends the same request against the streaming verb.
func (c *Client) StreamComplete(ctx context.Context, params *providers.CompletionParams, onChunk providers.ChunkHandler) (*providers.Result, error) {
	params.ApplyDefaults()
	system := providers.SystemPromptFor(&params.Options, params.Task, params.Language)
	msgs := []providers.Message{{Role: providers.RoleUser, Content: params.Prompt}}
	model := c.ResolveModel(params.Model)
	req := buildRequest(model, system, msgs, params.MaxTokens, params.Temperature)
	return c.stream(ctx, model, req, onChunk)
}

// Chat sends an ordered conversation with the assistant role renamed to
// this family's "model" role.
func (c *Client) Chat(ctx context.Context, msgs []providers.Message, opts *providers.CallOptions) (*providers.Result, error) {
	system, rest := c.chatSystem(msgs, opts)
	model := c.CurrentModelID()
	req := buildRequest(model, system, rest, providers.DefaultMaxTokens, providers.DefaultTemperature)
	return c.send(ctx, model, req)
}

// StreamChat is Chat with streaming delivery.
func (c *Client) StreamChat(ctx context.Context, msgs []providers.Message, onChunk providers.ChunkHandler, opts *providers.CallOptions) (*providers.Result, error) {
	system, rest := c.chatSystem(msgs, opts)
	model := c.CurrentModelID()
	req := buildRequest(model, system, rest, providers.DefaultMaxTokens, providers.DefaultTemperature)
	return c.stream(ctx, model, req, onChunk)
}

func (c *Client) chatSystem(msgs []providers.Message, opts *providers.CallOptions) (string, []providers.Message) {
	system, rest := providers.SplitSystem(msgs)
	if system == "" {
		system = providers.SystemPromptFor(opts, "", "")
	}
	return system, rest
}

// send performs the non-streaming round trip.
func (c *Client) send(ctx context.Context, model string, req *generateRequest) (*providers.Result, error) {
	var resp generateResponse
	if err := c.HTTP().DoJSON(ctx, http.MethodPost, c.generateURL(model, false), req, &resp, c.headers()); err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 {
		return nil, &providers.ParseError{
			Provider: c.Info().ID,
			Cause:    fmt.Errorf("no candidates in response"),
		}
	}

	finish := normalizeFinishReason(resp.Candidates[0].FinishReason)
	md := providers.NewResultMetadata(c.Info().ID, model, false)
	md[providers.MetaFinishReason] = finish

	return &providers.Result{
		Text:       firstCandidateText(&resp),
		Confidence: providers.ConfidenceFromFinishReason(finish),
		Metadata:   md,
		Usage:      toUsage(resp.UsageMetadata),
	}, nil
}

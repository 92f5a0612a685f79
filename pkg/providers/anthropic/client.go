package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"inkwell/scribe/pkg/providers"
)

// APIVersion is the anthropic-version header value.
const APIVersion = "2023-06-01"

// Client is the adapter for the Anthropic messages API.
type Client struct {
	*providers.Base
}

// New creates the Anthropic adapter.
func New() *Client {
	desc := providers.Descriptor{
		ID:          "anthropic",
		DisplayName: "Anthropic",
		BaseURL:     "https://api.anthropic.com",
		Models: []providers.ModelInfo{
			{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", ContextWindow: 200000, IsDefault: true, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", ContextWindow: 200000, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelStable},
			{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", ContextWindow: 200000, SupportsVision: true, SupportsStreaming: true, Status: providers.ModelStable},
		},
		Capabilities: providers.NewCapabilitySet(
			providers.CapCompletion, providers.CapChat, providers.CapStream, providers.CapVision,
			providers.CapExplain, providers.CapRefactor, providers.CapConvert,
			providers.CapInferSchema, providers.CapSummarizeLogs, providers.CapGenerateTests,
			providers.CapFixSyntax, providers.CapTransformText,
		),
		RequiresAPIKey: true,
		APIKeyPrefix:   "sk-ant-",
	}

	return &Client{Base: providers.NewBase(desc, providers.HTTPClientConfig{})}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-api-key":         c.APIKey(),
		"anthropic-version": APIVersion,
		"Content-Type":      "application/json",
	}
}

// ValidateConfig probes with a one-token messages call. Never returns an
// error; credential and transport failures land in the result.
func (c *Client) ValidateConfig(ctx context.Context) providers.ValidationResult {
	if !c.IsReady() {
		return providers.ValidationResult{Valid: false, Error: "provider is not configured"}
	}

	probe := &messagesRequest{
		Model:     c.CurrentModelID(),
		Messages:  []wireMessage{{Role: providers.RoleUser, Content: "ping"}},
		MaxTokens: 1,
	}
	var resp messagesResponse
	if err := c.HTTP().DoJSON(ctx, http.MethodPost, c.BaseURL()+"/v1/messages", probe, &resp, c.headers()); err != nil {
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

// StreamComplete sends the same request with streaming framing.
func (c *Client) StreamComplete(ctx context.Context, params *providers.CompletionParams, onChunk providers.ChunkHandler) (*providers.Result, error) {
	params.ApplyDefaults()
	system := providers.SystemPromptFor(&params.Options, params.Task, params.Language)
	msgs := []providers.Message{{Role: providers.RoleUser, Content: params.Prompt}}
	req := buildRequest(c.ResolveModel(params.Model), system, msgs, params.MaxTokens, params.Temperature, true)
	return c.stream(ctx, req, onChunk)
}

// Chat sends an ordered conversation. The leading system message is routed
// to the dedicated system field.
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
func (c *Client) send(ctx context.Context, req *messagesRequest) (*providers.Result, error) {
	var resp messagesResponse
	if err := c.HTTP().DoJSON(ctx, http.MethodPost, c.BaseURL()+"/v1/messages", req, &resp, c.headers()); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 && len(resp.Content) == 0 {
		return nil, &providers.ParseError{
			Provider: c.Info().ID,
			Cause:    fmt.Errorf("empty content in response"),
		}
	}

	finish := normalizeStopReason(resp.StopReason)
	md := providers.NewResultMetadata(c.Info().ID, req.Model, false)
	md[providers.MetaFinishReason] = finish

	return &providers.Result{
		Text:       text.String(),
		Confidence: providers.ConfidenceFromFinishReason(finish),
		Metadata:   md,
		Usage:      toUsage(resp.Usage),
	}, nil
}

package openaicompat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"inkwell/scribe/pkg/providers"
)

// Client is the adapter for the OpenAI-compatible vendor family. One
// instance serves one vendor id (openai, groq, mistral); the wire protocol
// is identical across them.
type Client struct {
	*providers.Base
}

// New creates the adapter for a vendor id of this family.
func New(vendorID string) (*Client, error) {
	desc, ok := vendorDescriptors[vendorID]
	if !ok {
		return nil, &providers.ConfigError{
			Provider: vendorID,
			Field:    "id",
			Message:  fmt.Sprintf("unknown OpenAI-compatible vendor (supported: %v)", Vendors()),
		}
	}

	return &Client{Base: providers.NewBase(desc, providers.HTTPClientConfig{})}, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.APIKey(),
		"Content-Type":  "application/json",
	}
}

// ValidateConfig probes GET {base}/models. Never returns an error.
func (c *Client) ValidateConfig(ctx context.Context) providers.ValidationResult {
	if !c.IsReady() {
		return providers.ValidationResult{Valid: false, Error: "provider is not configured"}
	}

	var models modelsResponse
	url := c.BaseURL() + "/models"
	if err := c.HTTP().DoJSON(ctx, http.MethodGet, url, nil, &models, c.headers()); err != nil {
		return providers.ValidationResult{Valid: false, Error: err.Error()}
	}

	slog.Debug("credential probe succeeded",
		"provider", c.Info().ID,
		"models_listed", len(models.Data),
	)
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

// chatSystem resolves the system instruction for a conversation: a leading
// system message wins, then the caller's option, then the family default.
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
	url := c.BaseURL() + "/chat/completions"
	if err := c.HTTP().DoJSON(ctx, http.MethodPost, url, req, &resp, c.headers()); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &providers.ParseError{
			Provider: c.Info().ID,
			Cause:    fmt.Errorf("no choices in response"),
		}
	}

	choice := resp.Choices[0]
	finish := normalizeFinishReason(choice.FinishReason)
	md := providers.NewResultMetadata(c.Info().ID, req.Model, false)
	md[providers.MetaFinishReason] = finish

	return &providers.Result{
		Text:       choice.Message.Content,
		Confidence: providers.ConfidenceFromFinishReason(finish),
		Metadata:   md,
		Usage:      toUsage(resp.Usage),
	}, nil
}

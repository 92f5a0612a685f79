package openaicompat

import "inkwell/scribe/pkg/providers"

// Wire types for the OpenAI-compatible chat-completions protocol.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// streamResponse is one SSE event payload.
type streamResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
	Usage   *chatUsage     `json:"usage,omitempty"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type streamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// modelsResponse is the GET /models probe payload.
type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// normalizeFinishReason maps vendor finish reasons onto the shared values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop":
		return providers.FinishStop
	case "length":
		return providers.FinishLength
	case "content_filter":
		return providers.FinishContentFilter
	default:
		return reason
	}
}

// buildRequest assembles the wire request from a system instruction and a
// conversation. The system instruction travels inline as the first message,
// which is this family's convention.
func buildRequest(model, system string, msgs []providers.Message, maxTokens int, temperature float64, stream bool) *chatRequest {
	wire := make([]chatMessage, 0, len(msgs)+1)
	if system != "" {
		wire = append(wire, chatMessage{Role: providers.RoleSystem, Content: system})
	}
	for _, m := range msgs {
		wire = append(wire, chatMessage{Role: m.Role, Content: m.Content})
	}

	return &chatRequest{
		Model:       model,
		Messages:    wire,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stream:      stream,
	}
}

// toUsage converts wire usage to the shared type.
func toUsage(u *chatUsage) *providers.TokenUsage {
	if u == nil {
		return nil
	}
	return &providers.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

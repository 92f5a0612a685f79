package anthropic

import "inkwell/scribe/pkg/providers"

// Wire types for the Anthropic messages API.

type messagesRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      wireUsage      `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// streamEvent is one typed SSE event. The `type` field discriminates;
// content_block_delta carries text, message_delta carries usage and the
// stop reason, message_stop ends the stream.
type streamEvent struct {
	Type  string           `json:"type"`
	Delta *eventDelta      `json:"delta,omitempty"`
	Usage *wireUsage       `json:"usage,omitempty"`
	Error *streamWireError `json:"error,omitempty"`
}

type eventDelta struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

type streamWireError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// normalizeStopReason maps Anthropic stop reasons onto the shared values.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishStop
	case "max_tokens":
		return providers.FinishLength
	case "refusal":
		return providers.FinishContentFilter
	default:
		return reason
	}
}

// buildRequest assembles the wire request. The system instruction travels
// in the dedicated `system` field, never inline in the message list.
func buildRequest(model, system string, msgs []providers.Message, maxTokens int, temperature float64, stream bool) *messagesRequest {
	wire := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == providers.RoleSystem {
			// A stray system message is folded into the system field.
			if system == "" {
				system = m.Content
			}
			continue
		}
		wire = append(wire, wireMessage{Role: m.Role, Content: m.Content})
	}

	if maxTokens <= 0 {
		maxTokens = providers.DefaultMaxTokens
	}

	return &messagesRequest{
		Model:       model,
		Messages:    wire,
		System:      system,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stream:      stream,
	}
}

func toUsage(u wireUsage) *providers.TokenUsage {
	if u.InputTokens == 0 && u.OutputTokens == 0 {
		return nil
	}
	return &providers.TokenUsage{
		PromptTokens:     u.InputTokens,
		CompletionTokens: u.OutputTokens,
		TotalTokens:      u.InputTokens + u.OutputTokens,
	}
}

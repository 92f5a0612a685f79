package ollama

import "inkwell/scribe/pkg/providers"

// Wire types for the Ollama daemon API.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *wireOptions  `json:"options,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatResponse is both the non-streaming body and one NDJSON frame. The
// daemon signals completion with done:true instead of a sentinel token.
type chatResponse struct {
	Model           string       `json:"model"`
	Message         *wireMessage `json:"message,omitempty"`
	Done            bool         `json:"done"`
	DoneReason      string       `json:"done_reason,omitempty"`
	PromptEvalCount int          `json:"prompt_eval_count,omitempty"`
	EvalCount       int          `json:"eval_count,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// buildRequest assembles the wire request. The system instruction travels
// inline as the first message, as with the OpenAI-compatible family.
func buildRequest(model, system string, msgs []providers.Message, maxTokens int, temperature float64, stream bool) *chatRequest {
	wire := make([]wireMessage, 0, len(msgs)+1)
	if system != "" {
		wire = append(wire, wireMessage{Role: providers.RoleSystem, Content: system})
	}
	for _, m := range msgs {
		wire = append(wire, wireMessage{Role: m.Role, Content: m.Content})
	}

	return &chatRequest{
		Model:    model,
		Messages: wire,
		Stream:   stream,
		Options: &wireOptions{
			NumPredict:  maxTokens,
			Temperature: temperature,
		},
	}
}

// finishReason normalizes the daemon's done_reason.
func finishReason(resp *chatResponse) string {
	switch resp.DoneReason {
	case "stop", "":
		if resp.Done {
			return providers.FinishStop
		}
		return ""
	case "length", "limit":
		return providers.FinishLength
	default:
		return resp.DoneReason
	}
}

func toUsage(resp *chatResponse) *providers.TokenUsage {
	if resp.PromptEvalCount == 0 && resp.EvalCount == 0 {
		return nil
	}
	return &providers.TokenUsage{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
	}
}

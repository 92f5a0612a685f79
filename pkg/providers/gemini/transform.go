package gemini

import (
	"strings"

	"inkwell/scribe/pkg/providers"
)

// Wire types for the Google generateContent API.

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// modelsResponse is the GET /models probe payload.
type modelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// thinkingMarkers flags model ids whose reasoning variants reject the
// systemInstruction field. Kept as configuration data rather than a
// hard-coded exception list so new variants are a one-line change.
var thinkingMarkers = []string{"thinking", "reasoning"}

// omitsSystemInstruction reports whether the model must not receive a
// systemInstruction field at all.
func omitsSystemInstruction(modelID string) bool {
	lower := strings.ToLower(modelID)
	for _, marker := range thinkingMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// wireRole renames the provider-agnostic assistant role to this family's
// "model" role. This family is the only one that renames it.
func wireRole(role string) string {
	if role == providers.RoleAssistant {
		return "model"
	}
	return role
}

// normalizeFinishReason maps Gemini finish reasons onto the shared values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return providers.FinishStop
	case "MAX_TOKENS":
		return providers.FinishLength
	case "SAFETY", "RECITATION", "PROHIBITED_CONTENT":
		return providers.FinishContentFilter
	case "":
		return ""
	default:
		return strings.ToLower(reason)
	}
}

// buildRequest assembles the wire request. For thinking-variant models the
// system instruction is dropped entirely; the request builder checks the
// model id before attaching it.
func buildRequest(model, system string, msgs []providers.Message, maxTokens int, temperature float64) *generateRequest {
	contents := make([]content, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == providers.RoleSystem {
			if system == "" {
				system = m.Content
			}
			continue
		}
		contents = append(contents, content{
			Role:  wireRole(m.Role),
			Parts: []part{{Text: m.Content}},
		})
	}

	req := &generateRequest{
		Contents: contents,
		GenerationConfig: &generationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     temperature,
		},
	}
	if system != "" && !omitsSystemInstruction(model) {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	return req
}

// firstCandidateText extracts the text delta from a response frame.
func firstCandidateText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String()
}

func toUsage(u *usageMetadata) *providers.TokenUsage {
	if u == nil {
		return nil
	}
	return &providers.TokenUsage{
		PromptTokens:     u.PromptTokenCount,
		CompletionTokens: u.CandidatesTokenCount,
		TotalTokens:      u.TotalTokenCount,
	}
}

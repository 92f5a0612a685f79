package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/scribe/pkg/providers"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := New()
	if err := c.Initialize(providers.RuntimeConfig{APIKey: "sk-ant-test-key", BaseURL: baseURL}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func messagesReply(text, stopReason string) messagesResponse {
	return messagesResponse{
		ID:         "msg_test",
		Type:       "message",
		Role:       "assistant",
		Content:    []contentBlock{{Type: "text", Text: text}},
		StopReason: stopReason,
		Usage:      wireUsage{InputTokens: 10, OutputTokens: 5},
	}
}

func TestComplete(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "sk-ant-test-key" {
			t.Errorf("x-api-key = %q", key)
		}
		if ver := r.Header.Get("anthropic-version"); ver != APIVersion {
			t.Errorf("anthropic-version = %q", ver)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(messagesReply("the explanation", "end_turn"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	res, err := c.Complete(context.Background(), &providers.CompletionParams{
		Prompt: "explain this",
		Task:   providers.TaskExplain,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if res.Text != "the explanation" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 for end_turn", res.Confidence)
	}
	if res.Usage == nil || res.Usage.TotalTokens != 15 {
		t.Errorf("Usage = %+v, want totals summed from input+output", res.Usage)
	}

	// System instruction travels in the dedicated field, never inline.
	if captured.System == "" {
		t.Error("system field is empty")
	}
	for _, m := range captured.Messages {
		if m.Role == providers.RoleSystem {
			t.Error("system message leaked into the message list")
		}
	}
	if captured.MaxTokens <= 0 {
		t.Error("max_tokens is required on this API")
	}
}

func TestChat_SystemMessageRouting(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(messagesReply("ok", "end_turn"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Chat(context.Background(), []providers.Message{
		{Role: providers.RoleSystem, Content: "be terse"},
		{Role: providers.RoleUser, Content: "hello"},
		{Role: providers.RoleAssistant, Content: "hi"},
		{Role: providers.RoleUser, Content: "more"},
	}, nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if captured.System != "be terse" {
		t.Errorf("system = %q, want the leading system message", captured.System)
	}
	if len(captured.Messages) != 3 {
		t.Errorf("wire messages = %d, want 3", len(captured.Messages))
	}
}

func TestNormalizeStopReason(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"end_turn", providers.FinishStop},
		{"stop_sequence", providers.FinishStop},
		{"max_tokens", providers.FinishLength},
		{"refusal", providers.FinishContentFilter},
		{"tool_use", "tool_use"},
	}
	for _, tt := range tests {
		if got := normalizeStopReason(tt.in); got != tt.want {
			t.Errorf("normalizeStopReason(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateConfig_OneTokenProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.MaxTokens != 1 {
			t.Errorf("probe max_tokens = %d, want 1", req.MaxTokens)
		}
		json.NewEncoder(w).Encode(messagesReply("p", "max_tokens"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	result := c.ValidateConfig(context.Background())
	if !result.Valid {
		t.Errorf("ValidateConfig failed: %s", result.Error)
	}
}

func TestComplete_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Complete(context.Background(), &providers.CompletionParams{Prompt: "x"})
	var rateErr *providers.RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
}

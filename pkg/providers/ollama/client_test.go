package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/scribe/pkg/providers"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := New()
	// Local daemon: no API key needed.
	if err := c.Initialize(providers.RuntimeConfig{BaseURL: baseURL}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestInitialize_NoAPIKeyRequired(t *testing.T) {
	c := New()
	defer c.Close()

	if c.Info().RequiresAPIKey {
		t.Error("local daemon must not require an API key")
	}
	if err := c.Initialize(providers.RuntimeConfig{}); err != nil {
		t.Fatalf("Initialize without key failed: %v", err)
	}
	if !c.IsReady() {
		t.Error("adapter should be ready without a key")
	}
}

func TestComplete(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(chatResponse{
			Model:           "llama3.1:8b",
			Message:         &wireMessage{Role: "assistant", Content: "local reply"},
			Done:            true,
			DoneReason:      "stop",
			PromptEvalCount: 11,
			EvalCount:       4,
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	res, err := c.Complete(context.Background(), &providers.CompletionParams{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if res.Text != "local reply" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Confidence != 0.9 {
		t.Errorf("Confidence = %v", res.Confidence)
	}
	if res.Usage == nil || res.Usage.TotalTokens != 15 {
		t.Errorf("Usage = %+v", res.Usage)
	}
	if captured.Stream {
		t.Error("non-streaming request must set stream=false")
	}
	if captured.Options == nil || captured.Options.NumPredict != providers.DefaultMaxTokens {
		t.Errorf("options = %+v", captured.Options)
	}
}

func TestStreamComplete_NDJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher := w.(http.Flusher)
		frames := []chatResponse{
			{Message: &wireMessage{Role: "assistant", Content: "Hel"}},
			{Message: &wireMessage{Role: "assistant", Content: "lo"}},
			{Done: true, DoneReason: "stop", PromptEvalCount: 5, EvalCount: 2},
		}
		for _, f := range frames {
			data, _ := json.Marshal(f)
			fmt.Fprintf(w, "%s\n", data)
			flusher.Flush()
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	var chunks []string
	doneCalls := 0
	res, err := c.StreamComplete(context.Background(), &providers.CompletionParams{Prompt: "hi"},
		func(text string, done bool) {
			if done {
				doneCalls++
				return
			}
			chunks = append(chunks, text)
		})
	if err != nil {
		t.Fatalf("StreamComplete failed: %v", err)
	}

	if res.Text != "Hello" {
		t.Errorf("Text = %q", res.Text)
	}
	if len(chunks) != 2 {
		t.Errorf("chunk count = %d, want 2", len(chunks))
	}
	if doneCalls != 1 {
		t.Errorf("done calls = %d, want exactly 1", doneCalls)
	}
	if res.Metadata[providers.MetaFinishReason] != providers.FinishStop {
		t.Errorf("finish = %q", res.Metadata[providers.MetaFinishReason])
	}
	if res.Usage == nil || res.Usage.TotalTokens != 7 {
		t.Errorf("Usage = %+v", res.Usage)
	}
}

func TestStreamComplete_CancellationReturnsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		data, _ := json.Marshal(chatResponse{Message: &wireMessage{Content: "partial"}})
		fmt.Fprintf(w, "%s\n", data)
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	res, err := c.StreamComplete(ctx, &providers.CompletionParams{Prompt: "x"},
		func(text string, done bool) {
			if !done {
				cancel()
			}
		})
	if err != nil {
		t.Fatalf("cancellation must not be an error, got: %v", err)
	}
	if res.Text != "partial" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Metadata["cancelled"] != "true" {
		t.Error("cancelled metadata flag missing")
	}
}

func TestValidateConfig_ProbesTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"models": []map[string]string{{"name": "llama3.1:8b"}}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	result := c.ValidateConfig(context.Background())
	if !result.Valid {
		t.Errorf("ValidateConfig failed: %s", result.Error)
	}
}

func TestFinishReason(t *testing.T) {
	if got := finishReason(&chatResponse{Done: true, DoneReason: "stop"}); got != providers.FinishStop {
		t.Errorf("stop = %q", got)
	}
	if got := finishReason(&chatResponse{Done: true}); got != providers.FinishStop {
		t.Errorf("done without reason = %q", got)
	}
	if got := finishReason(&chatResponse{}); got != "" {
		t.Errorf("mid-stream frame = %q", got)
	}
	if got := finishReason(&chatResponse{Done: true, DoneReason: "length"}); got != providers.FinishLength {
		t.Errorf("length = %q", got)
	}
}

package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkwell/scribe/pkg/providers"
)

// anthropicSSE serves typed events in Anthropic's event:/data: framing.
func anthropicSSE(t *testing.T, events []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, ev := range events {
			fmt.Fprintf(w, "%s\n\n", ev)
			flusher.Flush()
		}
	}))
}

func TestStreamComplete_TypedEvents(t *testing.T) {
	server := anthropicSSE(t, []string{
		"event: message_start\ndata: {\"type\":\"message_start\"}",
		"event: content_block_start\ndata: {\"type\":\"content_block_start\"}",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"Hel\"}}",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"lo\"}}",
		"event: content_block_stop\ndata: {\"type\":\"content_block_stop\"}",
		"event: message_delta\ndata: {\"type\":\"message_delta\",\"delta\":{\"stop_reason\":\"end_turn\"},\"usage\":{\"input_tokens\":9,\"output_tokens\":2}}",
		"event: message_stop\ndata: {\"type\":\"message_stop\"}",
	})
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

	if got := strings.Join(chunks, ""); got != "Hello" {
		t.Errorf("chunks = %q", got)
	}
	if doneCalls != 1 {
		t.Errorf("done calls = %d, want exactly 1", doneCalls)
	}
	if res.Text != "Hello" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Metadata[providers.MetaFinishReason] != providers.FinishStop {
		t.Errorf("finish = %q", res.Metadata[providers.MetaFinishReason])
	}
	if res.Usage == nil || res.Usage.TotalTokens != 11 {
		t.Errorf("Usage = %+v", res.Usage)
	}
}

func TestStreamComplete_ErrorEvent(t *testing.T) {
	server := anthropicSSE(t, []string{
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"x\"}}",
		"event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"overloaded\"}}",
	})
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.StreamComplete(context.Background(), &providers.CompletionParams{Prompt: "x"},
		func(string, bool) {})
	if err == nil {
		t.Fatal("expected an error from the error event")
	}
	if !strings.Contains(err.Error(), "overloaded") {
		t.Errorf("error = %v, want the wire message", err)
	}
}

func TestStreamComplete_CancellationReturnsPartial(t *testing.T) {
	blocker := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"partial\"}}\n\n")
		flusher.Flush()
		select {
		case <-blocker:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(blocker)

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
		t.Errorf("Text = %q, want the partial output", res.Text)
	}
	if res.Metadata["cancelled"] != "true" {
		t.Error("cancelled metadata flag missing")
	}
}

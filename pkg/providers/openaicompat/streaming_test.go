package openaicompat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkwell/scribe/pkg/providers"
)

// sseServer serves the given lines as an SSE stream.
func sseServer(t *testing.T, lines []string, perLineDelay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("Accept = %q, want text/event-stream", accept)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer is not a flusher")
		}
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n\n", line)
			flusher.Flush()
			if perLineDelay > 0 {
				select {
				case <-time.After(perLineDelay):
				case <-r.Context().Done():
					return
				}
			}
		}
	}))
}

func deltaEvent(content, finish string) string {
	ev := streamResponse{
		ID:    "chatcmpl-test",
		Model: "gpt-4o",
		Choices: []streamChoice{{
			Delta:        streamDelta{Content: content},
			FinishReason: finish,
		}},
	}
	data, _ := json.Marshal(ev)
	return "data: " + string(data)
}

func TestStreamComplete_ChunkDelivery(t *testing.T) {
	server := sseServer(t, []string{
		deltaEvent("Hello", ""),
		deltaEvent(" World", ""),
		deltaEvent("!", ""),
		deltaEvent("", "stop"),
		"data: [DONE]",
	}, 0)
	defer server.Close()

	c := newTestClient(t, VendorOpenAI, server.URL)

	var chunks []string
	doneCalls := 0
	res, err := c.StreamComplete(context.Background(), &providers.CompletionParams{Prompt: "say hello"},
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

	if got := strings.Join(chunks, ""); got != "Hello World!" {
		t.Errorf("accumulated chunks = %q", got)
	}
	if len(chunks) != 3 {
		t.Errorf("chunk count = %d, want 3", len(chunks))
	}
	if doneCalls != 1 {
		t.Errorf("done calls = %d, want exactly 1", doneCalls)
	}
	if res.Text != "Hello World!" {
		t.Errorf("result text = %q", res.Text)
	}
	if res.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", res.Confidence)
	}
	if res.Metadata[providers.MetaStreamed] != "true" {
		t.Error("metadata streamed flag missing")
	}
}

func TestStreamComplete_SkipsNonDataLines(t *testing.T) {
	server := sseServer(t, []string{
		": keepalive comment",
		"event: message",
		deltaEvent("ok", "stop"),
		"data: [DONE]",
	}, 0)
	defer server.Close()

	c := newTestClient(t, VendorOpenAI, server.URL)
	res, err := c.StreamComplete(context.Background(), &providers.CompletionParams{Prompt: "x"},
		func(string, bool) {})
	if err != nil {
		t.Fatalf("StreamComplete failed: %v", err)
	}
	if res.Text != "ok" {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestStreamAndCompleteEquivalence(t *testing.T) {
	const want = "The answer is 42."

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			flusher := w.(http.Flusher)
			for _, word := range strings.SplitAfter(want, " ") {
				fmt.Fprintf(w, "%s\n\n", deltaEvent(word, ""))
				flusher.Flush()
			}
			fmt.Fprintf(w, "%s\n\n", deltaEvent("", "stop"))
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}
		json.NewEncoder(w).Encode(completionResponse(want, "stop"))
	}))
	defer server.Close()

	c := newTestClient(t, VendorOpenAI, server.URL)
	params := &providers.CompletionParams{Prompt: "what is the answer"}

	plain, err := c.Complete(context.Background(), params)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	streamed, err := c.StreamComplete(context.Background(), params, func(string, bool) {})
	if err != nil {
		t.Fatalf("StreamComplete failed: %v", err)
	}

	if plain.Text != streamed.Text {
		t.Errorf("streamed text %q != plain text %q", streamed.Text, plain.Text)
	}
	if plain.Confidence != streamed.Confidence {
		t.Errorf("streamed confidence %v != plain confidence %v", streamed.Confidence, plain.Confidence)
	}
}

func TestStreamComplete_CancellationReturnsPartial(t *testing.T) {
	server := sseServer(t, []string{
		deltaEvent("part", ""),
		deltaEvent("ial", ""),
		deltaEvent(" never seen", ""),
		"data: [DONE]",
	}, 150*time.Millisecond)
	defer server.Close()

	c := newTestClient(t, VendorOpenAI, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	received := 0
	doneCalls := 0
	res, err := c.StreamComplete(ctx, &providers.CompletionParams{Prompt: "x"},
		func(text string, done bool) {
			if done {
				doneCalls++
				return
			}
			received++
			if received == 2 {
				cancel()
			}
		})
	if err != nil {
		t.Fatalf("cancellation must not be an error, got: %v", err)
	}

	if res.Text != "partial" {
		t.Errorf("partial text = %q, want %q", res.Text, "partial")
	}
	if res.Metadata["cancelled"] != "true" {
		t.Error("cancelled metadata flag missing")
	}
	if doneCalls != 1 {
		t.Errorf("done calls = %d, want exactly 1", doneCalls)
	}
}

func TestStreamChat(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprintf(w, "%s\n\n", deltaEvent("hi", "stop"))
		flusher.Flush()
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	c := newTestClient(t, VendorOpenAI, server.URL)
	res, err := c.StreamChat(context.Background(), []providers.Message{
		{Role: providers.RoleUser, Content: "hello"},
	}, func(string, bool) {}, nil)
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}
	if res.Text != "hi" {
		t.Errorf("Text = %q", res.Text)
	}
	if !captured.Stream {
		t.Error("wire request must set stream")
	}
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkwell/scribe/pkg/providers"
)

func frameJSON(t *testing.T, text, finish string) string {
	t.Helper()
	frame := generateResponse{
		Candidates: []candidate{{
			Content:      content{Role: "model", Parts: []part{{Text: text}}},
			FinishReason: finish,
		}},
	}
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return string(data)
}

func TestStreamComplete_SSEFraming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":streamGenerateContent") {
			t.Errorf("path = %q, want the streamGenerateContent verb", r.URL.Path)
		}
		if alt := r.URL.Query().Get("alt"); alt != "sse" {
			t.Errorf("alt = %q, want sse", alt)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, text := range []string{"one ", "two ", "three"} {
			fmt.Fprintf(w, "data: %s\n\n", frameJSON(t, text, ""))
			flusher.Flush()
		}
		fmt.Fprintf(w, "data: %s\n\n", frameJSON(t, "", "STOP"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	var chunks []string
	res, err := c.StreamComplete(context.Background(), &providers.CompletionParams{Prompt: "count"},
		func(text string, done bool) {
			if !done {
				chunks = append(chunks, text)
			}
		})
	if err != nil {
		t.Fatalf("StreamComplete failed: %v", err)
	}

	if res.Text != "one two three" {
		t.Errorf("Text = %q", res.Text)
	}
	if len(chunks) != 3 {
		t.Errorf("chunk count = %d, want 3", len(chunks))
	}
	if res.Metadata[providers.MetaFinishReason] != providers.FinishStop {
		t.Errorf("finish = %q", res.Metadata[providers.MetaFinishReason])
	}
}

func TestStreamComplete_BareArrayFraming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some deployments ignore alt=sse and stream a JSON array instead.
		w.Header().Set("Content-Type", "application/json")
		flusher := w.(http.Flusher)
		fmt.Fprintf(w, "[%s\n", frameJSON(t, "alpha ", ""))
		flusher.Flush()
		fmt.Fprintf(w, ",%s\n", frameJSON(t, "beta", "STOP"))
		flusher.Flush()
		fmt.Fprint(w, "]\n")
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	var chunks []string
	doneCalls := 0
	res, err := c.StreamComplete(context.Background(), &providers.CompletionParams{Prompt: "go"},
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

	if res.Text != "alpha beta" {
		t.Errorf("Text = %q", res.Text)
	}
	if len(chunks) != 2 {
		t.Errorf("chunk count = %d, want 2", len(chunks))
	}
	if doneCalls != 1 {
		t.Errorf("done calls = %d, want exactly 1", doneCalls)
	}
}

func TestStreamComplete_CancellationReturnsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprintf(w, "data: %s\n\n", frameJSON(t, "partial", ""))
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

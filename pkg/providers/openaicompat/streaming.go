package openaicompat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"inkwell/scribe/pkg/providers"
)

// stream performs a streaming round trip and decodes the family's SSE
// framing: `data: {json}` lines terminated by `data: [DONE]`. Each decoded
// delta is handed to onChunk; the final handler call carries done=true.
// Cancellation between reads ends the decode loop cleanly and returns the
// partial result accumulated so far.
func (c *Client) stream(ctx context.Context, req *chatRequest, onChunk providers.ChunkHandler) (*providers.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := c.headers()
	headers["Accept"] = "text/event-stream"

	resp, err := c.HTTP().Do(ctx, http.MethodPost, c.BaseURL()+"/chat/completions", body, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Per-call decode state only; nothing is stored on the adapter.
	var acc strings.Builder
	var usage *providers.TokenUsage
	finish := ""
	cancelled := false

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			break
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				if ctx.Err() != nil {
					cancelled = true
					break
				}
				return nil, &providers.NetworkError{Provider: c.Info().ID, Cause: err}
			}
			break
		}

		line := scanner.Text()
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var event streamResponse
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return nil, &providers.ParseError{
				Provider:    c.Info().ID,
				RawResponse: data,
				Cause:       fmt.Errorf("failed to parse stream event: %w", err),
			}
		}
		if event.Usage != nil {
			usage = toUsage(event.Usage)
		}
		if len(event.Choices) == 0 {
			continue
		}
		choice := event.Choices[0]
		if choice.FinishReason != "" {
			finish = normalizeFinishReason(choice.FinishReason)
		}
		if choice.Delta.Content != "" {
			acc.WriteString(choice.Delta.Content)
			onChunk(choice.Delta.Content, false)
		}
	}

	onChunk("", true)

	md := providers.NewResultMetadata(c.Info().ID, req.Model, true)
	if finish != "" {
		md[providers.MetaFinishReason] = finish
	}
	if cancelled {
		md["cancelled"] = "true"
	}

	return &providers.Result{
		Text:       acc.String(),
		Confidence: providers.ConfidenceFromFinishReason(finish),
		Metadata:   md,
		Usage:      usage,
	}, nil
}

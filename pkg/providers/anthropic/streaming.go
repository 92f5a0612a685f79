package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"inkwell/scribe/pkg/providers"
)

// stream performs a streaming round trip and decodes Anthropic's typed SSE
// events. content_block_delta events carry text deltas, message_delta
// carries usage and the stop reason, message_stop ends the stream with no
// text. Cancellation between reads returns the partial result.
func (c *Client) stream(ctx context.Context, req *messagesRequest, onChunk providers.ChunkHandler) (*providers.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := c.headers()
	headers["Accept"] = "text/event-stream"

	resp, err := c.HTTP().Do(ctx, http.MethodPost, c.BaseURL()+"/v1/messages", body, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var acc strings.Builder
	var usage *providers.TokenUsage
	finish := ""
	cancelled := false
	done := false

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for !done {
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
		// Only data fields carry payloads; event/id/retry lines restate the
		// type that is already inside the JSON.
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var event streamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return nil, &providers.ParseError{
				Provider:    c.Info().ID,
				RawResponse: data,
				Cause:       fmt.Errorf("failed to parse stream event: %w", err),
			}
		}

		switch event.Type {
		case "content_block_delta":
			if event.Delta != nil && event.Delta.Text != "" {
				acc.WriteString(event.Delta.Text)
				onChunk(event.Delta.Text, false)
			}

		case "message_delta":
			if event.Delta != nil && event.Delta.StopReason != "" {
				finish = normalizeStopReason(event.Delta.StopReason)
			}
			if event.Usage != nil {
				usage = toUsage(*event.Usage)
			}

		case "message_stop":
			done = true

		case "error":
			msg := "stream error"
			if event.Error != nil {
				msg = event.Error.Message
			}
			return nil, &providers.ProviderError{Provider: c.Info().ID, Message: msg}

		default:
			// message_start, content_block_start/stop, ping: no text.
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

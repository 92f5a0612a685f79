package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"inkwell/scribe/pkg/providers"
)

// stream performs a streaming round trip against the daemon. The body is
// newline-delimited JSON, one complete object per line; done:true marks the
// final frame. Cancellation between reads returns the partial result.
func (c *Client) stream(ctx context.Context, req *chatRequest, onChunk providers.ChunkHandler) (*providers.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.HTTP().Do(ctx, http.MethodPost, c.BaseURL()+"/api/chat", body, nil)
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

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var frame chatResponse
		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			return nil, &providers.ParseError{
				Provider:    c.Info().ID,
				RawResponse: line,
				Cause:       fmt.Errorf("failed to parse stream frame: %w", err),
			}
		}

		if frame.Message != nil && frame.Message.Content != "" {
			acc.WriteString(frame.Message.Content)
			onChunk(frame.Message.Content, false)
		}
		if frame.Done {
			finish = finishReason(&frame)
			usage = toUsage(&frame)
			done = true
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

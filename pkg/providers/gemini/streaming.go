package gemini

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"inkwell/scribe/pkg/providers"
)

// stream performs a streaming round trip against streamGenerateContent.
// The decoder tolerates both wire shapes this endpoint is known to produce:
// true SSE (`data: ` prefixed lines, requested via alt=sse) and a bare
// incrementally-streamed JSON array of response objects, where each line
// opens with `[` or `,` and the array closes with `]`. Both reduce to one
// generateResponse frame per line. Cancellation between reads returns the
// partial result.
func (c *Client) stream(ctx context.Context, model string, req *generateRequest, onChunk providers.ChunkHandler) (*providers.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := c.headers()
	headers["Accept"] = "text/event-stream"

	resp, err := c.HTTP().Do(ctx, http.MethodPost, c.generateURL(model, true), body, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

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

		data, ok := extractFrame(scanner.Text())
		if !ok {
			continue
		}

		var frame generateResponse
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			return nil, &providers.ParseError{
				Provider:    c.Info().ID,
				RawResponse: data,
				Cause:       fmt.Errorf("failed to parse stream frame: %w", err),
			}
		}

		if frame.UsageMetadata != nil {
			usage = toUsage(frame.UsageMetadata)
		}
		if len(frame.Candidates) > 0 && frame.Candidates[0].FinishReason != "" {
			finish = normalizeFinishReason(frame.Candidates[0].FinishReason)
		}
		if delta := firstCandidateText(&frame); delta != "" {
			acc.WriteString(delta)
			onChunk(delta, false)
		}
	}

	onChunk("", true)

	md := providers.NewResultMetadata(c.Info().ID, model, true)
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

// extractFrame normalizes one line of either wire shape into a JSON object,
// or reports that the line carries no frame.
func extractFrame(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	// SSE shape.
	if strings.HasPrefix(line, "data: ") {
		data := strings.TrimPrefix(line, "data: ")
		if data == "" || data == "[DONE]" {
			return "", false
		}
		return data, true
	}

	// Bare JSON array shape: strip the array punctuation that precedes each
	// element and drop the closing bracket line.
	line = strings.TrimLeft(line, "[,")
	line = strings.TrimSpace(line)
	if line == "" || line == "]" {
		return "", false
	}
	line = strings.TrimSuffix(line, "]")
	if !strings.HasPrefix(line, "{") {
		return "", false
	}
	return line, true
}

package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// HTTPClient is the shared HTTP layer embedded by every adapter. It provides
// connection pooling, uniform error classification, and request accounting.
// It never retries: the taxonomy tells callers which classes are retryable.
type HTTPClient struct {
	provider string
	client   *http.Client

	mu             sync.Mutex
	totalRequests  int64
	failedRequests int64
}

// HTTPClientConfig tunes the underlying transport.
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// NewHTTPClient creates the shared HTTP layer for the named provider.
func NewHTTPClient(provider string, cfg HTTPClientConfig) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 20
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 5
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		provider: provider,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// ProviderName returns the provider this client belongs to.
func (c *HTTPClient) ProviderName() string { return c.provider }

// Stats returns total and failed request counts.
func (c *HTTPClient) Stats() (total, failed int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalRequests, c.failedRequests
}

func (c *HTTPClient) record(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
	if !success {
		c.failedRequests++
	}
}

// Do performs one HTTP request and classifies any failure into the shared
// taxonomy. On success the caller owns resp.Body. Streaming callers pass the
// same context they check between reads.
func (c *HTTPClient) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending provider request",
		"provider", c.provider,
		"method", method,
		"url", url,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		c.record(false)
		return nil, c.classifyTransport(ctx, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.record(true)
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	c.record(false)

	return nil, c.classifyStatus(resp, string(errorBody))
}

// classifyTransport maps a transport failure onto the taxonomy.
func (c *HTTPClient) classifyTransport(ctx context.Context, err error) error {
	cancelled := ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	return &NetworkError{
		Provider:  c.provider,
		Cancelled: cancelled,
		Cause:     err,
	}
}

// classifyStatus maps a non-2xx response onto the taxonomy.
func (c *HTTPClient) classifyStatus(resp *http.Response, body string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Provider: c.provider, Message: body}

	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Provider:   c.provider,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    body,
		}

	case resp.StatusCode >= 500:
		return &ServerError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    body,
		}

	default:
		return &ProviderError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    body,
		}
	}
}

// DoJSON performs a JSON request/response round trip.
func (c *HTTPClient) DoJSON(ctx context.Context, method, url string, reqBody, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := c.Do(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: c.provider,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    c.provider,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// parseRetryAfter parses the Retry-After header in either delay-seconds or
// HTTP-date form.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}

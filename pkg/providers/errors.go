package providers

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProviderError is a general provider failure that does not fit a more
// specific class. It carries the provider name and HTTP status when known.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// AuthError is an authentication rejection (HTTP 401/403).
// Never retried automatically.
type AuthError struct {
	Provider string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed, check credentials: %s", e.Provider, e.Message)
}

// RateLimitError is an HTTP 429. The runtime does not auto-retry; callers
// may back off using RetryAfter when the provider supplied it.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded, retry after %s: %s", e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded, retry later: %s", e.Provider, e.Message)
}

// ServerError is an HTTP 5xx from the provider. Callers may retry.
type ServerError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("provider %q is experiencing issues (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// NetworkError is a transport-level failure: the request never produced an
// HTTP status. Cancelled marks context cancellation as opposed to
// connectivity failure.
type NetworkError struct {
	Provider  string
	Cancelled bool
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Cancelled {
		return fmt.Sprintf("provider %q request cancelled", e.Provider)
	}
	return fmt.Sprintf("could not reach provider %q: %v", e.Provider, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// ParseError is a malformed vendor response.
type ParseError struct {
	Provider    string
	RawResponse string
	Cause       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ValidationError is a malformed request or configuration detected before
// any network call. It fails fast at initialize/validate, never mid-stream.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConfigError is an invalid provider configuration.
type ConfigError struct {
	Provider string
	Field    string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s", e.Provider, e.Field, e.Message)
}

// PrivacyBlockError is raised before any network call when the privacy
// guard finds secrets in outgoing content for a non-local provider.
// Callers must surface it distinctly from transport errors. Findings carry
// only masked previews, never the full matched secret.
type PrivacyBlockError struct {
	Provider string
	Findings []PrivacyFinding
}

// PrivacyFinding is the JSON shape carried by a privacy block.
type PrivacyFinding struct {
	Type  string `json:"type"`
	Match string `json:"match"`
}

func (e *PrivacyBlockError) Error() string {
	payload, err := json.Marshal(e.Findings)
	if err != nil {
		payload = []byte("[]")
	}
	return fmt.Sprintf("privacy block for provider %q: %s", e.Provider, payload)
}

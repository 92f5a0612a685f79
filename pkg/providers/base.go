package providers

import (
	"log/slog"
	"strings"
	"sync"
)

// Base carries the descriptor and runtime state shared by every adapter.
// Concrete adapters embed it and implement the call methods. Runtime state
// mutates only at Initialize/SetModel; calls read it under the lock and keep
// all per-call state local.
type Base struct {
	desc Descriptor
	http *HTTPClient

	mu          sync.RWMutex
	apiKey      string
	modelID     string
	baseURL     string
	initialized bool
}

// NewBase creates the shared adapter state for a descriptor.
func NewBase(desc Descriptor, httpCfg HTTPClientConfig) *Base {
	return &Base{
		desc:    desc,
		http:    NewHTTPClient(desc.ID, httpCfg),
		baseURL: desc.BaseURL,
	}
}

// Info returns the immutable descriptor.
func (b *Base) Info() Descriptor { return b.desc }

// HTTP returns the shared HTTP layer.
func (b *Base) HTTP() *HTTPClient { return b.http }

// Initialize applies runtime configuration. Shape validation only, no I/O.
func (b *Base) Initialize(cfg RuntimeConfig) error {
	if b.desc.RequiresAPIKey && cfg.APIKey == "" {
		return &ConfigError{
			Provider: b.desc.ID,
			Field:    "api_key",
			Message:  "API key is required",
		}
	}
	if b.desc.APIKeyPrefix != "" && cfg.APIKey != "" && !strings.HasPrefix(cfg.APIKey, b.desc.APIKeyPrefix) {
		slog.Warn("API key does not match expected prefix",
			"provider", b.desc.ID,
			"expected_prefix", b.desc.APIKeyPrefix,
		)
	}
	if cfg.Model != "" {
		if _, ok := b.desc.ModelByID(cfg.Model); !ok {
			return &ConfigError{
				Provider: b.desc.ID,
				Field:    "model",
				Message:  "unknown model " + cfg.Model,
			}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.apiKey = cfg.APIKey
	b.modelID = cfg.Model
	if cfg.BaseURL != "" {
		b.baseURL = cfg.BaseURL
	}
	b.initialized = true

	slog.Debug("provider initialized",
		"provider", b.desc.ID,
		"base_url", b.baseURL,
		"model", b.currentModelLocked(),
	)
	return nil
}

// IsReady reports initialized state plus key presence when required.
func (b *Base) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized {
		return false
	}
	return !b.desc.RequiresAPIKey || b.apiKey != ""
}

// CurrentModelID resolves selected model, else default, else first.
func (b *Base) CurrentModelID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.currentModelLocked()
}

func (b *Base) currentModelLocked() string {
	if b.modelID != "" {
		return b.modelID
	}
	return b.desc.DefaultModel().ID
}

// SetModel switches the selected model.
func (b *Base) SetModel(id string) error {
	if _, ok := b.desc.ModelByID(id); !ok {
		return &ValidationError{Field: "model", Message: "provider " + b.desc.ID + " does not offer model " + id}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modelID = id
	return nil
}

// APIKey returns the configured credential.
func (b *Base) APIKey() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.apiKey
}

// BaseURL returns the effective endpoint.
func (b *Base) BaseURL() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.baseURL
}

// ResolveModel picks the explicit model when given, else the current one.
func (b *Base) ResolveModel(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return b.CurrentModelID()
}

// Close releases the HTTP layer.
func (b *Base) Close() error { return b.http.Close() }

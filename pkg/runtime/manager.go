package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"inkwell/scribe/pkg/privacy"
	"inkwell/scribe/pkg/providers"
	"inkwell/scribe/pkg/telemetry/metrics"
	"inkwell/scribe/pkg/usage"
)

// Credentials is the per-provider runtime configuration.
type Credentials struct {
	// APIKey is the provider credential. Optional for local providers.
	APIKey string

	// DefaultModel selects the initial model; empty means the adapter default.
	DefaultModel string

	// BaseURL overrides the adapter's endpoint.
	BaseURL string
}

// Config configures the manager's provider set.
type Config struct {
	// Providers maps provider id to its credentials. Only listed providers
	// are constructed.
	Providers map[string]Credentials

	// ActiveProvider is the provider requests dispatch to. Must be one of
	// the configured ids when set.
	ActiveProvider string
}

// PrivacyConfig controls the outbound content guard.
type PrivacyConfig struct {
	// MaxContextChars truncates outgoing content above this length.
	// Zero disables truncation.
	MaxContextChars int

	// AllowSecrets disables blocking on detected secrets. Scanning local
	// providers never blocks regardless.
	AllowSecrets bool
}

// ProviderStatus is a snapshot of one managed provider for listings.
type ProviderStatus struct {
	ID           string                  `json:"id"`
	DisplayName  string                  `json:"display_name"`
	Ready        bool                    `json:"ready"`
	Active       bool                    `json:"active"`
	Model        string                  `json:"model"`
	Models       []providers.ModelInfo   `json:"models"`
	Capabilities []providers.Capability  `json:"capabilities"`
}

// Manager owns the configured provider set and dispatches every call through
// the privacy guard and capability gate. Reconfiguration is atomic: a new set
// is fully built before it replaces the old one, and a failed build leaves
// the running set untouched.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]providers.Provider
	active    string
	privacy   PrivacyConfig

	metrics    *metrics.ClientMetrics
	usageStore *usage.Store
	logger     *slog.Logger
}

// NewManager creates an empty manager. Call Initialize to load providers.
func NewManager() *Manager {
	return &Manager{
		providers: make(map[string]providers.Provider),
		logger:    slog.Default().With("component", "runtime.manager"),
	}
}

// SetMetrics attaches call metrics. Nil is allowed and disables recording.
func (m *Manager) SetMetrics(c *metrics.ClientMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = c
}

// SetUsageStore attaches usage accounting. Nil disables recording.
func (m *Manager) SetUsageStore(s *usage.Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usageStore = s
}

// SetPrivacyConfig replaces the outbound content guard settings.
func (m *Manager) SetPrivacyConfig(cfg PrivacyConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.privacy = cfg
}

// Initialize builds the provider set from config and swaps it in atomically.
// On any construction or initialization failure the previous set keeps
// serving and the error is returned.
func (m *Manager) Initialize(cfg Config) error {
	if len(cfg.Providers) == 0 {
		return &providers.ValidationError{Field: "providers", Message: "no providers configured"}
	}

	ids := make([]string, 0, len(cfg.Providers))
	for id := range cfg.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fresh := make(map[string]providers.Provider, len(ids))
	closeAll := func(set map[string]providers.Provider) {
		for _, p := range set {
			p.Close()
		}
	}

	for _, id := range ids {
		creds := cfg.Providers[id]
		p, err := NewProvider(id)
		if err != nil {
			closeAll(fresh)
			return err
		}
		if err := p.Initialize(providers.RuntimeConfig{
			APIKey:  creds.APIKey,
			Model:   creds.DefaultModel,
			BaseURL: creds.BaseURL,
		}); err != nil {
			p.Close()
			closeAll(fresh)
			return fmt.Errorf("failed to initialize provider %q: %w", id, err)
		}
		fresh[id] = p
	}

	active := cfg.ActiveProvider
	if active != "" {
		if _, ok := fresh[active]; !ok {
			closeAll(fresh)
			return &providers.ConfigError{
				Provider: active,
				Field:    "active_provider",
				Message:  "active provider is not among the configured providers",
			}
		}
	}

	m.mu.Lock()
	old := m.providers
	m.providers = fresh
	m.active = active
	m.mu.Unlock()

	closeAll(old)

	m.logger.Info("provider set initialized",
		"providers", ids,
		"active", active,
	)
	return nil
}

// Provider returns a managed provider by id.
func (m *Manager) Provider(id string) (providers.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, &providers.ConfigError{Provider: id, Field: "provider", Message: "provider not configured"}
	}
	return p, nil
}

// ActiveProviderID returns the id of the active provider, empty if unset.
func (m *Manager) ActiveProviderID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// SetActiveProvider switches dispatch to the given provider, optionally
// selecting a model at the same time.
func (m *Manager) SetActiveProvider(id, modelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.providers[id]
	if !ok {
		return &providers.ConfigError{Provider: id, Field: "provider", Message: "provider not configured"}
	}
	if modelID != "" {
		if err := p.SetModel(modelID); err != nil {
			return err
		}
	}
	m.active = id
	m.logger.Info("active provider changed", "provider", id, "model", p.CurrentModelID())
	return nil
}

// AvailableProviders returns status snapshots for every configured provider,
// sorted by id.
func (m *Manager) AvailableProviders() []ProviderStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ProviderStatus, 0, len(m.providers))
	for id, p := range m.providers {
		info := p.Info()
		caps := info.Capabilities.List()
		sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
		out = append(out, ProviderStatus{
			ID:           id,
			DisplayName:  info.DisplayName,
			Ready:        p.IsReady(),
			Active:       id == m.active,
			Model:        p.CurrentModelID(),
			Models:       info.Models,
			Capabilities: caps,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ValidateProvider runs the provider's credential probe.
func (m *Manager) ValidateProvider(ctx context.Context, id string) (providers.ValidationResult, error) {
	p, err := m.Provider(id)
	if err != nil {
		return providers.ValidationResult{}, err
	}
	return p.ValidateConfig(ctx), nil
}

// Complete dispatches a non-streaming completion to the active provider.
func (m *Manager) Complete(ctx context.Context, params *providers.CompletionParams) (*providers.Result, error) {
	id, p, err := m.activeProvider()
	if err != nil {
		return nil, err
	}
	if err := m.gate(id, p, params.Task, providers.CapCompletion); err != nil {
		return nil, err
	}

	guarded, err := m.guardOutbound(id, params.Prompt)
	if err != nil {
		m.recordError(id, err)
		return nil, err
	}
	call := *params
	call.Prompt = guarded

	start := time.Now()
	res, err := p.Complete(ctx, &call)
	m.observe(id, p.CurrentModelID(), "complete", params.Task, start, false, res, err)
	return res, err
}

// StreamComplete dispatches a streaming completion to the active provider.
func (m *Manager) StreamComplete(ctx context.Context, params *providers.CompletionParams, onChunk providers.ChunkHandler) (*providers.Result, error) {
	id, p, err := m.activeProvider()
	if err != nil {
		return nil, err
	}
	if err := m.gate(id, p, params.Task, providers.CapCompletion, providers.CapStream); err != nil {
		return nil, err
	}

	guarded, err := m.guardOutbound(id, params.Prompt)
	if err != nil {
		m.recordError(id, err)
		return nil, err
	}
	call := *params
	call.Prompt = guarded

	start := time.Now()
	res, err := p.StreamComplete(ctx, &call, m.countChunks(id, onChunk))
	m.observe(id, p.CurrentModelID(), "stream_complete", params.Task, start, true, res, err)
	return res, err
}

// Chat dispatches a non-streaming conversation to the active provider.
func (m *Manager) Chat(ctx context.Context, msgs []providers.Message, opts *providers.CallOptions) (*providers.Result, error) {
	id, p, err := m.activeProvider()
	if err != nil {
		return nil, err
	}
	if err := m.gate(id, p, "", providers.CapChat); err != nil {
		return nil, err
	}

	guarded, err := m.guardMessages(id, msgs)
	if err != nil {
		m.recordError(id, err)
		return nil, err
	}

	start := time.Now()
	res, err := p.Chat(ctx, guarded, opts)
	m.observe(id, p.CurrentModelID(), "chat", "", start, false, res, err)
	return res, err
}

// StreamChat dispatches a streaming conversation to the active provider.
func (m *Manager) StreamChat(ctx context.Context, msgs []providers.Message, onChunk providers.ChunkHandler, opts *providers.CallOptions) (*providers.Result, error) {
	id, p, err := m.activeProvider()
	if err != nil {
		return nil, err
	}
	if err := m.gate(id, p, "", providers.CapChat, providers.CapStream); err != nil {
		return nil, err
	}

	guarded, err := m.guardMessages(id, msgs)
	if err != nil {
		m.recordError(id, err)
		return nil, err
	}

	start := time.Now()
	res, err := p.StreamChat(ctx, guarded, m.countChunks(id, onChunk), opts)
	m.observe(id, p.CurrentModelID(), "stream_chat", "", start, true, res, err)
	return res, err
}

// Close shuts down every provider and clears the set.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for id, p := range m.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", id, err))
		}
	}
	m.providers = make(map[string]providers.Provider)
	m.active = ""

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// activeProvider resolves the provider requests dispatch to.
func (m *Manager) activeProvider() (string, providers.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == "" {
		return "", nil, &providers.ValidationError{Field: "active_provider", Message: "no active provider selected"}
	}
	p, ok := m.providers[m.active]
	if !ok {
		return "", nil, &providers.ConfigError{Provider: m.active, Field: "active_provider", Message: "active provider not configured"}
	}
	if !p.IsReady() {
		return "", nil, &providers.ConfigError{Provider: m.active, Field: "active_provider", Message: "active provider is not initialized"}
	}
	return m.active, p, nil
}

// gate rejects the call before any guard or network work when the provider
// lacks a required operation capability or the task's action capability.
func (m *Manager) gate(id string, p providers.Provider, task string, required ...providers.Capability) error {
	caps := p.Info().Capabilities
	if task != "" {
		required = append(required, providers.Capability(task))
	}
	for _, c := range required {
		if !caps.Has(c) {
			return &providers.ValidationError{
				Field:   "capability",
				Message: fmt.Sprintf("provider %q does not support %q", id, c),
			}
		}
	}
	return nil
}

// guardOutbound scans one outgoing text for secrets and applies truncation.
// Local providers are never blocked.
func (m *Manager) guardOutbound(providerID, text string) (string, error) {
	m.mu.RLock()
	cfg := m.privacy
	m.mu.RUnlock()

	if !cfg.AllowSecrets && !privacy.IsLocalProvider(providerID) {
		if findings := privacy.ScanForSecrets(text); len(findings) > 0 {
			return "", &providers.PrivacyBlockError{
				Provider: providerID,
				Findings: toWireFindings(findings),
			}
		}
	}
	return privacy.TruncateContent(text, cfg.MaxContextChars), nil
}

// guardMessages applies the outbound guard to every message in a
// conversation. The first finding across any message blocks the whole call.
func (m *Manager) guardMessages(providerID string, msgs []providers.Message) ([]providers.Message, error) {
	out := make([]providers.Message, len(msgs))
	for i, msg := range msgs {
		guarded, err := m.guardOutbound(providerID, msg.Content)
		if err != nil {
			return nil, err
		}
		out[i] = providers.Message{Role: msg.Role, Content: guarded}
	}
	return out, nil
}

// countChunks wraps a chunk handler to count decoded deltas.
func (m *Manager) countChunks(providerID string, onChunk providers.ChunkHandler) providers.ChunkHandler {
	return func(text string, done bool) {
		if !done {
			m.metrics.RecordChunk(providerID)
		}
		onChunk(text, done)
	}
}

// observe records metrics and a usage row for one completed dispatch.
func (m *Manager) observe(providerID, model, kind, task string, start time.Time, streamed bool, res *providers.Result, err error) {
	elapsed := time.Since(start)

	if err != nil {
		m.recordError(providerID, err)
	} else {
		m.metrics.RecordCall(providerID, model, kind, elapsed)
	}

	rec := usage.Record{
		Provider: providerID,
		Model:    model,
		Action:   task,
		Streamed: streamed,
		OK:       err == nil,
	}
	if res != nil {
		rec.ID = res.Metadata[providers.MetaRequestID]
		if res.Usage != nil {
			rec.PromptTokens = res.Usage.PromptTokens
			rec.CompletionTokens = res.Usage.CompletionTokens
			rec.TotalTokens = res.Usage.TotalTokens
			m.metrics.RecordTokens(providerID, model, res.Usage.PromptTokens, res.Usage.CompletionTokens)
		}
	}

	m.mu.RLock()
	store := m.usageStore
	m.mu.RUnlock()
	if store != nil {
		if recErr := store.Record(context.Background(), rec); recErr != nil {
			m.logger.Warn("failed to record usage", "provider", providerID, "error", recErr)
		}
	}
}

// recordError maps an error onto its metrics type label.
func (m *Manager) recordError(providerID string, err error) {
	m.metrics.RecordError(providerID, errorType(err))
}

// errorType classifies an error into a stable metrics label.
func errorType(err error) string {
	var (
		authErr    *providers.AuthError
		rateErr    *providers.RateLimitError
		serverErr  *providers.ServerError
		netErr     *providers.NetworkError
		parseErr   *providers.ParseError
		privacyErr *providers.PrivacyBlockError
		cfgErr     *providers.ConfigError
		valErr     *providers.ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &serverErr):
		return "server_error"
	case errors.As(err, &netErr):
		if netErr.Cancelled {
			return "cancelled"
		}
		return "network"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &privacyErr):
		return "privacy_block"
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return "config"
	default:
		return "other"
	}
}

// toWireFindings converts guard findings to the error payload shape.
func toWireFindings(findings []privacy.Finding) []providers.PrivacyFinding {
	out := make([]providers.PrivacyFinding, len(findings))
	for i, f := range findings {
		out[i] = providers.PrivacyFinding{Type: f.Type, Match: f.MatchPreview}
	}
	return out
}

package config

// Config is the root configuration for the runtime and CLI.
type Config struct {
	// Providers maps provider id to its credentials and model choice.
	Providers map[string]ProviderConfig `yaml:"providers"`

	// ActiveProvider is the provider requests dispatch to.
	ActiveProvider string `yaml:"active_provider"`

	// Privacy controls the outbound content guard.
	Privacy PrivacyConfig `yaml:"privacy"`

	// Usage controls local usage accounting.
	Usage UsageConfig `yaml:"usage"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProviderConfig holds per-provider credentials and defaults.
type ProviderConfig struct {
	// APIKey is the provider credential. Local providers may omit it.
	APIKey string `yaml:"api_key"`

	// Model is the initial model id; empty means the adapter default.
	Model string `yaml:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `yaml:"base_url"`
}

// PrivacyConfig controls secret scanning and content truncation.
type PrivacyConfig struct {
	// MaxContextChars truncates outgoing content above this length.
	// Zero disables truncation.
	MaxContextChars int `yaml:"max_context_chars"`

	// AllowSecrets disables blocking when secrets are detected.
	AllowSecrets bool `yaml:"allow_secrets"`
}

// UsageConfig controls the local usage store.
type UsageConfig struct {
	// Enabled turns usage accounting on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// RetentionDays is how long records are kept. Zero keeps them forever.
	RetentionDays int `yaml:"retention_days"`

	// RetentionSchedule is the cron expression for pruning runs.
	RetentionSchedule string `yaml:"retention_schedule"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// Format is the handler format (json or text).
	Format string `yaml:"format"`

	// AddSource includes file:line in records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics HTTP listen address.
	ListenAddress string `yaml:"listen_address"`

	// Path is the scrape path.
	Path string `yaml:"path"`
}

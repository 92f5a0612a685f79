package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads the YAML file and then applies
// environment variable overrides. Variables follow the convention
// SCRIBE_SECTION_FIELD (e.g., SCRIBE_PRIVACY_MAX_CONTEXT_CHARS) and always
// take precedence over the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies SCRIBE_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SCRIBE_ACTIVE_PROVIDER"); val != "" {
		cfg.ActiveProvider = val
	}

	for _, id := range []string{"openai", "anthropic", "gemini", "groq", "mistral", "ollama"} {
		applyProviderEnvOverrides(cfg, id)
	}

	if val := os.Getenv("SCRIBE_PRIVACY_MAX_CONTEXT_CHARS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Privacy.MaxContextChars = i
		}
	}
	if val := os.Getenv("SCRIBE_PRIVACY_ALLOW_SECRETS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Privacy.AllowSecrets = b
		}
	}

	if val := os.Getenv("SCRIBE_USAGE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Usage.Enabled = b
		}
	}
	if val := os.Getenv("SCRIBE_USAGE_PATH"); val != "" {
		cfg.Usage.Path = val
	}
	if val := os.Getenv("SCRIBE_USAGE_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Usage.RetentionDays = i
		}
	}

	if val := os.Getenv("SCRIBE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SCRIBE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SCRIBE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SCRIBE_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}

// applyProviderEnvOverrides applies SCRIBE_PROVIDERS_<NAME>_<FIELD>
// variables for one provider. A provider can be configured entirely from
// the environment.
func applyProviderEnvOverrides(cfg *Config, id string) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	provider, exists := cfg.Providers[id]
	prefix := fmt.Sprintf("SCRIBE_PROVIDERS_%s_", strings.ToUpper(id))

	modified := false
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		provider.Model = val
		modified = true
	}
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
		modified = true
	}

	if modified || exists {
		cfg.Providers[id] = provider
	}
}

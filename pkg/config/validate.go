package config

import (
	"fmt"

	"inkwell/scribe/pkg/privacy"
)

// Validate checks the configuration for problems that should fail fast at
// startup rather than surface mid-call.
func Validate(cfg *Config) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}

	for id, p := range cfg.Providers {
		if id == "" {
			return fmt.Errorf("provider with empty id")
		}
		if p.APIKey == "" && !privacy.IsLocalProvider(id) {
			return fmt.Errorf("provider %q: api_key is required", id)
		}
	}

	if cfg.ActiveProvider != "" {
		if _, ok := cfg.Providers[cfg.ActiveProvider]; !ok {
			return fmt.Errorf("active_provider %q is not configured", cfg.ActiveProvider)
		}
	}

	if cfg.Privacy.MaxContextChars < 0 {
		return fmt.Errorf("privacy.max_context_chars must not be negative")
	}

	if cfg.Usage.RetentionDays < 0 {
		return fmt.Errorf("usage.retention_days must not be negative")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not supported", cfg.Telemetry.Logging.Level)
	}

	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not supported", cfg.Telemetry.Logging.Format)
	}

	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.ListenAddress == "" {
		return fmt.Errorf("telemetry.metrics.listen_address is required when metrics are enabled")
	}

	return nil
}

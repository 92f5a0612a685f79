package config

// Default values applied to unset fields.
const (
	DefaultMaxContextChars   = 100000
	DefaultUsagePath         = "data/usage.db"
	DefaultRetentionDays     = 90
	DefaultRetentionSchedule = "0 3 * * *"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultMetricsAddress    = "127.0.0.1:9464"
	DefaultMetricsPath       = "/metrics"
)

// ApplyDefaults fills unset fields with their defaults. It does not touch
// provider credentials; those must come from the file or the environment.
func ApplyDefaults(cfg *Config) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	if cfg.Privacy.MaxContextChars == 0 {
		cfg.Privacy.MaxContextChars = DefaultMaxContextChars
	}

	if cfg.Usage.Path == "" {
		cfg.Usage.Path = DefaultUsagePath
	}
	if cfg.Usage.RetentionDays == 0 {
		cfg.Usage.RetentionDays = DefaultRetentionDays
	}
	if cfg.Usage.RetentionSchedule == "" {
		cfg.Usage.RetentionSchedule = DefaultRetentionSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

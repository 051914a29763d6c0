package config

import "time"

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 60 * time.Second
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/metaweb.db"
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = 5 * time.Second
	}

	if cfg.Audit.Schedule == "" {
		cfg.Audit.Schedule = "*/5 * * * *"
	}
	if cfg.Audit.LogPath == "" {
		cfg.Audit.LogPath = "data/audit.db"
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = "/metrics"
	}
}

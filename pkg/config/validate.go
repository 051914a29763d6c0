package config

import "fmt"

// Validate checks the configuration for inconsistencies. It is called
// after defaults and again after environment overrides.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address is required")
	}

	switch cfg.Store.Backend {
	case "sqlite":
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", "sqlite", "memory", cfg.Store.Backend)
	}

	if cfg.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be debug, info, warn or error, got %q",
			cfg.Telemetry.Logging.Level)
	}

	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q",
			cfg.Telemetry.Logging.Format)
	}

	if cfg.Audit.Enabled && cfg.Audit.LogPath == "" {
		return fmt.Errorf("audit.log_path is required when the auditor is enabled")
	}

	return nil
}

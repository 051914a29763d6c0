package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates. Environment overrides are not applied; use
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

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the
// METAWEB_SECTION_FIELD convention; the legacy ADMIN_TOKEN and
// OPENROUTER_API_KEY names from earlier deployments are also honored.
// Environment always takes precedence over the file.
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

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("METAWEB_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("METAWEB_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("METAWEB_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("METAWEB_SERVER_CORS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.CORSEnabled = b
		}
	}

	if val := os.Getenv("METAWEB_ADMIN_TOKEN"); val != "" {
		cfg.Admin.Token = val
	} else if val := os.Getenv("ADMIN_TOKEN"); val != "" {
		cfg.Admin.Token = val
	}

	if val := os.Getenv("METAWEB_UPSTREAM_BASE_URL"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv("METAWEB_UPSTREAM_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	} else if val := os.Getenv("OPENROUTER_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("METAWEB_UPSTREAM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.Timeout = d
		}
	}

	if val := os.Getenv("METAWEB_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("METAWEB_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}

	if val := os.Getenv("METAWEB_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("METAWEB_AUDIT_SCHEDULE"); val != "" {
		cfg.Audit.Schedule = val
	}

	if val := os.Getenv("METAWEB_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("METAWEB_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("METAWEB_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}

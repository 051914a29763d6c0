// Package config defines the service configuration, loaded from a YAML
// file with defaults applied, environment overrides, and validation.
package config

import "time"

// Config is the root service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Admin     AdminConfig     `yaml:"admin"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Store     StoreConfig     `yaml:"store"`
	Audit     AuditConfig     `yaml:"audit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// ListenAddress is the host:port to bind, e.g. ":8080".
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout, WriteTimeout and IdleTimeout are the standard
	// http.Server timeouts.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// CORSEnabled controls the CORS middleware.
	CORSEnabled bool `yaml:"cors_enabled"`
}

// AdminConfig configures admin authorization.
type AdminConfig struct {
	// Token is the shared secret for mutating endpoints. Empty disables
	// enforcement.
	Token string `yaml:"token"`
}

// UpstreamConfig configures the completion provider.
type UpstreamConfig struct {
	// BaseURL is the provider API base.
	BaseURL string `yaml:"base_url"`

	// APIKey is the provider bearer token.
	APIKey string `yaml:"api_key"`

	// Timeout bounds each completion request.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig configures the configuration version store.
type StoreConfig struct {
	// Backend selects the store implementation: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file (sqlite backend only).
	Path string `yaml:"path"`

	// BusyTimeout is the SQLite lock wait budget.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// AuditConfig configures the consistency auditor.
type AuditConfig struct {
	// Enabled controls whether the auditor runs at all.
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression for periodic audits.
	Schedule string `yaml:"schedule"`

	// LogPath is the anomaly log database file.
	LogPath string `yaml:"log_path"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served.
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`
}

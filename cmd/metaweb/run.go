package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"metaweb/console/pkg/admin"
	"metaweb/console/pkg/config"
	"metaweb/console/pkg/modelconfig"
	"metaweb/console/pkg/modelconfig/audit"
	"metaweb/console/pkg/modelconfig/storage"
	"metaweb/console/pkg/server"
	"metaweb/console/pkg/telemetry/metrics"
	"metaweb/console/pkg/upstream"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Metaweb console server",
	Long: `Start the Metaweb console server with the specified configuration.

The server exposes the model configuration admin routes, the chat and
evaluation proxy, and the health and metrics endpoints.

Examples:
  # Start with default config
  metaweb run

  # Start with custom config
  metaweb run --config /etc/metaweb/config.yaml

  # Override listen address
  metaweb run --listen 0.0.0.0:8080

  # Validate config without starting server
  metaweb run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	setupLogging(cfg)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Metaweb Console v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration version store
	var store modelconfig.Store
	switch cfg.Store.Backend {
	case "sqlite":
		store, err = storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:        cfg.Store.Path,
			WALMode:     true,
			BusyTimeout: cfg.Store.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
	case "memory":
		store = storage.NewMemoryStore()
	default:
		return fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
	defer store.Close()
	fmt.Printf("✓ Store initialized (%s)\n", cfg.Store.Backend)

	service := modelconfig.NewService(store)

	gateway := upstream.NewClient(&upstream.ClientConfig{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	})
	defer gateway.Close()

	authorizer := admin.NewAuthorizer(cfg.Admin.Token)

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}

	if cfg.Audit.Enabled {
		auditor, err := audit.NewAuditor(store, collector, audit.Config{
			Schedule: cfg.Audit.Schedule,
			LogPath:  cfg.Audit.LogPath,
		})
		if err != nil {
			return fmt.Errorf("failed to create consistency auditor: %w", err)
		}
		defer auditor.Close()

		if err := auditor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start consistency auditor: %w", err)
		}
		fmt.Println("✓ Consistency auditor started")
	}

	// Config file watcher: admin token and upstream key rotate without a
	// restart. Other settings still need one to take effect.
	watcher, err := config.NewWatcher(cfgFile, 0)
	if err != nil {
		slog.Warn("config watcher unavailable", "error", err)
	} else {
		go func() {
			err := watcher.Watch(ctx, func(next *config.Config) {
				authorizer.SetToken(next.Admin.Token)
				gateway.SetAPIKey(next.Upstream.APIKey)
			})
			if err != nil {
				slog.Error("config watcher exited", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	srv := server.NewServer(cfg, service, store, gateway, authorizer, collector)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until a shutdown signal, context cancellation, or a
	// listener error.
	return srv.Start(ctx)
}

// setupLogging installs the process-wide slog handler from the telemetry
// configuration.
func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch cfg.Telemetry.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Telemetry.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

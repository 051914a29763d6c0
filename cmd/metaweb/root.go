package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "metaweb",
	Short: "Metaweb console - model configuration and chat proxy",
	Long: `Metaweb console manages versioned chat-completion model configuration
and proxies chat requests to the upstream provider.

It provides:
  - Versioned model configuration with atomic publish
  - Effective-configuration resolution with built-in defaults
  - A chat and evaluation proxy over the OpenAI wire format
  - Shared-secret authorization for mutating admin routes`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

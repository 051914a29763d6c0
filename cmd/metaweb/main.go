// Metaweb console is the admin and proxy layer for chat completions.
//
// It serves versioned model configuration with atomic publish, resolves
// the effective configuration for each request, and forwards chat and
// evaluation prompts to the upstream completion provider.
//
// Usage:
//
//	# Start server with default configuration
//	metaweb run
//
//	# Start with custom configuration file
//	metaweb run --config /path/to/config.yaml
//
//	# Validate configuration without starting
//	metaweb run --dry-run
//
//	# Show version information
//	metaweb version
package main

func main() {
	Execute()
}

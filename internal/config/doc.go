// Package config provides configuration loading, merging, and path management for bmadhub.
//
// This package handles the configuration system that supports multiple sources
// and formats, with a hierarchical loading strategy that ensures proper
// precedence between machine-wide and project-local settings.
//
// # Configuration Loading
//
// The Load function searches for and merges configuration from multiple
// sources in priority order:
//
//  1. Home config (~/.bmadhub/)
//  2. Global config (~/.config/bmadhub/ - XDG compatible)
//  3. Project config (bmadhub.json/bmadhub.jsonc at the project root and
//     under .bmadhub/)
//  4. BMADHUB_CONFIG file
//  5. BMADHUB_CONFIG_CONTENT inline JSON
//  6. Environment variables
//
// Configuration files are loaded in a specific order to ensure that more
// specific configurations override more general ones, while environment
// variables have the highest precedence.
//
// # Supported Formats
//
// The package supports both JSON and JSONC (JSON with Comments) formats:
//   - bmadhub.json - Standard JSON configuration
//   - bmadhub.jsonc - JSON with comments, processed using tidwall/jsonc
//
// # Variable Interpolation
//
// Configuration files support two types of variable interpolation:
//   - {env:VAR_NAME} - Expands to environment variable values
//   - {file:path} - Expands to file contents (properly escaped for JSON)
//
// File paths in {file:path} placeholders support:
//   - Absolute paths
//   - Relative paths (resolved relative to config file directory)
//   - Home directory expansion (~/)
//
// Example configuration with interpolation:
//
//	{
//	  "root": "{env:WORKSPACE_ROOT}",
//	  "server": {
//	    "port": 7777
//	  },
//	  "watcher": {
//	    "debounce": 400
//	  }
//	}
//
// # Configuration Merging
//
// When multiple configuration sources are found, they are merged so that:
//   - Non-empty scalar values from later sources overwrite earlier ones
//   - Section pointers (search, server, watcher) replace wholesale
//   - The last-loaded value wins for conflicts
//
// # Path Management
//
// The package provides XDG Base Directory Specification compliant path
// management through the Paths type:
//   - Data: ~/.local/share/bmadhub (XDG_DATA_HOME)
//   - Config: ~/.config/bmadhub (XDG_CONFIG_HOME)
//   - Cache: ~/.cache/bmadhub (XDG_CACHE_HOME)
//   - State: ~/.local/state/bmadhub (XDG_STATE_HOME)
//
// On Windows, these paths are adapted to use APPDATA as appropriate.
//
// # Environment Variable Overrides
//
// Several environment variables provide direct configuration overrides:
//   - BMADHUB_ROOT - Override the project root to scan
//   - BMADHUB_MANIFEST_DIR - Override installation discovery with an
//     explicit bmad directory
//   - BMADHUB_LOG_LEVEL - Override the log level
//   - BMADHUB_PORT - Override the HTTP server port
//   - BMADHUB_CONFIG - Path to a specific config file
//   - BMADHUB_CONFIG_CONTENT - Inline JSON configuration
//   - BMADHUB_CONFIG_DIR - Override the config directory location
//
// # Usage Example
//
//	// Load configuration for a project directory
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Get standard paths
//	paths := config.GetPaths()
//	err = paths.EnsurePaths() // Create directories if they don't exist
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Save configuration
//	err = config.Save(cfg, config.GlobalConfigPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

package types

// Config represents the bmadhub configuration.
type Config struct {
	// Schema reference (for editor support)
	Schema string `json:"$schema,omitempty"`

	// Root is the project root to scan. Defaults to the working directory.
	Root string `json:"root,omitempty"`

	// ManifestDir overrides installation discovery with an explicit
	// bmad directory.
	ManifestDir string `json:"manifestDir,omitempty"`

	// Logging
	LogLevel string `json:"logLevel,omitempty"` // "debug"|"info"|"warn"|"error"

	// Query defaults
	Search *SearchConfig `json:"search,omitempty"`

	// HTTP server
	Server *ServerConfig `json:"server,omitempty"`

	// Manifest watcher
	Watcher *WatcherConfig `json:"watcher,omitempty"`
}

// SearchConfig holds query surface defaults.
type SearchConfig struct {
	// Limit caps search results when the caller passes none. 0 means the
	// built-in default of 10.
	Limit int `json:"limit,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Hostname string `json:"hostname,omitempty"` // default "127.0.0.1"
	Port     int    `json:"port,omitempty"`     // default 7777
}

// WatcherConfig holds manifest watcher settings.
type WatcherConfig struct {
	Disabled bool `json:"disabled,omitempty"`

	// Debounce is the quiet window in milliseconds before a burst of file
	// events triggers one rescan. 0 means the default of 400.
	Debounce int `json:"debounce,omitempty"`

	// Ignore lists path substrings the watcher skips.
	Ignore []string `json:"ignore,omitempty"`
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmad-ai/bmadhub/pkg/types"
	"github.com/tidwall/jsonc"
)

// Load loads configuration from multiple sources (priority order):
// 1. Home config (~/.bmadhub/)
// 2. Global config (~/.config/bmadhub/ - XDG compatible)
// 3. Project config (bmadhub.json or .bmadhub/ under the project root)
// 4. BMADHUB_CONFIG file
// 5. BMADHUB_CONFIG_CONTENT inline JSON
// 6. Environment variables
func Load(directory string) (*types.Config, error) {
	config := &types.Config{}

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string, baseDir string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config, baseDir) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Home config (~/.bmadhub/)
	home := os.Getenv("HOME")
	if home != "" {
		homeConfigDir := filepath.Join(home, ".bmadhub")
		loadOnce(filepath.Join(homeConfigDir, "bmadhub.json"), homeConfigDir)
		loadOnce(filepath.Join(homeConfigDir, "bmadhub.jsonc"), homeConfigDir)
	}

	// 2. XDG-compatible global config (~/.config/bmadhub/)
	globalPath := GetPaths().Config
	loadOnce(filepath.Join(globalPath, "bmadhub.json"), globalPath)
	loadOnce(filepath.Join(globalPath, "bmadhub.jsonc"), globalPath)

	// 3. Project config
	if directory != "" {
		projectConfigDir := filepath.Join(directory, ".bmadhub")
		loadOnce(filepath.Join(directory, "bmadhub.json"), directory)
		loadOnce(filepath.Join(directory, "bmadhub.jsonc"), directory)
		loadOnce(filepath.Join(projectConfigDir, "bmadhub.json"), projectConfigDir)
		loadOnce(filepath.Join(projectConfigDir, "bmadhub.jsonc"), projectConfigDir)
	}

	// 4. BMADHUB_CONFIG file override
	if configPath := os.Getenv("BMADHUB_CONFIG"); configPath != "" {
		loadOnce(configPath, filepath.Dir(configPath))
	}

	// 5. BMADHUB_CONFIG_CONTENT inline JSON
	if configContent := os.Getenv("BMADHUB_CONFIG_CONTENT"); configContent != "" {
		var inlineConfig types.Config
		if err := json.Unmarshal([]byte(configContent), &inlineConfig); err == nil {
			mergeConfig(config, &inlineConfig)
		}
	}

	// 6. Environment variables (highest priority)
	applyEnvOverrides(config)

	return config, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *types.Config, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	// Apply interpolation
	data = interpolate(data, baseDir)

	var fileConfig types.Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(data []byte, baseDir string) []byte {
	str := string(data)

	// Handle {env:VAR_NAME} placeholders
	envPattern := regexp.MustCompile(`\{env:([^}]+)\}`)
	str = envPattern.ReplaceAllStringFunc(str, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})

	// Handle {file:path} placeholders
	filePattern := regexp.MustCompile(`\{file:([^}]+)\}`)
	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := filePattern.FindStringSubmatch(match)[1]

		// Resolve path
		if strings.HasPrefix(filePath, "~/") {
			home := os.Getenv("HOME")
			filePath = filepath.Join(home, filePath[2:])
		} else if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDir, filePath)
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return match // Keep original if file not found
		}

		// Escape for JSON string
		escaped := strings.ReplaceAll(string(content), "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		escaped = strings.ReplaceAll(escaped, "\n", "\\n")
		escaped = strings.ReplaceAll(escaped, "\r", "\\r")
		escaped = strings.ReplaceAll(escaped, "\t", "\\t")

		return escaped
	})

	return []byte(str)
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *types.Config) {
	if source.Schema != "" {
		target.Schema = source.Schema
	}
	if source.Root != "" {
		target.Root = source.Root
	}
	if source.ManifestDir != "" {
		target.ManifestDir = source.ManifestDir
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}

	// Section pointers replace wholesale
	if source.Search != nil {
		target.Search = source.Search
	}
	if source.Server != nil {
		target.Server = source.Server
	}
	if source.Watcher != nil {
		target.Watcher = source.Watcher
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *types.Config) {
	if root := os.Getenv("BMADHUB_ROOT"); root != "" {
		config.Root = root
	}
	if dir := os.Getenv("BMADHUB_MANIFEST_DIR"); dir != "" {
		config.ManifestDir = dir
	}
	if level := os.Getenv("BMADHUB_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if port := os.Getenv("BMADHUB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			if config.Server == nil {
				config.Server = &types.ServerConfig{}
			}
			config.Server.Port = n
		}
	}
}

// Save saves the configuration to a file.
func Save(config *types.Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetConfigDir returns the config directory to use.
// Prefers BMADHUB_CONFIG_DIR, then ~/.bmadhub, then ~/.config/bmadhub.
func GetConfigDir() string {
	// Check environment variable first
	if dir := os.Getenv("BMADHUB_CONFIG_DIR"); dir != "" {
		return dir
	}

	// Check for the home dotdir location
	home := os.Getenv("HOME")
	if home != "" {
		homeDir := filepath.Join(home, ".bmadhub")
		if _, err := os.Stat(homeDir); err == nil {
			return homeDir
		}
	}

	// Fall back to XDG location
	return GetPaths().Config
}

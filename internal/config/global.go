package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// GlobalConfigDir returns the global goatminify configuration directory.
// On Unix: ~/.config/goatminify (or XDG_CONFIG_HOME/goatminify)
// On Windows: %APPDATA%\goatminify
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return ""
	}
	return filepath.Join(homeDir, ".config", appName)
}

// GlobalConfigPath returns the full path to the global config file.
func GlobalConfigPath() string {
	dir := GlobalConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// GlobalConfigExists returns true if a global config file exists.
func GlobalConfigExists() bool {
	path := GlobalConfigPath()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// LoadGlobalConfig loads the global configuration from disk.
// Returns nil, nil if no global config exists (not an error).
// Returns nil, error if the config exists but cannot be read or parsed.
func LoadGlobalConfig() (*Config, error) {
	path := GlobalConfigPath()
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	// Empty file is treated as no config
	if len(data) == 0 {
		return nil, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse global config: %w", err)
	}

	return &cfg, nil
}

// SaveGlobalConfig saves the configuration to the global config file.
// Creates the directory if it doesn't exist.
func SaveGlobalConfig(cfg *Config) error {
	dir := GlobalConfigDir()
	if dir == "" {
		return fmt.Errorf("cannot determine global config directory")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create global config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := GlobalConfigPath()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write global config: %w", err)
	}

	return nil
}

// MergeConfigs merges global and project configs, with project taking precedence.
// Only non-zero project values override. If both are nil, returns an empty Config (not nil).
func MergeConfigs(global, project *Config) *Config {
	result := &Config{}

	if global != nil {
		*result = *global
	}

	if project == nil {
		return result
	}

	if project.Version != 0 {
		result.Version = project.Version
	}

	if project.Minify.DefaultLevel != 0 {
		result.Minify.DefaultLevel = project.Minify.DefaultLevel
	}
	if project.Minify.DefaultType != "" {
		result.Minify.DefaultType = project.Minify.DefaultType
	}

	if project.Detection.SampleSize != 0 {
		result.Detection.SampleSize = project.Detection.SampleSize
	}

	if project.Engines.Enabled != nil {
		enabled := *project.Engines.Enabled
		result.Engines.Enabled = &enabled
	}
	if project.Engines.TimeoutMs != 0 {
		result.Engines.TimeoutMs = project.Engines.TimeoutMs
	}

	if project.Watcher.DebounceMs != 0 {
		result.Watcher.DebounceMs = project.Watcher.DebounceMs
	}

	if project.Daemon.Host != "" {
		result.Daemon.Host = project.Daemon.Host
	}
	if project.Daemon.Port != 0 {
		result.Daemon.Port = project.Daemon.Port
	}

	if project.Logging.Level != "" {
		result.Logging.Level = project.Logging.Level
	}
	if project.Logging.Format != "" {
		result.Logging.Format = project.Logging.Format
	}

	if project.Cache.Size != 0 {
		result.Cache.Size = project.Cache.Size
	}

	return result
}

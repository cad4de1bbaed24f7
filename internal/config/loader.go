package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the name of the config file without extension
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension
	ConfigFileExt = "yaml"
	// ProjectDir is the name of the per-project configuration directory
	ProjectDir = ".goatminify"
	// EnvPrefix prefixes environment overrides, e.g. GOATMINIFY_DAEMON_PORT
	EnvPrefix = "GOATMINIFY"
)

// Loader handles configuration loading and saving
type Loader struct {
	projectRoot string
	v           *viper.Viper
}

// NewLoader creates a new config loader for the given project root
func NewLoader(projectRoot string) *Loader {
	return &Loader{
		projectRoot: projectRoot,
		v:           viper.New(),
	}
}

// ConfigPath returns the full path to the config file
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.projectRoot, ProjectDir, ConfigFileName+"."+ConfigFileExt)
}

// ProjectDirPath returns the full path to the .goatminify directory
func (l *Loader) ProjectDirPath() string {
	return filepath.Join(l.projectRoot, ProjectDir)
}

// Exists returns true if a config file exists at the expected location
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.ConfigPath())
	return err == nil
}

// Load reads the configuration from disk.
// If the config file doesn't exist, it returns an error.
func (l *Loader) Load() (*Config, error) {
	if !l.Exists() {
		return nil, fmt.Errorf("config file not found at %s", l.ConfigPath())
	}
	return l.load(Default(), true)
}

// LoadFile reads only the project file over the defaults, ignoring the
// global config and the environment. Use it to edit the file in place.
func (l *Loader) LoadFile() (*Config, error) {
	if !l.Exists() {
		return Default(), nil
	}
	return l.load(Default(), false)
}

// LoadOrDefault layers defaults, the global config, the project config and
// GOATMINIFY_* environment variables, in that order of precedence.
func (l *Loader) LoadOrDefault() (*Config, error) {
	base := Default()
	global, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if global != nil {
		base = MergeConfigs(base, global)
	}
	return l.load(base, true)
}

func (l *Loader) load(base *Config, withEnv bool) (*Config, error) {
	// Create a fresh viper instance for each load to avoid stale state
	l.v = newViper(base, withEnv)

	if l.Exists() {
		l.v.SetConfigFile(l.ConfigPath())
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// newViper returns a viper instance seeded with base as defaults and,
// when withEnv is set, bound to the environment. Every key must have a
// default for AutomaticEnv to see it.
func newViper(base *Config, withEnv bool) *viper.Viper {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	v.SetDefault("version", base.Version)
	v.SetDefault("minify.default_level", base.Minify.DefaultLevel)
	v.SetDefault("minify.default_type", base.Minify.DefaultType)
	v.SetDefault("detection.sample_size", base.Detection.SampleSize)
	v.SetDefault("engines.enabled", base.Engines.IsEnabled())
	v.SetDefault("engines.timeout_ms", base.Engines.TimeoutMs)
	v.SetDefault("watcher.debounce_ms", base.Watcher.DebounceMs)
	v.SetDefault("daemon.host", base.Daemon.Host)
	v.SetDefault("daemon.port", base.Daemon.Port)
	v.SetDefault("logging.level", base.Logging.Level)
	v.SetDefault("logging.format", base.Logging.Format)
	v.SetDefault("cache.size", base.Cache.Size)
	return v
}

// Save writes the configuration to disk.
// It creates the .goatminify directory if it doesn't exist.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.ProjectDirPath(), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", ProjectDir, err)
	}

	// Environment overrides must not leak into the file, so write from a clean instance
	v := viper.New()
	v.Set("version", cfg.Version)
	v.Set("minify", cfg.Minify)
	v.Set("detection", cfg.Detection)
	v.Set("engines", cfg.Engines)
	v.Set("watcher", cfg.Watcher)
	v.Set("daemon", cfg.Daemon)
	v.Set("logging", cfg.Logging)
	v.Set("cache", cfg.Cache)

	if err := v.WriteConfigAs(l.ConfigPath()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Init initializes a new configuration in the project.
// It creates the .goatminify directory and writes a default config file.
func (l *Loader) Init() (*Config, error) {
	if l.Exists() {
		return nil, fmt.Errorf("config already exists at %s", l.ConfigPath())
	}

	cfg := Default()
	if err := l.Save(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge loads the existing config and merges the provided overrides.
// Keys use dotted paths such as "daemon.port".
func (l *Loader) Merge(overrides map[string]interface{}) (*Config, error) {
	cfg, err := l.LoadOrDefault()
	if err != nil {
		return nil, err
	}

	for key, value := range overrides {
		l.v.Set(key, value)
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal merged config: %w", err)
	}

	return cfg, nil
}

// Get returns the effective value of a dotted key after the last load.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

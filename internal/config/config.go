package config

import (
	"fmt"
	"time"

	"github.com/goatminify/goatminify/internal/models"
)

// Config represents the complete goatminify configuration
type Config struct {
	Version   int             `yaml:"version" json:"version" mapstructure:"version"`
	Minify    MinifyConfig    `yaml:"minify" json:"minify" mapstructure:"minify"`
	Detection DetectionConfig `yaml:"detection" json:"detection" mapstructure:"detection"`
	Engines   EnginesConfig   `yaml:"engines" json:"engines" mapstructure:"engines"`
	Watcher   WatcherConfig   `yaml:"watcher" json:"watcher" mapstructure:"watcher"`
	Daemon    DaemonConfig    `yaml:"daemon" json:"daemon" mapstructure:"daemon"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging" mapstructure:"logging"`
	Cache     CacheConfig     `yaml:"cache" json:"cache" mapstructure:"cache"`
}

// MinifyConfig holds the defaults applied when a request leaves them unset
type MinifyConfig struct {
	DefaultLevel int    `yaml:"default_level" json:"default_level" mapstructure:"default_level"`
	DefaultType  string `yaml:"default_type" json:"default_type" mapstructure:"default_type"`
}

// Level returns the configured default level, normalized to 1..4.
func (m MinifyConfig) Level() models.Level {
	return models.NormalizeLevel(m.DefaultLevel)
}

// TypeOverride returns the configured default type, or auto when it is invalid.
func (m MinifyConfig) TypeOverride() models.TypeOverride {
	o, err := models.ParseTypeOverride(m.DefaultType)
	if err != nil {
		return models.OverrideAuto
	}
	return o
}

// DetectionConfig contains type detection settings
type DetectionConfig struct {
	SampleSize int `yaml:"sample_size" json:"sample_size" mapstructure:"sample_size"`
}

// EnginesConfig contains settings for the engine-backed minifiers
type EnginesConfig struct {
	// Enabled is a pointer so an unset value can be told apart from false when merging.
	Enabled   *bool `yaml:"enabled,omitempty" json:"enabled,omitempty" mapstructure:"enabled"`
	TimeoutMs int   `yaml:"timeout_ms" json:"timeout_ms" mapstructure:"timeout_ms"`
}

// IsEnabled reports whether engines are enabled. Unset means enabled.
func (e EnginesConfig) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Timeout returns the per-call engine timeout as a time.Duration
func (e EnginesConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutMs) * time.Millisecond
}

// WatcherConfig contains file watcher settings
type WatcherConfig struct {
	DebounceMs int `yaml:"debounce_ms" json:"debounce_ms" mapstructure:"debounce_ms"`
}

// DebounceDuration returns the debounce duration as a time.Duration
func (w WatcherConfig) DebounceDuration() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// DaemonConfig contains daemon server settings
type DaemonConfig struct {
	Host string `yaml:"host" json:"host" mapstructure:"host"`
	Port int    `yaml:"port" json:"port" mapstructure:"port"`
}

// Address returns the full address string for the daemon
func (d DaemonConfig) Address() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

// CacheConfig sizes the pipeline result cache. Zero disables it.
type CacheConfig struct {
	Size int `yaml:"size" json:"size" mapstructure:"size"`
}

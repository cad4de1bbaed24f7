package config

import (
	"fmt"
	"strings"

	"github.com/goatminify/goatminify/internal/models"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// HasErrors returns true if there are any validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// validLogLevels defines the allowed log level values
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log encoder names
var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

// Validate checks the configuration for errors and returns all validation errors found
func Validate(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	if cfg.Version < 1 {
		errors = append(errors, ValidationError{
			Field:   "version",
			Message: "must be at least 1",
		})
	}

	// Minify defaults
	if !models.Level(cfg.Minify.DefaultLevel).IsValid() {
		errors = append(errors, ValidationError{
			Field:   "minify.default_level",
			Message: "must be between 1 and 4",
		})
	}
	if _, err := models.ParseTypeOverride(cfg.Minify.DefaultType); err != nil {
		errors = append(errors, ValidationError{
			Field:   "minify.default_type",
			Message: err.Error(),
		})
	}

	if cfg.Detection.SampleSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "detection.sample_size",
			Message: "must be at least 1",
		})
	}

	if cfg.Engines.TimeoutMs < 1 {
		errors = append(errors, ValidationError{
			Field:   "engines.timeout_ms",
			Message: "must be at least 1",
		})
	}

	if cfg.Watcher.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "watcher.debounce_ms",
			Message: "must be non-negative",
		})
	}

	// Daemon validation
	if cfg.Daemon.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "daemon.host",
			Message: "must not be empty",
		})
	}
	if cfg.Daemon.Port < 1 || cfg.Daemon.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "daemon.port",
			Message: "must be between 1 and 65535",
		})
	}

	if !validLogLevels[cfg.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level '%s'; valid values are: debug, info, warn, error", cfg.Logging.Level),
		})
	}
	if !validLogFormats[cfg.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format '%s'; valid values are: console, json", cfg.Logging.Format),
		})
	}

	if cfg.Cache.Size < 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.size",
			Message: "must be non-negative",
		})
	}

	return errors
}

// ValidateOrError is a convenience function that returns an error if validation fails
func ValidateOrError(cfg *Config) error {
	errors := Validate(cfg)
	if errors.HasErrors() {
		return errors
	}
	return nil
}

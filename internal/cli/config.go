package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goatminify/goatminify/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configGlobal bool

var configCmd = &cobra.Command{
	Use:   "config [get|set] [key] [value]",
	Short: "View or modify configuration",
	Long: `View or modify GoatMinify configuration.

Without arguments, displays the effective configuration (defaults, global
config, project config and GOATMINIFY_* environment variables combined).
Use 'get <key>' to view a specific setting.
Use 'set <key> <value>' to modify a setting in the project config, or in the
global config with --global.

Keys use dot notation (e.g., daemon.port, minify.default_level).`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "Modify the global config instead of the project config")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(projectRoot)

	if len(args) == 0 {
		return showFullConfig(cmd, loader)
	}

	subcommand := args[0]

	switch subcommand {
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("get requires a key argument")
		}
		return getConfigValue(cmd, loader, args[1])
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("set requires a key argument")
		}
		if len(args) < 3 {
			return fmt.Errorf("set requires a value argument")
		}
		if configGlobal {
			return setGlobalConfigValue(cmd, args[1], args[2])
		}
		return setConfigValue(cmd, loader, args[1], args[2])
	default:
		return fmt.Errorf("unknown subcommand: %s", subcommand)
	}
}

func showFullConfig(cmd *cobra.Command, loader *config.Loader) error {
	cfg, err := loader.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	}

	return nil
}

func getConfigValue(cmd *cobra.Command, loader *config.Loader, key string) error {
	cfg, err := loader.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value, err := getValueByKey(cfg, key)
	if err != nil {
		return err
	}

	if jsonOutput {
		result := map[string]interface{}{
			"key":   key,
			"value": value,
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal value to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if !strings.Contains(key, ".") && key != "version" {
		// Whole sections print as YAML.
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value to YAML: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// setConfigValue updates the project config file only, so global and
// environment values are never copied into it.
func setConfigValue(cmd *cobra.Command, loader *config.Loader, key, value string) error {
	cfg, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := setValueByKey(cfg, key, value); err != nil {
		return err
	}

	if validationErrs := config.Validate(cfg); validationErrs.HasErrors() {
		return validationErrs
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

func setGlobalConfigValue(cmd *cobra.Command, key, value string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load global config: %w", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if err := setValueByKey(cfg, key, value); err != nil {
		return err
	}

	if validationErrs := config.Validate(cfg); validationErrs.HasErrors() {
		return validationErrs
	}

	if err := config.SaveGlobalConfig(cfg); err != nil {
		return fmt.Errorf("failed to save global config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s (global)\n", key, value)
	return nil
}

// =============================================================================
// Key Access
// =============================================================================

type configField struct {
	get func(cfg *config.Config) interface{}
	set func(cfg *config.Config, value string) error
}

func intField(key string, get func(cfg *config.Config) *int) configField {
	return configField{
		get: func(cfg *config.Config) interface{} { return *get(cfg) },
		set: func(cfg *config.Config, value string) error {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer value for %s: %s", key, value)
			}
			*get(cfg) = n
			return nil
		},
	}
}

func stringField(get func(cfg *config.Config) *string) configField {
	return configField{
		get: func(cfg *config.Config) interface{} { return *get(cfg) },
		set: func(cfg *config.Config, value string) error {
			*get(cfg) = value
			return nil
		},
	}
}

var configFields = map[string]configField{}

func init() {
	configFields["minify.default_level"] = intField("minify.default_level", func(c *config.Config) *int { return &c.Minify.DefaultLevel })
	configFields["minify.default_type"] = stringField(func(c *config.Config) *string { return &c.Minify.DefaultType })
	configFields["detection.sample_size"] = intField("detection.sample_size", func(c *config.Config) *int { return &c.Detection.SampleSize })
	configFields["engines.enabled"] = configField{
		get: func(c *config.Config) interface{} { return c.Engines.IsEnabled() },
		set: func(c *config.Config, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean value for engines.enabled: %s", value)
			}
			c.Engines.Enabled = &b
			return nil
		},
	}
	configFields["engines.timeout_ms"] = intField("engines.timeout_ms", func(c *config.Config) *int { return &c.Engines.TimeoutMs })
	configFields["watcher.debounce_ms"] = intField("watcher.debounce_ms", func(c *config.Config) *int { return &c.Watcher.DebounceMs })
	configFields["daemon.host"] = stringField(func(c *config.Config) *string { return &c.Daemon.Host })
	configFields["daemon.port"] = intField("daemon.port", func(c *config.Config) *int { return &c.Daemon.Port })
	configFields["logging.level"] = stringField(func(c *config.Config) *string { return &c.Logging.Level })
	configFields["logging.format"] = stringField(func(c *config.Config) *string { return &c.Logging.Format })
	configFields["cache.size"] = intField("cache.size", func(c *config.Config) *int { return &c.Cache.Size })
}

// configKeys returns every settable key, sorted.
func configKeys() []string {
	keys := make([]string, 0, len(configFields))
	for k := range configFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func getValueByKey(cfg *config.Config, key string) (interface{}, error) {
	switch key {
	case "version":
		return cfg.Version, nil
	case "minify":
		return cfg.Minify, nil
	case "detection":
		return cfg.Detection, nil
	case "engines":
		return cfg.Engines, nil
	case "watcher":
		return cfg.Watcher, nil
	case "daemon":
		return cfg.Daemon, nil
	case "logging":
		return cfg.Logging, nil
	case "cache":
		return cfg.Cache, nil
	}

	field, ok := configFields[key]
	if !ok {
		return nil, unknownKeyError(key)
	}
	return field.get(cfg), nil
}

func setValueByKey(cfg *config.Config, key, value string) error {
	field, ok := configFields[key]
	if !ok {
		return unknownKeyError(key)
	}
	return field.set(cfg, value)
}

func unknownKeyError(key string) error {
	return NewCLIError(fmt.Sprintf("Unknown key: %s", key),
		fmt.Sprintf("Valid keys are: %s", strings.Join(configKeys(), ", ")))
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/prefs"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs [get|set] [key] [value]",
	Short: "View or change saved preferences",
	Long: `View or change the preferences saved in the GoatMinify data directory.

Without arguments, lists every saved preference.

Keys:
  goatMinifyManualType  type used when --type is not given (auto or a type name)
  goatMinifyWordWrap    true or false

Examples:
  gm prefs
  gm prefs get goatMinifyManualType
  gm prefs set goatMinifyManualType css`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(GetProjectRoot())
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg, cmd.ErrOrStderr())
		if err != nil {
			return ErrConfigInvalid(err)
		}
		defer logger.Sync()

		store, err := openPrefs(logger)
		if err != nil {
			return err
		}
		return runPrefs(cmd, store, args)
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
}

// prefDefaults are reported by get when a key has never been saved.
var prefDefaults = map[string]string{
	prefs.KeyManualType: models.Auto,
	prefs.KeyWordWrap:   "false",
}

func runPrefs(cmd *cobra.Command, store *prefs.Store, args []string) error {
	out := outputFor(cmd)

	if len(args) == 0 {
		all := store.All()
		if IsJSONOutput() {
			values := make(map[string]string, len(all))
			for _, kv := range all {
				values[kv[0]] = kv[1]
			}
			return out.JSON(values)
		}
		rows := make([][]string, 0, len(all))
		for _, kv := range all {
			rows = append(rows, []string{kv[0], kv[1]})
		}
		out.Table([]string{"KEY", "VALUE"}, rows)
		return nil
	}

	switch args[0] {
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("get requires a key argument")
		}
		key := args[1]
		if !prefs.IsKnown(key) {
			return ErrUnknownPref(key, prefs.Keys())
		}
		value := store.Get(key, prefDefaults[key])
		if IsJSONOutput() {
			return out.JSON(map[string]string{"key": key, "value": value})
		}
		out.Result(value + "\n")
		return nil
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("set requires a key and a value")
		}
		key, value := args[1], args[2]
		normalized, err := normalizePref(key, value)
		if err != nil {
			return err
		}
		if !store.Set(key, normalized) {
			return NewCLIError(fmt.Sprintf("Failed to save preference %s", key),
				fmt.Sprintf("Check that %s is writable", store.Path()))
		}
		out.Success("Set %s = %s", key, normalized)
		return nil
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// normalizePref validates value for key and returns its canonical form.
func normalizePref(key, value string) (string, error) {
	switch key {
	case prefs.KeyManualType:
		o, err := models.ParseTypeOverride(value)
		if err != nil {
			return "", ErrInvalidType(value, typeNames())
		}
		return string(o), nil
	case prefs.KeyWordWrap:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", NewCLIError(fmt.Sprintf("Invalid value for %s: %s", key, value), "Use true or false")
		}
		return strconv.FormatBool(b), nil
	default:
		return "", ErrUnknownPref(key, prefs.Keys())
	}
}

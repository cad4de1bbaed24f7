package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/logging"
	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/pathutil"
	"github.com/goatminify/goatminify/internal/prefs"
	"go.uber.org/zap"
)

// loadConfig loads and validates the effective configuration for root.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.NewLoader(root).LoadOrDefault()
	if err != nil {
		return nil, ErrConfigInvalid(err)
	}
	if errs := config.Validate(cfg); errs.HasErrors() {
		return nil, ErrConfigInvalid(errs)
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Logs always go to stderr; --verbose
// lowers the level to debug.
func newLogger(cfg *config.Config, errOut io.Writer) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{Level: level, Format: cfg.Logging.Format, Output: errOut})
}

// openPrefs opens the preferences store in the data directory.
func openPrefs(logger *zap.Logger) (*prefs.Store, error) {
	path, err := config.PrefsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve preferences path: %w", err)
	}
	return prefs.New(path, logger.Named("prefs")), nil
}

// input is text to process plus the names it is known by.
type input struct {
	Content string
	// Path is empty for stdin.
	Path string
	// Name is the file name, or for stdin a name recovered from a leading
	// comment. It may be empty. A recovered name only names --out-dir files.
	Name string
}

// Hint returns the file name to pass to detection. Stdin has none.
func (in input) Hint() string {
	if in.Path == "" {
		return ""
	}
	return in.Name
}

// readInput reads the file named by args[0], or stdin when args is empty
// or "-".
func readInput(args []string, stdin io.Reader) (input, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, ErrInputRead(err)
		}
		content := string(data)
		name, _ := pathutil.ExtractFilenameFromContent(content)
		return input{Content: content, Name: name}, nil
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return input{}, ErrInputRead(err)
	}
	return input{Content: string(data), Path: path, Name: filepath.Base(path)}, nil
}

// resolveLevel returns the level flag, or the configured default when the
// flag is zero.
func resolveLevel(flag int, cfg *config.Config) (models.Level, error) {
	if flag == 0 {
		return cfg.Minify.Level(), nil
	}
	level := models.Level(flag)
	if !level.IsValid() {
		return 0, ErrInvalidLevel(flag)
	}
	return level, nil
}

// resolveOverride picks the type override. An explicit --type wins, then a
// saved manual type preference, then the configured default.
func resolveOverride(flag string, store *prefs.Store, cfg *config.Config) (models.TypeOverride, error) {
	if flag != "" {
		o, err := models.ParseTypeOverride(flag)
		if err != nil {
			return models.OverrideAuto, ErrInvalidType(flag, typeNames())
		}
		return o, nil
	}
	if store != nil {
		if o := store.ManualType(); !o.IsAuto() {
			return o, nil
		}
	}
	return cfg.Minify.TypeOverride(), nil
}

func typeNames() []string {
	types := models.AllContentTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/metrics"
	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/output"
	"github.com/goatminify/goatminify/internal/pathutil"
	"github.com/goatminify/goatminify/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// minifyOptions holds the flags of the minify command.
type minifyOptions struct {
	Level  int
	Type   string
	Out    string
	OutDir string
	Remote bool
	// now stamps --out-dir file names.
	now func() time.Time
}

var minifyOpts = minifyOptions{now: time.Now}

var minifyCmd = &cobra.Command{
	Use:   "minify [file]",
	Short: "Minify a file or stdin",
	Long: `Minify the given file, or stdin when no file (or "-") is given.

The content type is detected automatically unless --type is set or a manual
type has been saved with 'gm prefs set goatMinifyManualType <type>'. When
reading stdin, a file name in a leading comment such as "/* app.js */" is
used as a detection hint.

Levels:
  1  trim surrounding whitespace
  2  also drop blank lines and trailing spaces
  3  also remove comments and run the type's engine
  4  aggressive engine settings (default)

Examples:
  gm minify app.js
  cat styles.css | gm minify -l 3
  gm minify page.html --out-dir dist
  gm minify notes.txt --type md -o notes.min.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMinify(cmd, args, minifyOpts)
	},
}

func init() {
	minifyCmd.Flags().IntVarP(&minifyOpts.Level, "level", "l", 0, "Minification level 1-4 (default: config minify.default_level)")
	minifyCmd.Flags().StringVarP(&minifyOpts.Type, "type", "t", "", "Content type, or auto to detect")
	minifyCmd.Flags().StringVarP(&minifyOpts.Out, "out", "o", "", "Write output to this file instead of stdout")
	minifyCmd.Flags().StringVar(&minifyOpts.OutDir, "out-dir", "", "Write output to a timestamped file in this directory")
	minifyCmd.Flags().BoolVar(&minifyOpts.Remote, "remote", false, "Send the content to a running gmd daemon")
	minifyCmd.MarkFlagsMutuallyExclusive("out", "out-dir")
	rootCmd.AddCommand(minifyCmd)
}

func runMinify(cmd *cobra.Command, args []string, opts minifyOptions) error {
	cfg, err := loadConfig(GetProjectRoot())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return ErrConfigInvalid(err)
	}
	defer logger.Sync()

	in, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	table := detect.DefaultTypeTable()
	if in.Path != "" && opts.Type == "" && !table.IsAccepted(detect.Extension(in.Name)) {
		return ErrUnsupportedFile(in.Path, table.AcceptedExtensions())
	}

	level, err := resolveLevel(opts.Level, cfg)
	if err != nil {
		return err
	}

	store, err := openPrefs(logger)
	if err != nil {
		logger.Warn("preferences unavailable", zap.Error(err))
	}
	override, err := resolveOverride(opts.Type, store, cfg)
	if err != nil {
		return err
	}

	req := pipeline.Request{Input: in.Content, Level: level, Override: override, Filename: in.Hint()}

	var resp *api.MinifyResponse
	if opts.Remote {
		resp, err = minifyRemote(cfg, req)
	} else {
		resp, err = minifyLocal(commandContext(cmd), cfg, logger, req)
	}
	if err != nil {
		return err
	}

	return writeMinifyResult(cmd, in, resp, opts, table)
}

func minifyLocal(ctx context.Context, cfg *config.Config, logger *zap.Logger, req pipeline.Request) (*api.MinifyResponse, error) {
	p, _, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := p.Run(ctx, req)
	m := metrics.FromRun(req.Input, res.Output, time.Since(start))
	return api.NewMinifyResponse(res, p.Detector().Table(), m), nil
}

func minifyRemote(cfg *config.Config, req pipeline.Request) (*api.MinifyResponse, error) {
	client := NewClient(cfg)
	resp, err := client.Minify(api.MinifyRequest{
		Input:    req.Input,
		Level:    int(req.Level),
		Type:     string(req.Override),
		Filename: req.Filename,
	})
	if err != nil {
		return nil, ErrDaemonConnectionFailed(err)
	}
	return resp, nil
}

// writeMinifyResult writes the minified text to its destination and the
// summary to stderr. With --json the whole response goes to stdout instead.
func writeMinifyResult(cmd *cobra.Command, in input, resp *api.MinifyResponse, opts minifyOptions, table *detect.TypeTable) error {
	out := outputFor(cmd)

	dest := opts.Out
	if opts.OutDir != "" {
		ext := table.OutputExtension(models.ContentType(resp.EffectiveType))
		now := opts.now
		if now == nil {
			now = time.Now
		}
		dest = filepath.Join(opts.OutDir, pathutil.OutputFilename(in.Name, ext, now()))
	}

	if dest != "" {
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(dest, []byte(resp.Output), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
	}

	if IsJSONOutput() {
		return out.JSON(resp)
	}

	if dest == "" {
		out.Result(resp.Output)
	}

	mode := output.FormatNormal
	if IsVerbose() {
		mode = output.FormatVerbose
	}
	out.Info("%s", strings.TrimRight(output.NewFormatter(mode).FormatSummary(resp), "\n"))
	if mode == output.FormatNormal {
		for _, n := range resp.Notices {
			out.Warn("%s", output.FormatNotice(n))
		}
	}
	if dest != "" {
		out.Success("Wrote %s", dest)
	}
	return nil
}

// commandContext returns cmd's context, or Background when the command is
// run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

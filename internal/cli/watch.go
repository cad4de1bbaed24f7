package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/daemon"
	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/output"
	"github.com/goatminify/goatminify/internal/pipeline"
	"github.com/goatminify/goatminify/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchOptions holds the flags of the watch command.
type watchOptions struct {
	Level      int
	Type       string
	Out        string
	DebounceMs int
}

var watchOpts watchOptions

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-minify a file every time it changes",
	Long: `Watch a file and minify it after every change.

Changes are debounced (watcher.debounce_ms, default 500ms). When edits arrive
faster than minification completes, only the result for the newest content
is written.

Examples:
  gm watch src/app.js -o dist/app.min.js
  gm watch README.md --type md -l 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd), daemon.ShutdownSignals()...)
		defer stop()
		return runWatch(ctx, cmd, args[0], watchOpts)
	},
}

func init() {
	watchCmd.Flags().IntVarP(&watchOpts.Level, "level", "l", 0, "Minification level 1-4 (default: config minify.default_level)")
	watchCmd.Flags().StringVarP(&watchOpts.Type, "type", "t", "", "Content type, or auto to detect")
	watchCmd.Flags().StringVarP(&watchOpts.Out, "out", "o", "", "Write each result to this file instead of stdout")
	watchCmd.Flags().IntVar(&watchOpts.DebounceMs, "debounce", 0, "Debounce in milliseconds (default: config watcher.debounce_ms)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string, opts watchOptions) error {
	cfg, err := loadConfig(GetProjectRoot())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return ErrConfigInvalid(err)
	}
	defer logger.Sync()

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

	debounce := cfg.Watcher.DebounceDuration()
	if opts.DebounceMs > 0 {
		debounce = time.Duration(opts.DebounceMs) * time.Millisecond
	}

	p, _, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return err
	}

	w, err := watch.NewWatcher(path, debounce, logger.Named("watcher"))
	if err != nil {
		return ErrInputRead(err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	out := outputFor(cmd)
	table := detect.DefaultTypeTable()
	base := pipeline.Request{Level: level, Override: override, Filename: w.Path()}
	runner := watch.NewRunner(p, base, watchSink(out, table, opts.Out), logger.Named("runner"))

	out.Info("Watching %s (Ctrl+C to stop)", w.Path())
	return runner.Watch(ctx, w)
}

// watchSink writes each accepted result to dest, or to stdout when dest is
// empty, followed by a one-line summary on stderr.
func watchSink(out *OutputFormatter, table *detect.TypeTable, dest string) watch.Sink {
	formatter := output.NewFormatter(output.FormatNormal)
	return func(res models.PipelineResult) error {
		resp := api.NewMinifyResponse(res, table, nil)
		if dest != "" {
			if err := os.WriteFile(dest, []byte(res.Output), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}
		} else {
			out.Result(res.Output + "\n")
		}

		summary := formatter.FormatSummary(resp)
		out.Info("[#%d] %s", res.Seq, summary)
		for _, n := range res.Notices {
			out.Warn("%s", output.FormatNotice(n))
		}
		return nil
	}
}

package watch

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/pipeline"
	"go.uber.org/zap"
)

// Sink receives each result that is still the latest when it completes.
type Sink func(res models.PipelineResult) error

// Runner feeds file contents through the pipeline. Runs execute concurrently
// and a result reaches the sink only if no newer run has been started since.
type Runner struct {
	pipeline *pipeline.Pipeline
	base     pipeline.Request
	sink     Sink
	logger   *zap.Logger
	seq      pipeline.Sequencer
	publish  sync.Mutex
	wg       sync.WaitGroup
}

// NewRunner creates a runner. base supplies the level, override and
// filename hint for every run; its Input is ignored.
func NewRunner(p *pipeline.Pipeline, base pipeline.Request, sink Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{pipeline: p, base: base, sink: sink, logger: logger}
}

// Submit starts a run for input and returns its sequence number.
func (r *Runner) Submit(ctx context.Context, input string) uint64 {
	n := r.seq.Next()
	req := r.base
	req.Input = input

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		res, latest := r.pipeline.RunLatest(ctx, &r.seq, n, req)
		if !latest {
			r.logger.Debug("discarding stale result", zap.Uint64("seq", n), zap.Uint64("latest", r.seq.Latest()))
			return
		}

		// A newer run may be submitted between the check above and the publish.
		// Holding the lock across accept and publish keeps an older result
		// from landing after a newer one.
		r.publish.Lock()
		defer r.publish.Unlock()
		if !r.seq.Accept(n) {
			r.logger.Debug("discarding stale result", zap.Uint64("seq", n), zap.Uint64("latest", r.seq.Latest()))
			return
		}
		if err := r.sink(res); err != nil {
			r.logger.Error("failed to publish result", zap.Uint64("seq", n), zap.Error(err))
		}
	}()
	return n
}

// SubmitFile reads path and submits its contents.
func (r *Runner) SubmitFile(ctx context.Context, path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.Submit(ctx, string(data)), nil
}

// Wait blocks until every submitted run has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Watch submits the watched file once, then again after every debounced
// change, until ctx is done or the watcher stops. Deletions are skipped.
func (r *Runner) Watch(ctx context.Context, w *Watcher) error {
	defer r.Wait()

	if _, err := r.SubmitFile(ctx, w.Path()); err != nil {
		r.logger.Warn("initial read failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Done():
			return nil
		case err := <-w.Errors():
			r.logger.Warn("watcher error", zap.Error(err))
		case ev := <-w.Events():
			if ev.Op == OpDelete {
				r.logger.Info("watched file removed", zap.String("path", ev.Path))
				continue
			}
			if _, err := r.SubmitFile(ctx, ev.Path); err != nil {
				// Renames can leave the path briefly missing.
				r.logger.Warn("skipping change", zap.String("op", ev.Op.String()), zap.Error(err))
			}
		}
	}
}

// Package watch re-runs the minification pipeline whenever a file changes.
// Bursts of file system events are debounced, and when runs overlap only the
// most recently started one may publish its result.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Operation represents the type of file operation
type Operation int

const (
	OpCreate Operation = iota
	OpModify
	OpDelete
	OpRename
)

func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	case OpRename:
		return "rename"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// FileEvent represents a debounced change to the watched file
type FileEvent struct {
	Path      string
	Op        Operation
	Timestamp time.Time
}

// Watcher watches a single file. The parent directory is what fsnotify
// watches, so editors that save by renaming a temp file are still seen.
type Watcher struct {
	path      string
	debounce  time.Duration
	logger    *zap.Logger
	fsWatcher *fsnotify.Watcher
	events    chan FileEvent
	errors    chan error
	pending   *time.Timer
	pendingOp Operation
	pendingMu sync.Mutex
	done      chan struct{}
	stopped   bool
	stoppedMu sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewWatcher creates a watcher for path. The file's directory must exist;
// the file itself may appear later.
func NewWatcher(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", filepath.Dir(abs))
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:      abs,
		debounce:  debounce,
		logger:    logger,
		fsWatcher: fsWatcher,
		events:    make(chan FileEvent, 16),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}, nil
}

// Path returns the absolute path of the watched file
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching for changes
func (w *Watcher) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.processEvents()
	return nil
}

// processEvents handles events from fsnotify and applies debouncing
func (w *Watcher) processEvents() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			w.cancelPending()
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Drop error if channel is full
			}
		}
	}
}

// handleFsEvent drops events for sibling files and debounces the rest
func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	w.logger.Debug("file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.debounceEvent(fsEventToOp(event))
}

// fsEventToOp converts an fsnotify event to our Operation type
func fsEventToOp(event fsnotify.Event) Operation {
	switch {
	case event.Has(fsnotify.Create):
		return OpCreate
	case event.Has(fsnotify.Remove):
		return OpDelete
	case event.Has(fsnotify.Rename):
		return OpRename
	default:
		return OpModify
	}
}

// debounceEvent restarts the quiet-period timer. The most recent operation
// wins, except that a modify never hides a pending create.
func (w *Watcher) debounceEvent(op Operation) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
		if !(w.pendingOp == OpCreate && op == OpModify) {
			w.pendingOp = op
		}
	} else {
		w.pendingOp = op
	}

	w.pending = time.AfterFunc(w.debounce, func() {
		w.pendingMu.Lock()
		finalOp := w.pendingOp
		w.pending = nil
		w.pendingMu.Unlock()

		select {
		case w.events <- FileEvent{Path: w.path, Op: finalOp, Timestamp: time.Now()}:
		case <-w.ctx.Done():
		}
	})
}

func (w *Watcher) cancelPending() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}

// Events returns a receive-only channel for debounced file events
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Errors returns a receive-only channel for errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Done returns a channel that is closed when the watcher stops
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Stop stops the watcher and cleans up resources. It is safe to call twice.
func (w *Watcher) Stop() error {
	w.stoppedMu.Lock()
	if w.stopped {
		w.stoppedMu.Unlock()
		return nil
	}
	w.stopped = true
	w.stoppedMu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	if err := w.fsWatcher.Close(); err != nil {
		return err
	}

	select {
	case <-w.done:
	case <-time.After(time.Second):
		// Start was never called
	}

	return nil
}

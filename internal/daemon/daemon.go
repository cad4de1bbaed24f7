// Package daemon hosts the minification HTTP API for gmd.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/pipeline"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain.
const ShutdownTimeout = 5 * time.Second

// Daemon serves the API for one project until its context is cancelled.
type Daemon struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	state  *StateManager

	mu   sync.Mutex
	addr string
}

// New creates a new Daemon instance with all components initialized.
func New(projectRoot string, cfg *config.Config, logger *zap.Logger) (*Daemon, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p, engines, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	d := &Daemon{
		config: cfg,
		logger: logger,
		state:  NewStateManager(projectRoot),
	}
	d.server = &http.Server{
		Handler:           api.NewRouter(p, engines, cfg, logger.Named("api")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return d, nil
}

// Addr returns the address the daemon is listening on, or "" before Run
// has bound its listener.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addr
}

// Run binds the configured address and serves until ctx is cancelled or
// the server fails. A port of 0 picks a free port.
func (d *Daemon) Run(ctx context.Context) error {
	if running, pid := d.state.IsRunning(); running && pid != os.Getpid() {
		return fmt.Errorf("daemon already running with PID %d", pid)
	}

	ln, err := net.Listen("tcp", d.config.Daemon.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.config.Daemon.Address(), err)
	}

	d.mu.Lock()
	d.addr = ln.Addr().String()
	d.mu.Unlock()

	if err := d.writeState(); err != nil {
		ln.Close()
		return err
	}
	defer d.cleanup()

	serverErrCh := make(chan error, 1)
	go func() {
		d.logger.Info("starting API server", zap.String("addr", d.Addr()))
		if err := d.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	select {
	case <-ctx.Done():
		d.logger.Info("context cancelled, shutting down")
	case err := <-serverErrCh:
		if err != nil {
			d.logger.Error("server error", zap.Error(err))
			return err
		}
	}

	return d.shutdown()
}

func (d *Daemon) writeState() error {
	if err := d.state.WritePID(os.Getpid()); err != nil {
		return err
	}

	state := &DaemonState{Version: 1}
	state.Daemon.PID = os.Getpid()
	state.Daemon.StartedAt = time.Now()
	state.Daemon.Address = d.Addr()
	return d.state.SaveState(state)
}

func (d *Daemon) shutdown() error {
	d.logger.Info("shutting down daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("server shutdown error", zap.Error(err))
		return err
	}
	return nil
}

func (d *Daemon) cleanup() {
	if err := d.state.RemovePID(); err != nil {
		d.logger.Warn("failed to remove PID file", zap.Error(err))
	}
	if err := d.state.RemoveState(); err != nil {
		d.logger.Warn("failed to remove state file", zap.Error(err))
	}
}

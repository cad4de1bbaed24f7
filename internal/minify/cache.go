package minify

import (
	"context"
	"fmt"
	"sync"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// EngineCache loads each family's engine at most once and keeps it for the
// life of the process. Concurrent first loads share one factory call.
type EngineCache struct {
	factories map[models.Family]EngineFactory
	disabled  bool
	logger    *zap.Logger

	mu      sync.RWMutex
	engines map[models.Family]Engine
	group   singleflight.Group
}

// CacheOption configures an EngineCache.
type CacheOption func(*EngineCache)

// WithEnginesDisabled makes every Get fail with ErrEngineDisabled.
func WithEnginesDisabled(disabled bool) CacheOption {
	return func(c *EngineCache) {
		c.disabled = disabled
	}
}

// WithCacheLogger sets the logger for engine loads.
func WithCacheLogger(logger *zap.Logger) CacheOption {
	return func(c *EngineCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewEngineCache creates a cache over factories. A nil map uses DefaultFactories.
func NewEngineCache(factories map[models.Family]EngineFactory, opts ...CacheOption) *EngineCache {
	if factories == nil {
		factories = DefaultFactories()
	}
	c := &EngineCache{
		factories: factories,
		logger:    zap.NewNop(),
		engines:   make(map[models.Family]Engine),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the engine for family, loading it on first use. Failed loads
// are not remembered.
func (c *EngineCache) Get(ctx context.Context, family models.Family) (Engine, error) {
	if c.disabled {
		return nil, ErrEngineDisabled
	}

	c.mu.RLock()
	e, ok := c.engines[family]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	factory, ok := c.factories[family]
	if !ok {
		return nil, fmt.Errorf("%w: no engine registered for %s", ErrEngineUnavailable, family)
	}

	ch := c.group.DoChan(family.String(), func() (interface{}, error) {
		return c.load(family, factory)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Engine), nil
	}
}

func (c *EngineCache) load(family models.Family, factory EngineFactory) (e Engine, err error) {
	c.mu.RLock()
	cached, ok := c.engines[family]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			e, err = nil, fmt.Errorf("%w: %s engine load panicked: %v", ErrEngineUnavailable, family, r)
		}
		if err != nil {
			telemetry.EngineLoads.WithLabelValues(family.String(), "error").Inc()
			c.logger.Warn("engine load failed", zap.String("family", family.String()), zap.Error(err))
		}
	}()

	e, err = factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, family, err)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s factory returned no engine", ErrEngineUnavailable, family)
	}

	c.mu.Lock()
	c.engines[family] = e
	c.mu.Unlock()

	telemetry.EngineLoads.WithLabelValues(family.String(), "success").Inc()
	c.logger.Debug("engine loaded", zap.String("family", family.String()))
	return e, nil
}

// Loaded reports whether family's engine is already cached.
func (c *EngineCache) Loaded(family models.Family) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.engines[family]
	return ok
}

// Disabled reports whether engines are turned off.
func (c *EngineCache) Disabled() bool {
	return c.disabled
}

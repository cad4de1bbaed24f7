package pipeline

import (
	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/minify"
	"go.uber.org/zap"
)

// FromConfig assembles a pipeline from cfg. The engine cache is returned so
// callers can report which engines have loaded.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Pipeline, *minify.EngineCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engines := minify.NewEngineCache(nil,
		minify.WithEnginesDisabled(!cfg.Engines.IsEnabled()),
		minify.WithCacheLogger(logger.Named("engines")))

	adapters := minify.NewAdapters(engines,
		minify.WithTimeout(cfg.Engines.Timeout()),
		minify.WithLogger(logger.Named("adapter")))

	opts := []Option{
		WithDetector(detect.New(detect.WithSampleSize(cfg.Detection.SampleSize))),
		WithAdapters(adapters),
		WithLogger(logger),
	}

	if cfg.Cache.Size > 0 {
		cache, err := NewResultCache(cfg.Cache.Size)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, WithResultCache(cache))
	}

	return New(opts...), engines, nil
}

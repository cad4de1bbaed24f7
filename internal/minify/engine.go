package minify

import (
	"context"

	"github.com/goatminify/goatminify/internal/models"
)

// Options configures a single engine call.
type Options struct {
	// Level 4 selects aggressive settings; level 3 conservative ones.
	Level models.Level
	// MediaType selects the minifier within the engine (e.g. "text/css").
	MediaType string
}

// Engine is an external optimizer for one adapter family.
type Engine interface {
	Optimize(ctx context.Context, source string, opts Options) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, source string, opts Options) (string, error)

// Optimize calls f.
func (f EngineFunc) Optimize(ctx context.Context, source string, opts Options) (string, error) {
	return f(ctx, source, opts)
}

// EngineFactory creates an engine. It is called at most once per family on
// success; failed loads are retried on the next use.
type EngineFactory func() (Engine, error)

// DefaultFactories returns the built-in engine factories for every family.
func DefaultFactories() map[models.Family]EngineFactory {
	return map[models.Family]EngineFactory{
		models.FamilyJS:   NewScriptEngine,
		models.FamilyCSS:  NewStyleEngine,
		models.FamilyHTML: NewMarkupEngine,
	}
}

package minify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/telemetry"
	"go.uber.org/zap"
)

const (
	// DefaultEngineTimeout bounds a single engine call.
	DefaultEngineTimeout = 5 * time.Second

	// scriptGateWindow is how far into the body the JS gate looks for keywords.
	scriptGateWindow = 500
)

// Adapter minifies bodies of one family with an external engine, falling
// back to the engine-free path on any failure. It never returns an error to
// the caller; failures are reported in the result and to the Notifier.
type Adapter struct {
	family   models.Family
	engines  *EngineCache
	timeout  time.Duration
	notifier Notifier
	logger   *zap.Logger
	table    *detect.TypeTable
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithTimeout sets the engine call timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) {
		a.timeout = d
	}
}

// WithNotifier sets the collaborator that receives fallback notices.
func WithNotifier(n Notifier) AdapterOption {
	return func(a *Adapter) {
		if n != nil {
			a.notifier = n
		}
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger *zap.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTypeTable sets the table used to look up engine media types.
func WithTypeTable(t *detect.TypeTable) AdapterOption {
	return func(a *Adapter) {
		if t != nil {
			a.table = t
		}
	}
}

// NewAdapter creates an adapter for family backed by engines. A nil cache
// uses the default engines.
func NewAdapter(family models.Family, engines *EngineCache, opts ...AdapterOption) *Adapter {
	if engines == nil {
		engines = NewEngineCache(nil)
	}
	a := &Adapter{
		family:  family,
		engines: engines,
		timeout: DefaultEngineTimeout,
		logger:  zap.NewNop(),
		table:   detect.DefaultTypeTable(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.notifier == nil {
		a.notifier = LogNotifier{Logger: a.logger}
	}
	return a
}

// Family returns the adapter's family.
func (a *Adapter) Family() models.Family {
	return a.family
}

// Minify returns the minified body. Below level 3 only Basic runs; at level
// 3 and above the engine is tried first.
func (a *Adapter) Minify(ctx context.Context, body string, level models.Level, t models.ContentType) models.MinificationResult {
	level = models.NormalizeLevel(int(level))

	if strings.TrimSpace(body) == "" && (a.family != models.FamilyCSS || level > models.Level1) {
		return models.MinificationResult{}
	}

	if !level.UsesEngine() {
		return models.MinificationResult{Output: Basic(body, level, t)}
	}

	if a.family == models.FamilyJS && !LooksLikeScript(body) {
		// Not an engine failure, so no notice.
		err := &EngineError{Family: a.family, Reason: ReasonGate}
		telemetry.EngineFallbacks.WithLabelValues(a.family.String(), string(ReasonGate)).Inc()
		return models.MinificationResult{Output: Fallback(body, level, t), UsedFallback: true, Err: err}
	}

	out, err := a.optimize(ctx, body, level, t)
	if err != nil {
		return a.fallback(body, level, t, err)
	}

	telemetry.EngineCalls.WithLabelValues(a.family.String(), "success").Inc()
	return models.MinificationResult{Output: out}
}

// LooksLikeScript is the JS gate: the trimmed body opens with "{" or "[",
// or a JavaScript keyword appears within its first 500 characters.
func LooksLikeScript(body string) bool {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return false
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return true
	}
	return detect.JSKeyword(head(body, scriptGateWindow))
}

func (a *Adapter) fallback(body string, level models.Level, t models.ContentType, err error) models.MinificationResult {
	reason := ReasonOf(err)
	telemetry.EngineCalls.WithLabelValues(a.family.String(), "fallback").Inc()
	telemetry.EngineFallbacks.WithLabelValues(a.family.String(), string(reason)).Inc()

	fields := []zap.Field{
		zap.String("family", a.family.String()),
		zap.String("type", t.String()),
		zap.String("reason", string(reason)),
		zap.Error(err),
	}
	if n, ok := FallbackNotice(a.table.DisplayName(t), err); ok {
		a.logger.Warn("engine failed, using basic minification", fields...)
		a.notifier.Notify(n)
	} else {
		a.logger.Debug("engine skipped, using basic minification", fields...)
	}

	return models.MinificationResult{Output: Fallback(body, level, t), UsedFallback: true, Err: err}
}

type engineResult struct {
	out string
	err error
}

// optimize runs the engine under the timeout. Every failure comes back as
// an *EngineError.
func (a *Adapter) optimize(ctx context.Context, body string, level models.Level, t models.ContentType) (string, error) {
	engine, err := a.engines.Get(ctx, a.family)
	if err != nil {
		reason := ReasonUnavailable
		if errors.Is(err, ErrEngineDisabled) {
			reason = ReasonDisabled
		}
		return "", &EngineError{Family: a.family, Reason: reason, Cause: err}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	opts := Options{Level: level, MediaType: a.table.MediaType(t)}
	ch := make(chan engineResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- engineResult{err: &EngineError{Family: a.family, Reason: ReasonPanic, Cause: fmt.Errorf("%v", r)}}
			}
		}()
		out, err := engine.Optimize(ctx, body, opts)
		ch <- engineResult{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		reason := ReasonError
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return "", &EngineError{Family: a.family, Reason: reason, Cause: ctx.Err()}
	case res := <-ch:
		var ee *EngineError
		switch {
		case errors.As(res.err, &ee):
			return "", ee
		case res.err != nil:
			return "", &EngineError{Family: a.family, Reason: ReasonError, Cause: res.err}
		case strings.TrimSpace(res.out) == "":
			return "", &EngineError{Family: a.family, Reason: ReasonEmpty, Cause: ErrEmptyResult}
		}
		return res.out, nil
	}
}

// head returns at most n characters of s.
func head(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Adapters is the set of family adapters sharing one engine cache.
type Adapters struct {
	JS   *Adapter
	CSS  *Adapter
	HTML *Adapter
}

// NewAdapters creates the three family adapters over engines.
func NewAdapters(engines *EngineCache, opts ...AdapterOption) *Adapters {
	if engines == nil {
		engines = NewEngineCache(nil)
	}
	return &Adapters{
		JS:   NewAdapter(models.FamilyJS, engines, opts...),
		CSS:  NewAdapter(models.FamilyCSS, engines, opts...),
		HTML: NewAdapter(models.FamilyHTML, engines, opts...),
	}
}

// For returns the adapter for family. The text family has none.
func (a *Adapters) For(family models.Family) (*Adapter, bool) {
	switch family {
	case models.FamilyJS:
		return a.JS, true
	case models.FamilyCSS:
		return a.CSS, true
	case models.FamilyHTML:
		return a.HTML, true
	default:
		return nil, false
	}
}

// MinifyJSFamily minifies a JavaScript or JSON body.
func (a *Adapters) MinifyJSFamily(ctx context.Context, body string, level models.Level, t models.ContentType) models.MinificationResult {
	return a.JS.Minify(ctx, body, level, t)
}

// MinifyCSSFamily minifies a CSS body.
func (a *Adapters) MinifyCSSFamily(ctx context.Context, body string, level models.Level) models.MinificationResult {
	return a.CSS.Minify(ctx, body, level, models.TypeCSS)
}

// MinifyHTMLFamily minifies an HTML, SVG or XML body.
func (a *Adapters) MinifyHTMLFamily(ctx context.Context, body string, level models.Level, t models.ContentType) models.MinificationResult {
	return a.HTML.Minify(ctx, body, level, t)
}

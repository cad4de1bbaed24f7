// Package pipeline runs detection, header splitting and minification for one
// input and reassembles the output. A run never fails: in the worst case the
// original input comes back unchanged.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/header"
	"github.com/goatminify/goatminify/internal/minify"
	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/telemetry"
	"go.uber.org/zap"
)

// ErrUnknownFamily is returned when a content type maps to no minifier family.
var ErrUnknownFamily = errors.New("no minifier for content family")

// Request is one pipeline invocation.
type Request struct {
	Input    string
	Level    models.Level
	Override models.TypeOverride
	// Filename is an optional hint for detection.
	Filename string
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	detector *detect.Detector
	adapters *minify.Adapters
	cache    *ResultCache
	logger   *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDetector sets the type detector.
func WithDetector(d *detect.Detector) Option {
	return func(p *Pipeline) {
		if d != nil {
			p.detector = d
		}
	}
}

// WithAdapters sets the engine-backed adapters.
func WithAdapters(a *minify.Adapters) Option {
	return func(p *Pipeline) {
		if a != nil {
			p.adapters = a
		}
	}
}

// WithResultCache enables result memoization.
func WithResultCache(c *ResultCache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a pipeline with default detector and engines unless
// overridden by opts.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.detector == nil {
		p.detector = detect.New()
	}
	if p.adapters == nil {
		p.adapters = minify.NewAdapters(nil, minify.WithLogger(p.logger))
	}
	return p
}

// Detector returns the pipeline's detector.
func (p *Pipeline) Detector() *detect.Detector {
	return p.detector
}

// Run processes req.
func (p *Pipeline) Run(ctx context.Context, req Request) models.PipelineResult {
	start := time.Now()
	level := models.NormalizeLevel(int(req.Level))

	res := models.PipelineResult{
		EffectiveType:    models.TypeNone,
		AutoDetectedType: models.TypeNone,
		Level:            level,
	}

	if strings.TrimSpace(req.Input) == "" {
		telemetry.PipelineRuns.WithLabelValues(string(models.TypeNone), "empty").Inc()
		return res
	}

	if p.cache != nil {
		if cached, ok := p.cache.Get(req); ok {
			telemetry.PipelineRuns.WithLabelValues(string(cached.EffectiveType), "cached").Inc()
			return cached
		}
	}

	res = p.process(ctx, req, level)

	outcome := "minified"
	switch {
	case res.Recovered:
		outcome = "recovered"
	case res.UsedFallback:
		outcome = "fallback"
	}
	telemetry.PipelineRuns.WithLabelValues(string(res.EffectiveType), outcome).Inc()
	telemetry.PipelineDuration.WithLabelValues(string(res.EffectiveType)).Observe(time.Since(start).Seconds())

	p.logger.Debug("pipeline run",
		zap.String("detected", string(res.AutoDetectedType)),
		zap.String("effective", string(res.EffectiveType)),
		zap.Int("level", int(level)),
		zap.String("outcome", outcome),
		zap.Int("input_bytes", len(req.Input)),
		zap.Int("output_bytes", len(res.Output)),
		zap.Duration("elapsed", time.Since(start)))

	if p.cache != nil {
		p.cache.Add(req, res)
	}
	return res
}

// RunLatest runs req as number n, issued earlier by seq.Next, and reports
// whether n is still the latest number when the run completes.
func (p *Pipeline) RunLatest(ctx context.Context, seq *Sequencer, n uint64, req Request) (models.PipelineResult, bool) {
	res := p.Run(ctx, req)
	res.Seq = n
	return res, seq.Accept(n)
}

// process runs detection through reassembly. Any panic or error returns
// the input unchanged.
func (p *Pipeline) process(ctx context.Context, req Request, level models.Level) (res models.PipelineResult) {
	res = models.PipelineResult{
		EffectiveType:    models.TypeNone,
		AutoDetectedType: models.TypeNone,
		Level:            level,
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic recovered",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			res = recovered(res, req.Input, fmt.Errorf("panic: %v", r))
		}
	}()

	res.AutoDetectedType = p.detector.Detect(req.Input, req.Filename)
	res.EffectiveType = req.Override.Resolve(res.AutoDetectedType)
	if !res.EffectiveType.IsValid() {
		return p.fail(res, req.Input, fmt.Errorf("invalid type override %q", req.Override))
	}

	split := header.Split(req.Input, res.EffectiveType)

	body, err := p.dispatch(ctx, split.Body, level, res.EffectiveType)
	if err != nil {
		return p.fail(res, req.Input, err)
	}

	res.Output = models.FormatOutput(split.Header, body.Output)
	res.UsedFallback = body.UsedFallback
	if n, ok := minify.FallbackNotice(p.detector.Table().DisplayName(res.EffectiveType), body.Err); ok {
		res.Notices = append(res.Notices, n)
	}
	return res
}

// dispatch sends body to the minifier for t's family.
func (p *Pipeline) dispatch(ctx context.Context, body string, level models.Level, t models.ContentType) (models.MinificationResult, error) {
	switch family := t.Family(); family {
	case models.FamilyJS:
		return p.adapters.MinifyJSFamily(ctx, body, level, t), nil
	case models.FamilyCSS:
		return p.adapters.MinifyCSSFamily(ctx, body, level), nil
	case models.FamilyHTML:
		return p.adapters.MinifyHTMLFamily(ctx, body, level, t), nil
	case models.FamilyText:
		return models.MinificationResult{Output: minify.Basic(body, level, t)}, nil
	default:
		return models.MinificationResult{}, fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
}

func (p *Pipeline) fail(res models.PipelineResult, input string, err error) models.PipelineResult {
	p.logger.Error("pipeline failed, returning input unchanged", zap.Error(err))
	return recovered(res, input, err)
}

func recovered(res models.PipelineResult, input string, err error) models.PipelineResult {
	telemetry.PipelineRecoveries.Inc()
	res.Output = input
	res.Recovered = true
	res.UsedFallback = false
	res.Notices = append(res.Notices, models.Notice{
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("Minification failed; input left unchanged: %v", err),
	})
	return res
}

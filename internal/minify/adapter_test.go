package minify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// countingEngine records calls and returns a fixed output.
type countingEngine struct {
	calls atomic.Int32
	out   string
	err   error
	last  atomic.Value
}

func (e *countingEngine) Optimize(_ context.Context, _ string, opts Options) (string, error) {
	e.calls.Add(1)
	e.last.Store(opts)
	return e.out, e.err
}

func cacheWith(family models.Family, e Engine) *EngineCache {
	return NewEngineCache(map[models.Family]EngineFactory{
		family: func() (Engine, error) { return e, nil },
	})
}

// =============================================================================
// Short-circuit Tests
// =============================================================================

func TestAdapter_EmptyBody(t *testing.T) {
	engine := &countingEngine{out: "x"}
	for family, ct := range map[models.Family]models.ContentType{models.FamilyJS: models.TypeJS, models.FamilyHTML: models.TypeHTML} {
		a := NewAdapter(family, cacheWith(family, engine))
		for _, lvl := range []models.Level{models.Level1, models.Level4} {
			res := a.Minify(context.Background(), "  \n\t ", lvl, ct)
			assert.Equal(t, "", res.Output)
			assert.False(t, res.UsedFallback)
		}
	}
	assert.Equal(t, int32(0), engine.calls.Load())
}

func TestAdapter_EmptyStyleBodyAboveLevel1(t *testing.T) {
	a := NewAdapter(models.FamilyCSS, cacheWith(models.FamilyCSS, &countingEngine{out: "x"}))
	res := a.Minify(context.Background(), "   ", models.Level2, models.TypeCSS)
	assert.Equal(t, "", res.Output)
}

func TestAdapter_BelowLevel3NeverCallsEngine(t *testing.T) {
	engine := &countingEngine{out: "ENGINE"}
	a := NewAdapter(models.FamilyJS, cacheWith(models.FamilyJS, engine))

	res := a.Minify(context.Background(), "var a = 1;\n\n\n", models.Level2, models.TypeJS)
	assert.Equal(t, "var a = 1;", res.Output)
	assert.False(t, res.UsedFallback)
	assert.NoError(t, res.Err)
	assert.Equal(t, int32(0), engine.calls.Load())
}

// =============================================================================
// Script Gate Tests
// =============================================================================

func TestAdapter_GateRejectsProse(t *testing.T) {
	engine := &countingEngine{out: "ENGINE"}
	a := NewAdapter(models.FamilyJS, cacheWith(models.FamilyJS, engine))

	body := "not javascript at all, just prose."
	res := a.Minify(context.Background(), body, models.Level4, models.TypeJS)

	assert.Equal(t, int32(0), engine.calls.Load())
	assert.True(t, res.UsedFallback)
	assert.Equal(t, Fallback(body, models.Level4, models.TypeJS), res.Output)
	assert.Equal(t, ReasonGate, ReasonOf(res.Err))
}

func TestLooksLikeScript(t *testing.T) {
	assert.True(t, LooksLikeScript("  {\"a\": 1}"))
	assert.True(t, LooksLikeScript("[1, 2]"))
	assert.True(t, LooksLikeScript("const a = 1"))
	assert.True(t, LooksLikeScript("RETURN x"))
	assert.False(t, LooksLikeScript("plain words"))
	assert.False(t, LooksLikeScript(""))
	assert.False(t, LooksLikeScript(strings.Repeat("x ", 300)+"function"))
}

// =============================================================================
// Engine Success Tests
// =============================================================================

func TestAdapter_EngineSuccess(t *testing.T) {
	engine := &countingEngine{out: "var a=1"}
	a := NewAdapter(models.FamilyJS, cacheWith(models.FamilyJS, engine))

	res := a.Minify(context.Background(), "var a = 1;\n", models.Level4, models.TypeJS)
	assert.Equal(t, "var a=1", res.Output)
	assert.False(t, res.UsedFallback)
	assert.NoError(t, res.Err)
	assert.Equal(t, int32(1), engine.calls.Load())

	opts := engine.last.Load().(Options)
	assert.Equal(t, models.Level4, opts.Level)
	assert.Equal(t, "text/javascript", opts.MediaType)
}

func TestAdapter_MediaTypeFollowsContentType(t *testing.T) {
	engine := &countingEngine{out: "ok"}
	a := NewAdapter(models.FamilyHTML, cacheWith(models.FamilyHTML, engine))

	a.Minify(context.Background(), "<svg></svg>", models.Level3, models.TypeSVG)
	assert.Equal(t, "image/svg+xml", engine.last.Load().(Options).MediaType)

	a.Minify(context.Background(), "<a></a>", models.Level3, models.TypeXML)
	assert.Equal(t, "text/xml", engine.last.Load().(Options).MediaType)
}

// =============================================================================
// Engine Failure Tests
// =============================================================================

func TestAdapter_FailuresFallBack(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	tests := []struct {
		name   string
		engine Engine
		reason FailureReason
	}{
		{
			name:   "error",
			engine: &countingEngine{err: errors.New("boom")},
			reason: ReasonError,
		},
		{
			name:   "empty",
			engine: &countingEngine{out: "  "},
			reason: ReasonEmpty,
		},
		{
			name: "panic",
			engine: EngineFunc(func(context.Context, string, Options) (string, error) {
				panic("engine exploded")
			}),
			reason: ReasonPanic,
		},
		{
			name: "timeout",
			engine: EngineFunc(func(context.Context, string, Options) (string, error) {
				<-block
				return "late", nil
			}),
			reason: ReasonTimeout,
		},
	}

	body := "body {\n  color: red;\n}\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notices := &Collector{}
			a := NewAdapter(models.FamilyCSS, cacheWith(models.FamilyCSS, tt.engine),
				WithTimeout(20*time.Millisecond), WithNotifier(notices))

			res := a.Minify(context.Background(), body, models.Level4, models.TypeCSS)

			assert.True(t, res.UsedFallback)
			assert.Equal(t, "body{color:red}", res.Output)
			assert.Equal(t, tt.reason, ReasonOf(res.Err))

			got := notices.Notices()
			require.Len(t, got, 1)
			assert.Equal(t, models.SeverityWarning, got[0].Severity)
			assert.Contains(t, got[0].Message, "CSS")
		})
	}
}

func TestAdapter_UnavailableEngine(t *testing.T) {
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyHTML: func() (Engine, error) { return nil, errors.New("missing") },
	})
	notices := &Collector{}
	a := NewAdapter(models.FamilyHTML, cache, WithNotifier(notices))

	res := a.Minify(context.Background(), "<p>\n  hi\n</p>", models.Level4, models.TypeHTML)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, "<p> hi </p>", res.Output)
	assert.Equal(t, ReasonUnavailable, ReasonOf(res.Err))
	assert.ErrorIs(t, res.Err, ErrEngineUnavailable)
	assert.Len(t, notices.Notices(), 1)
}

func TestAdapter_DisabledEnginesAreSilent(t *testing.T) {
	engine := &countingEngine{out: "x"}
	cache := NewEngineCache(map[models.Family]EngineFactory{
		models.FamilyJS: func() (Engine, error) { return engine, nil },
	}, WithEnginesDisabled(true))
	notices := &Collector{}
	a := NewAdapter(models.FamilyJS, cache, WithNotifier(notices))

	res := a.Minify(context.Background(), "var a = 1;\nvar b = 2;", models.Level4, models.TypeJS)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, "var a = 1; var b = 2;", res.Output)
	assert.Equal(t, ReasonDisabled, ReasonOf(res.Err))
	assert.Empty(t, notices.Notices())
	assert.Equal(t, int32(0), engine.calls.Load())
}

func TestAdapter_Level3FallbackHasNoCollapse(t *testing.T) {
	a := NewAdapter(models.FamilyJS, cacheWith(models.FamilyJS, &countingEngine{err: errors.New("no")}))
	body := "var a = 1;\n  var b = 2;"
	res := a.Minify(context.Background(), body, models.Level3, models.TypeJS)
	assert.Equal(t, "var a = 1;\nvar b = 2;", res.Output)
}

// =============================================================================
// Default Engine Tests
// =============================================================================

func TestAdapters_DefaultEngines(t *testing.T) {
	set := NewAdapters(NewEngineCache(nil))
	ctx := context.Background()

	css := set.MinifyCSSFamily(ctx, "body {\n  color: red;\n}\n", models.Level4)
	require.False(t, css.UsedFallback, css.ErrorMessage())
	assert.Equal(t, "body{color:red}", css.Output)

	js := set.MinifyJSFamily(ctx, "function add(a, b) {\n  return a + b;\n}\n", models.Level3, models.TypeJS)
	require.False(t, js.UsedFallback, js.ErrorMessage())
	assert.NotContains(t, js.Output, "\n")
	assert.Contains(t, js.Output, "add")

	jsonRes := set.MinifyJSFamily(ctx, "{\n  \"a\": [1, 2]\n}", models.Level4, models.TypeJSON)
	require.False(t, jsonRes.UsedFallback, jsonRes.ErrorMessage())
	assert.Equal(t, `{"a":[1,2]}`, jsonRes.Output)

	html := set.MinifyHTMLFamily(ctx, "<div>\n  <p>Hello</p>\n</div>", models.Level3, models.TypeHTML)
	require.False(t, html.UsedFallback, html.ErrorMessage())
	assert.Contains(t, html.Output, "<p>Hello")
	assert.Less(t, len(html.Output), len("<div>\n  <p>Hello</p>\n</div>"))
}

func TestAdapters_For(t *testing.T) {
	set := NewAdapters(nil)

	a, ok := set.For(models.FamilyCSS)
	require.True(t, ok)
	assert.Equal(t, models.FamilyCSS, a.Family())

	_, ok = set.For(models.FamilyText)
	assert.False(t, ok)
}

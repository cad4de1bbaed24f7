package minify

import (
	"context"
	"fmt"

	tdm "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"
)

const (
	mediaJS   = "text/javascript"
	mediaJSON = "application/json"
	mediaCSS  = "text/css"
	mediaHTML = "text/html"
	mediaSVG  = "image/svg+xml"
	mediaXML  = "text/xml"
)

// tdewolffEngine holds one minifier set per engine level.
type tdewolffEngine struct {
	conservative *tdm.M
	aggressive   *tdm.M
}

func (e *tdewolffEngine) Optimize(ctx context.Context, source string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m := e.conservative
	if opts.Level.Aggressive() {
		m = e.aggressive
	}
	out, err := m.String(opts.MediaType, source)
	if err != nil {
		return "", fmt.Errorf("minify %s: %w", opts.MediaType, err)
	}
	return out, nil
}

func newTdewolffEngine(register func(m *tdm.M, aggressive bool)) *tdewolffEngine {
	conservative := tdm.New()
	register(conservative, false)
	aggressive := tdm.New()
	register(aggressive, true)
	return &tdewolffEngine{conservative: conservative, aggressive: aggressive}
}

// NewScriptEngine builds the JS family engine (JavaScript and JSON).
// Level 4 renames local variables.
func NewScriptEngine() (Engine, error) {
	return newTdewolffEngine(func(m *tdm.M, aggressive bool) {
		m.Add(mediaJS, &js.Minifier{KeepVarNames: !aggressive})
		m.Add(mediaJSON, &json.Minifier{})
	}), nil
}

// NewStyleEngine builds the CSS engine. Level 4 allows CSS3-only shortenings.
func NewStyleEngine() (Engine, error) {
	return newTdewolffEngine(func(m *tdm.M, aggressive bool) {
		m.Add(mediaCSS, &css.Minifier{KeepCSS2: !aggressive})
	}), nil
}

// NewMarkupEngine builds the HTML family engine (HTML, SVG and XML).
// Inline styles and scripts in HTML are minified with the same level.
// Level 4 drops default attribute values, optional tags and quotes.
func NewMarkupEngine() (Engine, error) {
	return newTdewolffEngine(func(m *tdm.M, aggressive bool) {
		keep := !aggressive
		m.Add(mediaHTML, &html.Minifier{
			KeepDefaultAttrVals: keep,
			KeepDocumentTags:    keep,
			KeepEndTags:         keep,
			KeepQuotes:          keep,
		})
		m.Add(mediaCSS, &css.Minifier{KeepCSS2: keep})
		m.Add(mediaJS, &js.Minifier{KeepVarNames: keep})
		m.Add(mediaSVG, &svg.Minifier{})
		m.Add(mediaXML, &xml.Minifier{KeepWhitespace: keep})
	}), nil
}

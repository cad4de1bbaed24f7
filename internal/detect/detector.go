// Package detect classifies text into a content type using a bounded sample,
// an ordered cascade of regex probes and an optional filename hint.
package detect

import (
	"strings"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/tidwall/gjson"
)

const (
	// DefaultSampleSize is the number of characters probed by the cascade.
	DefaultSampleSize = 2000
	// MinSampleSize and MaxSampleSize bound configured sample sizes.
	MinSampleSize = 2000
	MaxSampleSize = 3000
)

// Detector classifies text. The zero value is not usable; use New.
type Detector struct {
	sampleSize int
	table      *TypeTable
}

// Option configures a Detector.
type Option func(*Detector)

// WithSampleSize sets the probe sample length, clamped to
// [MinSampleSize, MaxSampleSize].
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		switch {
		case n < MinSampleSize:
			n = MinSampleSize
		case n > MaxSampleSize:
			n = MaxSampleSize
		}
		d.sampleSize = n
	}
}

// WithTypeTable replaces the embedded type table.
func WithTypeTable(t *TypeTable) Option {
	return func(d *Detector) {
		if t != nil {
			d.table = t
		}
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{
		sampleSize: DefaultSampleSize,
		table:      DefaultTypeTable(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDetector = New()

// DetectType classifies code with the default detector.
func DetectType(code, filenameHint string) models.ContentType {
	return defaultDetector.Detect(code, filenameHint)
}

// SampleSize returns the configured sample length.
func (d *Detector) SampleSize() int {
	return d.sampleSize
}

// Table returns the type table used for extension hints.
func (d *Detector) Table() *TypeTable {
	return d.table
}

// Detect classifies code. It never fails; unrecognized input is TypeNone.
// The filename hint biases detection but never overrides the content.
func (d *Detector) Detect(code, filenameHint string) models.ContentType {
	text := strings.TrimSpace(NormalizeLineEndings(code))
	if text == "" {
		return models.TypeNone
	}

	sample := truncate(text, d.sampleSize)

	if filenameHint != "" {
		if t, ok := d.detectFromExtension(Extension(filenameHint), text, sample); ok {
			return t
		}
	}

	return detectFromContent(text, sample)
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Extension returns the lowercase text after the last dot of name. A name
// without a dot is returned whole, lowercased.
func Extension(name string) string {
	return strings.ToLower(name[strings.LastIndex(name, ".")+1:])
}

// truncate returns at most n characters of s without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// isStrictJSON reports whether s is a single well-formed JSON value.
func isStrictJSON(s string) bool {
	return gjson.Valid(s)
}

// detectFromContent runs the ordered cascade. Earlier rules always win.
func detectFromContent(text, sample string) models.ContentType {
	// 1. Strong markup
	if svgPattern.MatchString(sample) && svgClosing.MatchString(text) {
		return models.TypeSVG
	}
	if htmlPrefix.MatchString(text) {
		return models.TypeHTML
	}
	if xmlProlog.MatchString(text) {
		return models.TypeXML
	}

	// 2. Markdown strong signals
	if mdFrontmatter.MatchString(text) || mdCodeFence.MatchString(sample) ||
		(mdHeader.MatchString(sample) && (mdList.MatchString(sample) || mdLinkImage.MatchString(sample))) {
		return models.TypeMD
	}

	// 3. JSON
	if (text[0] == '{' || text[0] == '[') && isStrictJSON(text) {
		return models.TypeJSON
	}

	// 4. CSS
	if cssAtRule.MatchString(sample) ||
		(cssRule.MatchString(text) && strings.Contains(text, "{") && strings.Contains(text, ":")) {
		return models.TypeCSS
	}

	// 5. JavaScript strong keywords; a leading @import belongs to CSS
	if jsStrongKeyword.MatchString(sample) && !cssImportHead.MatchString(sample) {
		return models.TypeJS
	}
	if jsClassDecl.MatchString(sample) || jsArrow.MatchString(sample) {
		return models.TypeJS
	}

	// 6. Weak markup
	if htmlPattern.MatchString(sample) {
		return models.TypeHTML
	}
	if match2(xmlPattern, sample) {
		return models.TypeXML
	}

	// 7. YAML
	if yamlStart.MatchString(sample) || (yamlKeyValue.MatchString(sample) && yamlListItem.MatchString(sample)) {
		return models.TypeYAML
	}
	if strings.Count(text, "\n") >= 2 && yamlKeyValue.MatchString(text) {
		return models.TypeYAML
	}

	// 8. TOML
	if tomlTable.MatchString(sample) && tomlKeyValue.MatchString(sample) {
		return models.TypeTOML
	}

	// 9. Markdown weak signals
	if mdHeader.MatchString(sample) || mdList.MatchString(sample) {
		return models.TypeMD
	}

	// 10. JavaScript weak signals
	if jsKeyword.MatchString(sample) || jsOperator.MatchString(text) {
		return models.TypeJS
	}

	return models.TypeNone
}

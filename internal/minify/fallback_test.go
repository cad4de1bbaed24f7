package minify

import (
	"testing"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Fallback Tests
// =============================================================================

// --- Happy Path Tests ---

func TestFallback_ScriptLevel4(t *testing.T) {
	in := "function a() {\n  return 1;\n}\n"
	assert.Equal(t, "function a() { return 1; }", Fallback(in, models.Level4, models.TypeJS))
}

func TestFallback_StyleLevel4(t *testing.T) {
	in := "body {\n  color: red;\n  margin: 0;\n}\n"
	assert.Equal(t, "body{color:red;margin:0}", Fallback(in, models.Level4, models.TypeCSS))
}

func TestFallback_MarkupLevel4(t *testing.T) {
	in := "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>"
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", Fallback(in, models.Level4, models.TypeHTML))
}

func TestFallback_JSONUsesScriptCollapse(t *testing.T) {
	in := "{\n  \"a\": 1,\n  \"b\": [1,   2]\n}"
	assert.Equal(t, "{ \"a\": 1, \"b\": [1, 2] }", Fallback(in, models.Level4, models.TypeJSON))
}

func TestFallback_Prose(t *testing.T) {
	in := "not javascript at all, just prose."
	assert.Equal(t, in, Fallback(in, models.Level4, models.TypeJS))
}

// --- Level Tests ---

func TestFallback_BelowLevel4IsBasic(t *testing.T) {
	in := "body {\n  color: red; /* c */\n}\n"
	for _, lvl := range []models.Level{models.Level1, models.Level2, models.Level3} {
		assert.Equal(t, Basic(in, lvl, models.TypeCSS), Fallback(in, lvl, models.TypeCSS))
	}
}

func TestFallback_TextFamilyHasNoCollapse(t *testing.T) {
	in := "key: value\nlist:\n  - a"
	assert.Equal(t, Basic(in, models.Level4, models.TypeYAML), Fallback(in, models.Level4, models.TypeYAML))
}

func TestFallback_Empty(t *testing.T) {
	assert.Equal(t, "", Fallback("", models.Level4, models.TypeHTML))
}

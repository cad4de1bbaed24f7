package minify

import (
	"regexp"
	"strings"

	"github.com/goatminify/goatminify/internal/models"
)

var (
	newline         = regexp.MustCompile(`\n`)
	whitespaceRun   = regexp.MustCompile(`\s\s+`)
	cssPunctSpace   = regexp.MustCompile(`\s*([{};:,])\s*`)
	cssSemiBrace    = regexp.MustCompile(`;\s*}`)
	newlineIndent   = regexp.MustCompile(`\n\s*`)
	spaceBetweenTag = regexp.MustCompile(`>\s+<`)
)

// Fallback is the engine-free path: Basic followed, at level 4 only, by a
// regex collapse chosen by the family of t. It never panics; if anything
// goes wrong the original body is returned.
func Fallback(body string, level models.Level, t models.ContentType) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = body
		}
	}()

	level = models.NormalizeLevel(int(level))
	out = Basic(body, level, t)
	if !level.Aggressive() {
		return out
	}

	switch t.Family() {
	case models.FamilyJS:
		out = newline.ReplaceAllString(out, " ")
		out = whitespaceRun.ReplaceAllString(out, " ")
	case models.FamilyCSS:
		out = cssPunctSpace.ReplaceAllString(out, "$1")
		out = cssSemiBrace.ReplaceAllString(out, "}")
		out = whitespaceRun.ReplaceAllString(out, " ")
	case models.FamilyHTML:
		out = newlineIndent.ReplaceAllString(out, " ")
		out = spaceBetweenTag.ReplaceAllString(out, "><")
		out = whitespaceRun.ReplaceAllString(out, " ")
		out = strings.TrimSpace(out)
	}
	return out
}

// Package minify implements tiered whitespace and comment minification and
// the engine-backed adapters that build on it.
package minify

import (
	"regexp"
	"strings"

	"github.com/goatminify/goatminify/internal/models"
)

var (
	trailingSpace = regexp.MustCompile(`(?m)[ \t\f\v\r]+$`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Basic applies the level's whitespace and comment rules to body. Level 4
// has no effect beyond level 3 here; aggressive collapse lives in Fallback.
// Basic is pure and idempotent at every level.
func Basic(body string, level models.Level, t models.ContentType) string {
	level = models.NormalizeLevel(int(level))
	out := stripTrailing(body)
	if level >= models.Level2 {
		out = dropBlankLines(out)
	}
	if level >= models.Level3 && strings.TrimSpace(out) != "" {
		out = removeComments(out, t)
		out = dropBlankLines(stripTrailing(out))
		if t != models.TypeYAML && t != models.TypeMD {
			out = trimLineStarts(out)
		}
	}
	return out
}

// stripTrailing removes trailing whitespace on every line and collapses
// three or more newlines to two.
func stripTrailing(s string) string {
	s = trailingSpace.ReplaceAllString(s, "")
	return blankRuns.ReplaceAllString(s, "\n\n")
}

func dropBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func trimLineStarts(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " \t\f\v\r")
	}
	return strings.Join(lines, "\n")
}

// Package header separates a single leading comment or frontmatter block
// from the rest of a document so it can survive minification untouched.
package header

import (
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/goatminify/goatminify/internal/models"
)

var (
	// Run of "#" comment lines. "#!" lines are never part of the header.
	hashHeader = mustCompile2(`\A\s*#(?!!)[^\r\n]*(?:\r?\n[ \t]*#(?!!)[^\r\n]*)*`)

	frontmatter   = regexp.MustCompile(`\A---\r?\n(?:[\s\S]*?\r?\n)?---\r?\n`)
	markdownBlock = regexp.MustCompile(`\A\s*(?:<!--![\s\S]*?-->|<!--[\s\S]*?-->)`)

	// Alternatives are tried in order, so "!" banners win over plain comments.
	commentBlock = regexp.MustCompile(`\A\s*(?:/\*![\s\S]*?\*/|//![^\r\n]*|<!--![\s\S]*?-->|/\*[\s\S]*?\*/|//[^\r\n]*|<!--[\s\S]*?-->)`)
)

func mustCompile2(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = time.Second
	return re
}

// Split returns the leading header of code for type t and the remaining body.
// At most one block is taken and only from the start of the input; leading
// whitespace belongs to the header. Header + Body always equals code.
func Split(code string, t models.ContentType) models.HeaderBodySplit {
	n := headerLength(code, t)
	return models.HeaderBodySplit{Header: code[:n], Body: code[n:]}
}

func headerLength(code string, t models.ContentType) int {
	switch t {
	case models.TypeYAML, models.TypeTOML:
		m, err := hashHeader.FindStringMatch(code)
		if err != nil || m == nil {
			return 0
		}
		return byteOffset(code, m.Index+m.Length)
	case models.TypeMD:
		if loc := frontmatter.FindStringIndex(code); loc != nil {
			return loc[1]
		}
		if loc := markdownBlock.FindStringIndex(code); loc != nil {
			return loc[1]
		}
		return 0
	default:
		if loc := commentBlock.FindStringIndex(code); loc != nil {
			return loc[1]
		}
		return 0
	}
}

// byteOffset converts a regexp2 rune position into a byte offset in s.
func byteOffset(s string, runes int) int {
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}

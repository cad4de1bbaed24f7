package minify

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/goatminify/goatminify/internal/models"
)

// Every comment is matched, including preserved ones, so that a "//" or
// "#" inside a "!" banner is consumed with the banner instead of being
// stripped on its own. Line comments directly after "http:" or "https:"
// are URLs, not comments.
var (
	slashComments = mustCompile2(`/\*[\s\S]*?\*/|(?<!https?:)//.*`, regexp2.None)
	markupComment = mustCompile2(`<!--[\s\S]*?-->`, regexp2.None)
	hashComment   = mustCompile2(`#.*$`, regexp2.Multiline)
	emptyLine     = mustCompile2(`^\s*[\r\n]`, regexp2.Multiline)
)

// Opening delimiters followed by the "!" preserve marker.
var preservedOpeners = []string{"/*!", "//!", "<!--!", "#!"}

func mustCompile2(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, opts)
	re.MatchTimeout = 2 * time.Second
	return re
}

// replaceAll returns s unchanged if the pattern times out.
func replaceAll(re *regexp2.Regexp, s, repl string) string {
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// stripComments removes every match of re except comments opened with a
// preserve marker. s is returned unchanged if the pattern times out.
func stripComments(re *regexp2.Regexp, s string) string {
	out, err := re.ReplaceFunc(s, func(m regexp2.Match) string {
		text := m.String()
		for _, opener := range preservedOpeners {
			if strings.HasPrefix(text, opener) {
				return text
			}
		}
		return ""
	}, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// removeComments strips the comment syntax of type t. Types without a
// comment syntax are returned unchanged.
func removeComments(s string, t models.ContentType) string {
	switch t {
	case models.TypeJS, models.TypeCSS:
		return stripComments(slashComments, s)
	case models.TypeHTML, models.TypeXML, models.TypeSVG:
		return stripComments(markupComment, s)
	case models.TypeYAML, models.TypeTOML:
		return replaceAll(emptyLine, stripComments(hashComment, s), "")
	case models.TypeMD:
		return blankRuns.ReplaceAllString(stripComments(markupComment, s), "\n\n")
	default:
		return s
	}
}

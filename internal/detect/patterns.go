package detect

import (
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds patterns that need backtracking (backreferences).
const matchTimeout = 2 * time.Second

var (
	// Markup
	htmlPattern = regexp.MustCompile(`(?i)<!DOCTYPE\s+html|<html\s*[\s>]|<body\s*[\s>]|</(html|body|div|span|p|table|script|style)>|<(script|style|div|span|p|table)\b[^>]*>`)
	htmlPrefix  = regexp.MustCompile(`(?i)\A(<!DOCTYPE\s+html|<html[\s>])`)
	svgPattern  = regexp.MustCompile(`(?i)<svg[^>]*xmlns="http://www\.w3\.org/2000/svg"|<svg\s+[^>]*>[\s\S]*</svg>`)
	svgClosing  = regexp.MustCompile(`(?i)</svg\s*>\z`)
	xmlProlog   = regexp.MustCompile(`\A<\?xml`)
	// xmlPattern needs a backreference to pair the opening and closing tag names.
	xmlPattern = mustCompile2(`<\?xml\s+version=['"][\d.]+['"]|<([a-zA-Z0-9_:]+)\b[^>]*>[\s\S]*</\1>`, regexp2.None)

	// CSS
	cssRule   = regexp.MustCompile(`(?:[.#]?-?[_a-zA-Z]+[_a-zA-Z0-9-]*|\[[^\]]+\]|::?[a-zA-Z0-9-]+(?:\([^)]+\))?)\s*\{[\s\S]*?\}`)
	cssAtRule = regexp.MustCompile(`(?i)@(media|keyframes|font-face|import|charset|namespace|supports|document|page|layer|property|container|scope)\b`)
	cssVar    = regexp.MustCompile(`--[a-zA-Z0-9-]+\s*:`)

	// JavaScript
	jsKeyword       = regexp.MustCompile(`(?i)\b(function|class|let|const|var|if|for|while|switch|return|async|await|import|export|yield|document|window|console)\b`)
	jsStrongKeyword = regexp.MustCompile(`\b(function|const|let|var|return|if|else|while|for|switch|console|window|document|export|import|class)\b`)
	// Any single operator character is enough, so the multi-character
	// operators collapse into the character class.
	jsOperator    = regexp.MustCompile(`==|[+\-*/%&|^!~<>?]`)
	jsClassDecl   = regexp.MustCompile(`\bclass\s+[a-zA-Z0-9_]+\s*\{`)
	jsArrow       = regexp.MustCompile(`=>`)
	cssImportHead = regexp.MustCompile(`\A\s*@import`)

	// YAML
	yamlStart    = regexp.MustCompile(`(?m)^%YAML|---\s*$`)
	yamlKeyValue = regexp.MustCompile(`(?m)^\s*([a-zA-Z0-9_.-]+)\s*:\s*(.*)`)
	yamlListItem = regexp.MustCompile(`(?m)^\s*-\s+\S+`)

	// TOML
	tomlTable    = regexp.MustCompile(`(?m)^\s*\[([a-zA-Z0-9_.-]+)\]\s*$`)
	tomlKeyValue = regexp.MustCompile(`(?m)^\s*([a-zA-Z0-9_.-]+)\s*=\s*(["']|true|false|[0-9]|\[|\{)`)

	// Markdown
	mdFrontmatter = regexp.MustCompile(`\A---[ \t]*\n(?:(?s:.*?)\n)?---[ \t]*(?:\n|\z)`)
	mdHeader      = regexp.MustCompile(`(?m)^#{1,6}\s+.+$`)
	mdList        = regexp.MustCompile(`(?m)^[\s\t]*(\*|\+|\-|\d+\.)\s+\S+`)
	mdCodeFence   = regexp.MustCompile("(?m)^[\\s\\t]*(`{3,}|~{3,})")
	mdLinkImage   = regexp.MustCompile(`!?\[.*?\]\(.*?\)`)
)

func mustCompile2(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, opts)
	re.MatchTimeout = matchTimeout
	return re
}

// match2 treats a timeout as a non-match so detection never fails.
func match2(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// JSKeyword reports whether s contains a generic JavaScript keyword. The
// JS adapter uses it to gate engine calls.
func JSKeyword(s string) bool {
	return jsKeyword.MatchString(s)
}

// Package pathutil provides filename handling for minified output: sanitizing
// user-supplied names, building timestamped output names and recovering a
// filename hint from a document's leading comment.
package pathutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBase is used when no input filename is known.
const DefaultBase = "GoatMinify"

// hintWindow bounds how far into a document ExtractFilenameFromContent looks.
const hintWindow = 500

var (
	leadingPath = regexp.MustCompile(`^.*[\\/]`)
	unsafeChars = regexp.MustCompile(`[^\w.-]`)
	underscores = regexp.MustCompile(`_{2,}`)

	// Tried in order; the first capture is the filename.
	filenameHints = []*regexp.Regexp{
		regexp.MustCompile(`/\*!?\s*([\w.-]+\.\w+)\s*\*/`),
		regexp.MustCompile(`//!?\s*([\w.-]+\.\w+)`),
		regexp.MustCompile(`<!--!?\s*([\w.-]+\.\w+)\s*-->`),
		regexp.MustCompile(`#\s*([\w.-]+\.\w+)`),
	}
)

// Normalize converts a path to use OS-appropriate separators
// and cleans redundant separators, removes trailing slashes, etc.
func Normalize(path string) string {
	return filepath.Clean(path)
}

// SanitizeFilename drops any directory part of name and replaces characters
// outside [A-Za-z0-9_.-] with underscores, collapsing underscore runs.
func SanitizeFilename(name string) string {
	name = leadingPath.ReplaceAllString(name, "")
	name = unsafeChars.ReplaceAllString(name, "_")
	return underscores.ReplaceAllString(name, "_")
}

// TrimExt returns name without its final extension.
func TrimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// TimestampSuffix formats t as YYMMDDHHMM in t's location.
func TimestampSuffix(t time.Time) string {
	return t.Format("0601021504")
}

// OutputFilename builds "<base>-min-<YYMMDDHHMM>.<ext>". The base is the
// sanitized input name without its extension, or DefaultBase when there is
// no usable input name.
func OutputFilename(inputName, ext string, t time.Time) string {
	base := SanitizeFilename(TrimExt(filepath.Base(inputName)))
	if inputName == "" || base == "" || base == "." || base == "_" {
		base = DefaultBase
	}
	if ext == "" {
		ext = "txt"
	}
	return base + "-min-" + TimestampSuffix(t) + "." + ext
}

// ExtractFilenameFromContent looks for a filename such as "app.js" in a
// comment within the first 500 characters of content. It returns the
// sanitized name and true, or "" and false when none is found.
func ExtractFilenameFromContent(content string) (string, bool) {
	if content == "" {
		return "", false
	}
	head := content
	if utf8.RuneCountInString(head) > hintWindow {
		head = string([]rune(head)[:hintWindow])
	}

	for _, re := range filenameHints {
		if m := re.FindStringSubmatch(head); m != nil && strings.Contains(m[1], ".") {
			return SanitizeFilename(m[1]), true
		}
	}
	return "", false
}

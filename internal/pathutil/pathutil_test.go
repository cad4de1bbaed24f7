package pathutil

import (
	"strings"
	"testing"
	"time"
)

// === SanitizeFilename Tests ===

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"app.js":              "app.js",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\a b.css`: "a_b.css",
		"héllo wörld.md":      "h_llo_w_rld.md",
		"a  &&  b.txt":        "a_b.txt",
		"keep-dash_and.dots":  "keep-dash_and.dots",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

// === OutputFilename Tests ===

func TestTimestampSuffix(t *testing.T) {
	ts := time.Date(2026, time.March, 4, 9, 7, 0, 0, time.UTC)
	if got := TimestampSuffix(ts); got != "2603040907" {
		t.Errorf("expected 2603040907, got %q", got)
	}
}

func TestOutputFilename(t *testing.T) {
	ts := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)

	cases := []struct {
		input, ext, want string
	}{
		{"styles.css", "css", "styles-min-2512312359.css"},
		{"/tmp/My Page.html", "html", "My_Page-min-2512312359.html"},
		{"", "js", "GoatMinify-min-2512312359.js"},
		{"notes", "", "notes-min-2512312359.txt"},
		{"archive.tar.gz", "txt", "archive.tar-min-2512312359.txt"},
	}
	for _, tc := range cases {
		if got := OutputFilename(tc.input, tc.ext, ts); got != tc.want {
			t.Errorf("OutputFilename(%q, %q) = %q, want %q", tc.input, tc.ext, got, tc.want)
		}
	}
}

// === ExtractFilenameFromContent Tests ===

func TestExtractFilenameFromContent(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
		found   bool
	}{
		{"block comment", "/* main.css */\nbody{}", "main.css", true},
		{"bang block comment", "/*! vendor.min.js */", "vendor.min.js", true},
		{"line comment", "// app.js\nvar a;", "app.js", true},
		{"html comment", "<!-- index.html -->\n<p>", "index.html", true},
		{"hash comment", "# values.yaml\nkey: v", "values.yaml", true},
		{"block wins over hash", "# a.yaml\n/* b.css */", "b.css", true},
		{"no extension", "/* just words */", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractFilenameFromContent(tc.content)
			if got != tc.want || ok != tc.found {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tc.want, tc.found)
			}
		})
	}
}

func TestExtractFilenameFromContent_OnlyLooksAtHead(t *testing.T) {
	content := strings.Repeat("x", 600) + "/* late.js */"
	if got, ok := ExtractFilenameFromContent(content); ok {
		t.Errorf("expected no match beyond the first 500 characters, got %q", got)
	}
}

package detect

import (
	"strings"
)

// MinifiedThresholds contains the thresholds for already-minified detection.
type MinifiedThresholds struct {
	MaxAvgLineLength          int
	MaxSingleLineSize         int
	MinWhitespaceRatio        float64
	MinSizeForWhitespaceCheck int
}

// DefaultMinifiedThresholds returns the default detection thresholds.
func DefaultMinifiedThresholds() MinifiedThresholds {
	return MinifiedThresholds{
		MaxAvgLineLength:          500,
		MaxSingleLineSize:         10 * 1024,
		MinWhitespaceRatio:        0.05,
		MinSizeForWhitespaceCheck: 1024,
	}
}

// LooksMinified reports whether text appears to be minified already.
// path may be empty.
func LooksMinified(text, path string) bool {
	return LooksMinifiedWithThresholds(text, path, DefaultMinifiedThresholds())
}

// LooksMinifiedWithThresholds allows custom thresholds for testing.
func LooksMinifiedWithThresholds(text, path string, t MinifiedThresholds) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	if strings.Contains(strings.ToLower(path), ".min.") {
		return true
	}

	lineCount := strings.Count(text, "\n")
	if lineCount == 0 {
		lineCount = 1
	}

	if len(text)/lineCount > t.MaxAvgLineLength {
		return true
	}

	if lineCount == 1 && len(text) > t.MaxSingleLineSize {
		return true
	}

	if len(text) >= t.MinSizeForWhitespaceCheck {
		ws := strings.Count(text, " ") + strings.Count(text, "\t") + strings.Count(text, "\n")
		if float64(ws)/float64(len(text)) < t.MinWhitespaceRatio {
			return true
		}
	}

	return false
}

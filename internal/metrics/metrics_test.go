package metrics

import (
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Token Estimation Tests
// ============================================================================

func TestEstimateTokens_Simple(t *testing.T) {
	content := "hello world" // 2 words
	tokens := EstimateTokens(content)

	if tokens != 2 {
		t.Errorf("Expected 2 tokens for '%s', got %d", content, tokens)
	}
}

func TestEstimateTokens_CodeContent(t *testing.T) {
	content := `function add(a, b) {
	if (a === undefined) {
		throw new Error("missing");
	}
	return a + b;
}`

	tokens := EstimateTokens(content)

	// Code tends to have more tokens due to punctuation
	if tokens < 15 || tokens > 40 {
		t.Errorf("Expected 15-40 tokens for code content, got %d", tokens)
	}
}

func TestEstimateTokens_Empty(t *testing.T) {
	tokens := EstimateTokens("")
	if tokens != 0 {
		t.Errorf("Expected 0 tokens for empty string, got %d", tokens)
	}
}

// ============================================================================
// Measure Tests
// ============================================================================

func TestCountLines(t *testing.T) {
	cases := map[string]int{
		"":         0,
		"a":        1,
		"a\n":      1,
		"a\nb":     2,
		"a\n\nb\n": 3,
	}
	for in, want := range cases {
		if got := CountLines(in); got != want {
			t.Errorf("CountLines(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestMeasure_Multibyte(t *testing.T) {
	s := Measure("héllo\n")
	if s.Bytes != 7 {
		t.Errorf("Expected 7 bytes, got %d", s.Bytes)
	}
	if s.Chars != 6 {
		t.Errorf("Expected 6 chars, got %d", s.Chars)
	}
	if s.Lines != 1 {
		t.Errorf("Expected 1 line, got %d", s.Lines)
	}
}

// ============================================================================
// Savings Tests
// ============================================================================

func TestCalculateSavings(t *testing.T) {
	savings := CalculateSavings(SizeStats{Bytes: 200, Tokens: 50}, SizeStats{Bytes: 50, Tokens: 40})

	if savings.BytesSaved != 150 {
		t.Errorf("Expected 150 bytes saved, got %d", savings.BytesSaved)
	}
	if savings.PercentSaved != 75 {
		t.Errorf("Expected 75%% saved, got %.1f", savings.PercentSaved)
	}
	if savings.TokensSaved != 10 {
		t.Errorf("Expected 10 tokens saved, got %d", savings.TokensSaved)
	}
}

func TestCalculateSavings_EmptyInput(t *testing.T) {
	savings := CalculateSavings(SizeStats{}, SizeStats{Bytes: 10})
	if savings.BytesSaved != 0 || savings.PercentSaved != 0 {
		t.Errorf("Expected no savings for empty input, got %+v", savings)
	}
}

func TestCalculateSavings_Growth(t *testing.T) {
	// Fallback output can be longer than a tiny input
	savings := CalculateSavings(SizeStats{Bytes: 10}, SizeStats{Bytes: 12})
	if savings.BytesSaved != 0 {
		t.Errorf("Expected 0 bytes saved, got %d", savings.BytesSaved)
	}
}

// ============================================================================
// Formatting Tests
// ============================================================================

func TestFromRun_AndFormat(t *testing.T) {
	m := FromRun("a   \n\n\nb\n", "a\nb", 12*time.Millisecond)

	if m.ElapsedMs != 12 {
		t.Errorf("Expected 12ms, got %d", m.ElapsedMs)
	}

	out := FormatMetrics(m)
	for _, want := range []string{"Minification Metrics:", "Input:  9 bytes", "Output: 3 bytes", "Saved:  6 bytes"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	summary := FormatMetricsSummary(m)
	if summary != "9 -> 3 bytes (67% saved), 12ms" {
		t.Errorf("Unexpected summary: %s", summary)
	}
}

func TestFormatMetricsSummary_NoSavings(t *testing.T) {
	m := FromRun("ab", "ab", 0)
	if got := FormatMetricsSummary(m); got != "2 -> 2 bytes, 0ms" {
		t.Errorf("Unexpected summary: %s", got)
	}
}

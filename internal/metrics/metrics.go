package metrics

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// SizeStats describes one side of a minification (input or output)
type SizeStats struct {
	Bytes  int // Length in bytes
	Chars  int // Length in characters
	Lines  int // Number of lines
	Tokens int // Estimated tokens
}

// RunMetrics contains metrics for a minification run
type RunMetrics struct {
	Input     SizeStats
	Output    SizeStats
	Savings   Savings
	ElapsedMs int64
}

// Savings contains the size reduction of a run
type Savings struct {
	BytesSaved   int     // Bytes removed
	PercentSaved float64 // Percentage of input removed
	TokensSaved  int     // Estimated tokens removed
}

// EstimateTokens estimates the number of tokens in a string
// Uses a simple heuristic: count words and add extra for punctuation
func EstimateTokens(content string) int {
	if content == "" {
		return 0
	}

	words := 0
	punctCount := 0
	inWord := false
	for _, r := range content {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if !inWord {
				words++
				inWord = true
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			punctCount++
			inWord = false
		default:
			inWord = false
		}
	}

	// Each punctuation/symbol is roughly 0.5 tokens on average
	return words + punctCount/2
}

// CountLines returns the number of lines in s. A trailing newline does not
// start a new line; the empty string has zero lines.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// Measure computes SizeStats for s
func Measure(s string) SizeStats {
	return SizeStats{
		Bytes:  len(s),
		Chars:  utf8.RuneCountInString(s),
		Lines:  CountLines(s),
		Tokens: EstimateTokens(s),
	}
}

// FromRun creates metrics from a run's input and output
func FromRun(input, output string, elapsed time.Duration) *RunMetrics {
	in := Measure(input)
	out := Measure(output)
	return &RunMetrics{
		Input:     in,
		Output:    out,
		Savings:   CalculateSavings(in, out),
		ElapsedMs: elapsed.Milliseconds(),
	}
}

// CalculateSavings calculates the reduction from input to output
func CalculateSavings(input, output SizeStats) Savings {
	if input.Bytes == 0 {
		return Savings{}
	}

	saved := input.Bytes - output.Bytes
	if saved < 0 {
		return Savings{}
	}

	tokens := input.Tokens - output.Tokens
	if tokens < 0 {
		tokens = 0
	}

	return Savings{
		BytesSaved:   saved,
		PercentSaved: float64(saved) / float64(input.Bytes) * 100,
		TokensSaved:  tokens,
	}
}

// FormatMetrics formats run metrics for display
func FormatMetrics(m *RunMetrics) string {
	var sb strings.Builder

	sb.WriteString("Minification Metrics:\n")
	sb.WriteString(fmt.Sprintf("  Input:  %d bytes, %d lines, ~%d tokens\n", m.Input.Bytes, m.Input.Lines, m.Input.Tokens))
	sb.WriteString(fmt.Sprintf("  Output: %d bytes, %d lines, ~%d tokens\n", m.Output.Bytes, m.Output.Lines, m.Output.Tokens))
	sb.WriteString(fmt.Sprintf("  Saved:  %d bytes (%.1f%%)\n", m.Savings.BytesSaved, m.Savings.PercentSaved))
	sb.WriteString(fmt.Sprintf("  Time:   %dms\n", m.ElapsedMs))

	return sb.String()
}

// FormatMetricsSummary returns a compact one-line summary
func FormatMetricsSummary(m *RunMetrics) string {
	if m.Savings.PercentSaved > 0 {
		return fmt.Sprintf("%d -> %d bytes (%.0f%% saved), %dms",
			m.Input.Bytes, m.Output.Bytes, m.Savings.PercentSaved, m.ElapsedMs)
	}
	return fmt.Sprintf("%d -> %d bytes, %dms", m.Input.Bytes, m.Output.Bytes, m.ElapsedMs)
}

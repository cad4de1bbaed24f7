package output

import (
	"fmt"
	"strings"

	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/models"
)

// FormatMode specifies the output format
type FormatMode int

const (
	// FormatNormal is the standard compact output
	FormatNormal FormatMode = iota
	// FormatVerbose includes detection reasons and size details
	FormatVerbose
	// FormatJSON outputs raw JSON
	FormatJSON
)

// Formatter renders minification and detection results for the terminal.
// The minified text itself is always written verbatim; the formatter only
// produces the status lines around it.
type Formatter struct {
	Mode FormatMode
}

// NewFormatter creates a formatter with the specified mode
func NewFormatter(mode FormatMode) *Formatter {
	return &Formatter{Mode: mode}
}

// FormatSummary formats the status line(s) for a minification run
func (f *Formatter) FormatSummary(resp *api.MinifyResponse) string {
	switch f.Mode {
	case FormatVerbose:
		return f.formatVerbose(resp)
	case FormatJSON:
		// JSON formatting is handled at a higher level
		return ""
	default:
		return f.formatNormal(resp)
	}
}

// formatNormal produces compact single-line output
func (f *Formatter) formatNormal(resp *api.MinifyResponse) string {
	// Format: TYPE L<level> in -> out bytes (pct saved) [fallback]
	var sb strings.Builder

	sb.WriteString(resp.DisplayName)
	sb.WriteString(fmt.Sprintf(" L%d", resp.Level))

	if m := resp.Metrics; m != nil {
		sb.WriteString(fmt.Sprintf(" %d -> %d bytes", m.InputBytes, m.OutputBytes))
		if m.PercentSaved > 0 {
			sb.WriteString(fmt.Sprintf(" (%.0f%% saved)", m.PercentSaved))
		}
	}

	switch {
	case resp.Recovered:
		sb.WriteString(" [unchanged]")
	case resp.UsedFallback:
		sb.WriteString(" [basic]")
	}

	return sb.String()
}

// formatVerbose produces detailed multi-line output
func (f *Formatter) formatVerbose(resp *api.MinifyResponse) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Type: %s", resp.DisplayName))
	if resp.AutoDetectedType != resp.EffectiveType {
		sb.WriteString(fmt.Sprintf(" | Detected: %s", resp.AutoDetectedType))
	}
	sb.WriteString(fmt.Sprintf(" | Level: %d\n", resp.Level))

	if m := resp.Metrics; m != nil {
		sb.WriteString(fmt.Sprintf("    Size: %d -> %d bytes | Saved: %d (%.1f%%) | ~%d tokens\n",
			m.InputBytes, m.OutputBytes, m.BytesSaved, m.PercentSaved, m.TokensSaved))
		sb.WriteString(fmt.Sprintf("    Time: %dms\n", m.ElapsedMs))
	}

	if resp.Output != "" {
		sb.WriteString(fmt.Sprintf("    Output: %s\n", Preview(resp.Output, previewLen)))
	}

	if reasons := DescribeRun(resp); len(reasons) > 0 {
		sb.WriteString(fmt.Sprintf("    Reasons: %s\n", strings.Join(reasons, ", ")))
	}

	for _, n := range resp.Notices {
		sb.WriteString("    ")
		sb.WriteString(FormatNotice(n))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatNotice renders a notice as "severity: message"
func FormatNotice(n models.Notice) string {
	return fmt.Sprintf("%s: %s", n.Severity, n.Message)
}

// FormatDetect formats a detection result
func (f *Formatter) FormatDetect(resp *api.DetectResponse) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)", resp.DisplayName, resp.Type))

	if f.Mode == FormatVerbose {
		sb.WriteString(fmt.Sprintf(" family=%s ext=.%s", resp.Family, resp.Extension))
	}
	if resp.LooksMinified {
		sb.WriteString(" already minified")
	}

	return sb.String()
}

// previewLen caps the output preview in verbose summaries.
const previewLen = 60

// Preview collapses whitespace in content and truncates it to maxLen runes,
// adding an ellipsis if needed
func Preview(content string, maxLen int) string {
	content = strings.Join(strings.Fields(content), " ")

	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

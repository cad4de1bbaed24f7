package output

import (
	"fmt"
	"strings"

	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/models"
)

// MaxReasons is the maximum number of reasons to return
const MaxReasons = 5

// DescribeRun explains in plain words how a result was produced
func DescribeRun(resp *api.MinifyResponse) []string {
	reasons := []string{}

	if resp.EffectiveType != resp.AutoDetectedType {
		reasons = append(reasons, fmt.Sprintf("type set to %s (detected %s)", resp.EffectiveType, resp.AutoDetectedType))
	} else if resp.EffectiveType != "" {
		reasons = append(reasons, "type auto-detected as "+resp.EffectiveType)
	}

	family := models.ContentType(resp.EffectiveType).Family()
	level := models.Level(resp.Level)

	switch {
	case resp.Recovered:
		reasons = append(reasons, "input returned unchanged")
	case resp.Output == "":
		reasons = append(reasons, "nothing to minify")
	case family == models.FamilyText || !level.UsesEngine():
		reasons = append(reasons, fmt.Sprintf("basic minification at level %d", resp.Level))
	case resp.UsedFallback:
		reasons = append(reasons, "basic minification after engine fallback")
	default:
		reasons = append(reasons, family.String()+" engine output")
		if level.Aggressive() {
			reasons = append(reasons, "aggressive engine settings")
		}
	}

	if headerPreserved(resp.Output) {
		reasons = append(reasons, "leading comment preserved")
	}

	reasons = deduplicateReasons(reasons)
	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}

	return reasons
}

// headerPreserved reports whether output starts with a banner-style
// comment or frontmatter block
func headerPreserved(output string) bool {
	for _, prefix := range []string{"/*!", "//!", "<!--!", "---\n"} {
		if strings.HasPrefix(output, prefix) {
			return true
		}
	}
	return false
}

// deduplicateReasons removes duplicate reasons
func deduplicateReasons(reasons []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r == "" {
			continue
		}
		lower := strings.ToLower(r)
		if !seen[lower] {
			seen[lower] = true
			result = append(result, r)
		}
	}
	return result
}

package output

import (
	"strings"
	"testing"

	"github.com/goatminify/goatminify/internal/api"
)

func TestDescribeRun_EngineOutput(t *testing.T) {
	reasons := DescribeRun(sampleResponse())
	want := []string{"type auto-detected as css", "css engine output", "aggressive engine settings"}

	if strings.Join(reasons, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %v, got %v", want, reasons)
	}
}

func TestDescribeRun_Variants(t *testing.T) {
	cases := []struct {
		name string
		resp api.MinifyResponse
		want string
	}{
		{
			name: "text family",
			resp: api.MinifyResponse{Output: "a", EffectiveType: "yaml", AutoDetectedType: "yaml", Level: 4},
			want: "basic minification at level 4",
		},
		{
			name: "low level",
			resp: api.MinifyResponse{Output: "a", EffectiveType: "js", AutoDetectedType: "js", Level: 2},
			want: "basic minification at level 2",
		},
		{
			name: "fallback",
			resp: api.MinifyResponse{Output: "a", EffectiveType: "js", AutoDetectedType: "js", Level: 3, UsedFallback: true},
			want: "basic minification after engine fallback",
		},
		{
			name: "recovered",
			resp: api.MinifyResponse{Output: "a", EffectiveType: "css", AutoDetectedType: "css", Level: 4, Recovered: true},
			want: "input returned unchanged",
		},
		{
			name: "empty",
			resp: api.MinifyResponse{EffectiveType: "none", AutoDetectedType: "none", Level: 4},
			want: "nothing to minify",
		},
		{
			name: "header",
			resp: api.MinifyResponse{Output: "/*! MIT */\na{}", EffectiveType: "css", AutoDetectedType: "css", Level: 3},
			want: "leading comment preserved",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reasons := DescribeRun(&tc.resp)
			found := false
			for _, r := range reasons {
				if r == tc.want {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected reason %q in %v", tc.want, reasons)
			}
			if len(reasons) > MaxReasons {
				t.Errorf("Expected at most %d reasons, got %d", MaxReasons, len(reasons))
			}
		})
	}
}

func TestDeduplicateReasons(t *testing.T) {
	got := deduplicateReasons([]string{"A", "a", "", "b"})
	if strings.Join(got, ",") != "A,b" {
		t.Errorf("Expected [A b], got %v", got)
	}
}

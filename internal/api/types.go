package api

import (
	"time"

	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/metrics"
	"github.com/goatminify/goatminify/internal/models"
)

// =============================================================================
// Minify API Types
// =============================================================================

// MinifyRequest represents a minification request
type MinifyRequest struct {
	Input    string `json:"input"`
	Level    int    `json:"level,omitempty"`    // 0 = use config default
	Type     string `json:"type,omitempty"`     // "" = use config default, "auto" = detect
	Filename string `json:"filename,omitempty"` // optional detection hint
}

// MinifyResponse represents the outcome of a minification
type MinifyResponse struct {
	Output           string           `json:"output"`
	EffectiveType    string           `json:"effective_type"`
	AutoDetectedType string           `json:"auto_detected_type"`
	DisplayName      string           `json:"display_name"`
	Level            int              `json:"level"`
	UsedFallback     bool             `json:"used_fallback"`
	Recovered        bool             `json:"recovered"`
	Notices          []models.Notice  `json:"notices,omitempty"`
	Metrics          *MetricsResponse `json:"metrics,omitempty"`
}

// MetricsResponse summarizes the size reduction of a run
type MetricsResponse struct {
	InputBytes   int     `json:"input_bytes"`
	OutputBytes  int     `json:"output_bytes"`
	BytesSaved   int     `json:"bytes_saved"`
	PercentSaved float64 `json:"percent_saved"`
	TokensSaved  int     `json:"tokens_saved"`
	ElapsedMs    int64   `json:"elapsed_ms"`
}

// NewMinifyResponse converts a pipeline result into its wire form. m may be nil.
func NewMinifyResponse(res models.PipelineResult, table *detect.TypeTable, m *metrics.RunMetrics) *MinifyResponse {
	resp := &MinifyResponse{
		Output:           res.Output,
		EffectiveType:    string(res.EffectiveType),
		AutoDetectedType: string(res.AutoDetectedType),
		DisplayName:      table.DisplayName(res.EffectiveType),
		Level:            int(res.Level),
		UsedFallback:     res.UsedFallback,
		Recovered:        res.Recovered,
		Notices:          res.Notices,
	}
	if m != nil {
		resp.Metrics = &MetricsResponse{
			InputBytes:   m.Input.Bytes,
			OutputBytes:  m.Output.Bytes,
			BytesSaved:   m.Savings.BytesSaved,
			PercentSaved: m.Savings.PercentSaved,
			TokensSaved:  m.Savings.TokensSaved,
			ElapsedMs:    m.ElapsedMs,
		}
	}
	return resp
}

// =============================================================================
// Detect API Types
// =============================================================================

// DetectRequest represents a type detection request
type DetectRequest struct {
	Input    string `json:"input"`
	Filename string `json:"filename,omitempty"`
}

// DetectResponse describes the detected content type
type DetectResponse struct {
	Type          string `json:"type"`
	DisplayName   string `json:"display_name"`
	Family        string `json:"family"`
	Extension     string `json:"extension"`
	LooksMinified bool   `json:"looks_minified"`
}

// NewDetectResponse describes t using table.
func NewDetectResponse(t models.ContentType, table *detect.TypeTable, looksMinified bool) *DetectResponse {
	return &DetectResponse{
		Type:          string(t),
		DisplayName:   table.DisplayName(t),
		Family:        t.Family().String(),
		Extension:     table.OutputExtension(t),
		LooksMinified: looksMinified,
	}
}

// =============================================================================
// Daemon API Types
// =============================================================================

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string         `json:"status"`
	Timestamp     time.Time      `json:"timestamp"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Engines       *EnginesStatus `json:"engines,omitempty"`
}

// EnginesStatus reports which engines have been initialized
type EnginesStatus struct {
	Enabled bool            `json:"enabled"`
	Loaded  map[string]bool `json:"loaded"`
}

// ConfigResponse represents the config endpoint response
type ConfigResponse struct {
	Config *config.Config `json:"config"`
}

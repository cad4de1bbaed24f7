package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/minify"
	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Test Helpers
// =============================================================================

// newTestRouter builds a router over a pipeline whose engines are disabled,
// so every result comes from the basic minifier.
func newTestRouter(t *testing.T, cfg *config.Config) *Router {
	t.Helper()
	engines := minify.NewEngineCache(nil, minify.WithEnginesDisabled(true))
	p := pipeline.New(pipeline.WithAdapters(minify.NewAdapters(engines)))
	return NewRouter(p, engines, cfg, nil)
}

func do(t *testing.T, r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func postJSON(t *testing.T, r http.Handler, path string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// =============================================================================
// Health / Config Endpoint Tests
// =============================================================================

func TestHealthEndpoint(t *testing.T) {
	rr := do(t, newTestRouter(t, nil), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	resp := decodeBody[HealthResponse](t, rr)
	assert.Equal(t, "healthy", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
	require.NotNil(t, resp.Engines)
	assert.False(t, resp.Engines.Enabled)
	assert.Equal(t, map[string]bool{"js": false, "css": false, "html": false}, resp.Engines.Loaded)
}

func TestHealthEndpoint_WithoutEngineCache(t *testing.T) {
	r := NewRouter(pipeline.New(), nil, nil, nil)
	resp := decodeBody[HealthResponse](t, do(t, r, http.MethodGet, "/health", ""))
	assert.Nil(t, resp.Engines)
}

func TestConfigEndpoint(t *testing.T) {
	rr := do(t, newTestRouter(t, nil), http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeBody[ConfigResponse](t, rr)
	require.NotNil(t, resp.Config)
	assert.Equal(t, config.DefaultPort, resp.Config.Daemon.Port)
	assert.Equal(t, 4, resp.Config.Minify.DefaultLevel)
}

// =============================================================================
// Minify Endpoint Tests
// =============================================================================

func TestMinifyEndpoint(t *testing.T) {
	rr := postJSON(t, newTestRouter(t, nil), "/minify", MinifyRequest{
		Input: "a  \n\n\nb",
		Level: 2,
		Type:  "none",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeBody[MinifyResponse](t, rr)
	assert.Equal(t, "a\nb", resp.Output)
	assert.Equal(t, "none", resp.EffectiveType)
	assert.Equal(t, "NONE", resp.DisplayName)
	assert.Equal(t, 2, resp.Level)
	assert.False(t, resp.Recovered)
	require.NotNil(t, resp.Metrics)
	assert.Equal(t, 7, resp.Metrics.InputBytes)
	assert.Equal(t, 3, resp.Metrics.OutputBytes)
	assert.Equal(t, 4, resp.Metrics.BytesSaved)
}

func TestMinifyEndpoint_UsesConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Minify.DefaultLevel = 1
	cfg.Minify.DefaultType = "md"

	resp := decodeBody[MinifyResponse](t, postJSON(t, newTestRouter(t, cfg), "/minify", MinifyRequest{
		Input: "x  \n\n\n\ny",
	}))
	assert.Equal(t, "x\n\ny", resp.Output)
	assert.Equal(t, "md", resp.EffectiveType)
	assert.Equal(t, 1, resp.Level)
}

func TestMinifyEndpoint_AutoDetectsWithFilename(t *testing.T) {
	resp := decodeBody[MinifyResponse](t, postJSON(t, newTestRouter(t, nil), "/minify", MinifyRequest{
		Input:    `{"a": 1}`,
		Type:     "auto",
		Filename: "data.json",
	}))
	assert.Equal(t, "json", resp.AutoDetectedType)
	assert.Equal(t, "json", resp.EffectiveType)
}

func TestMinifyEndpoint_OutOfRangeLevelUsesDefault(t *testing.T) {
	resp := decodeBody[MinifyResponse](t, postJSON(t, newTestRouter(t, nil), "/minify", MinifyRequest{
		Input: "a",
		Level: 9,
		Type:  "none",
	}))
	assert.Equal(t, int(models.DefaultLevel), resp.Level)
}

func TestMinifyEndpoint_RealEngine(t *testing.T) {
	r := NewRouter(pipeline.New(), nil, nil, nil)
	resp := decodeBody[MinifyResponse](t, postJSON(t, r, "/minify", MinifyRequest{
		Input: "body {\n  color: red;\n}\n",
		Level: 4,
		Type:  "css",
	}))
	assert.Equal(t, "body{color:red}", resp.Output)
	assert.False(t, resp.UsedFallback)
	assert.Empty(t, resp.Notices)
}

func TestMinifyEndpoint_InvalidType(t *testing.T) {
	rr := postJSON(t, newTestRouter(t, nil), "/minify", MinifyRequest{Input: "x", Type: "rust"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, ErrInvalidType.Code, decodeBody[APIError](t, rr).Code)
}

func TestMinifyEndpoint_InvalidJSON(t *testing.T) {
	rr := do(t, newTestRouter(t, nil), http.MethodPost, "/minify", "{not json")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	apiErr := decodeBody[APIError](t, rr)
	assert.Equal(t, ErrInvalidJSON.Code, apiErr.Code)
	assert.NotEmpty(t, apiErr.Details)
}

func TestMinifyEndpoint_BodyTooLarge(t *testing.T) {
	r := newTestRouter(t, nil)
	r.handler.maxBody = 16

	rr := postJSON(t, r, "/minify", MinifyRequest{Input: strings.Repeat("a", 64)})
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, ErrInputTooLarge.Code, decodeBody[APIError](t, rr).Code)
}

func TestMinifyEndpoint_EmptyInput(t *testing.T) {
	rr := postJSON(t, newTestRouter(t, nil), "/minify", MinifyRequest{Input: "   "})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeBody[MinifyResponse](t, rr)
	assert.Equal(t, "", resp.Output)
	assert.Equal(t, "none", resp.EffectiveType)
}

func TestMinifyEndpoint_MethodNotAllowed(t *testing.T) {
	rr := do(t, newTestRouter(t, nil), http.MethodGet, "/minify", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// =============================================================================
// Detect Endpoint Tests
// =============================================================================

func TestDetectEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		req       DetectRequest
		typ       string
		family    string
		extension string
		minified  bool
	}{
		{"json", DetectRequest{Input: `{"a":1}`}, "json", "js", "json", false},
		{"css", DetectRequest{Input: "body {\n  color: red;\n}"}, "css", "css", "css", false},
		{"minified file name", DetectRequest{Input: "var a=1;", Filename: "app.min.js"}, "js", "js", "js", true},
		{"empty", DetectRequest{Input: ""}, "none", "text", "txt", false},
	}

	r := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, r, "/detect", tt.req)
			require.Equal(t, http.StatusOK, rr.Code)

			resp := decodeBody[DetectResponse](t, rr)
			assert.Equal(t, tt.typ, resp.Type)
			assert.Equal(t, tt.family, resp.Family)
			assert.Equal(t, tt.extension, resp.Extension)
			assert.Equal(t, tt.minified, resp.LooksMinified)
		})
	}
}

// =============================================================================
// Metrics Endpoint Tests
// =============================================================================

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)
	postJSON(t, r, "/minify", MinifyRequest{Input: "a  \nb", Type: "none"})

	rr := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "goatminify_pipeline_runs_total")
}

// =============================================================================
// Recovery Tests
// =============================================================================

func TestRecoverer_WritesInternalError(t *testing.T) {
	h := recoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := do(t, h, http.MethodGet, "/anything", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	apiErr := decodeBody[APIError](t, rr)
	assert.Equal(t, ErrInternal.Code, apiErr.Code)
	assert.Equal(t, "boom", apiErr.Details)
}

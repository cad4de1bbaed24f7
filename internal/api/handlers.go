package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/metrics"
	"github.com/goatminify/goatminify/internal/minify"
	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/pipeline"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes limits request bodies accepted by /minify and /detect.
const DefaultMaxBodyBytes = 10 << 20

// Handler handles HTTP requests for the goatminify API
type Handler struct {
	pipeline  *pipeline.Pipeline
	engines   *minify.EngineCache
	config    *config.Config
	logger    *zap.Logger
	maxBody   int64
	startTime time.Time
}

// NewHandler creates a new Handler instance. engines may be nil when the
// pipeline was built with its own cache; health then omits engine status.
func NewHandler(p *pipeline.Pipeline, engines *minify.EngineCache, cfg *config.Config, logger *zap.Logger) *Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pipeline:  p,
		engines:   engines,
		config:    cfg,
		logger:    logger,
		maxBody:   DefaultMaxBodyBytes,
		startTime: time.Now(),
	}
}

// =============================================================================
// Handlers
// =============================================================================

// Health handles GET /health requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.engines != nil {
		loaded := map[string]bool{}
		for _, f := range []models.Family{models.FamilyJS, models.FamilyCSS, models.FamilyHTML} {
			loaded[f.String()] = h.engines.Loaded(f)
		}
		response.Engines = &EnginesStatus{Enabled: !h.engines.Disabled(), Loaded: loaded}
	}
	writeJSON(w, http.StatusOK, response)
}

// Config handles GET /config requests
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConfigResponse{Config: h.config})
}

// Minify handles POST /minify requests
func (h *Handler) Minify(w http.ResponseWriter, r *http.Request) {
	var req MinifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	level := h.config.Minify.Level()
	if req.Level != 0 {
		level = models.NormalizeLevel(req.Level)
	}

	override := h.config.Minify.TypeOverride()
	if req.Type != "" {
		o, err := models.ParseTypeOverride(req.Type)
		if err != nil {
			WriteBadRequest(w, ErrInvalidType.WithDetails(err.Error()))
			return
		}
		override = o
	}

	start := time.Now()
	res := h.pipeline.Run(r.Context(), pipeline.Request{
		Input:    req.Input,
		Level:    level,
		Override: override,
		Filename: req.Filename,
	})
	m := metrics.FromRun(req.Input, res.Output, time.Since(start))

	writeJSON(w, http.StatusOK, NewMinifyResponse(res, h.pipeline.Detector().Table(), m))
}

// Detect handles POST /detect requests
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if !h.decode(w, r, &req) {
		return
	}

	d := h.pipeline.Detector()
	t := d.Detect(req.Input, req.Filename)
	writeJSON(w, http.StatusOK, NewDetectResponse(t, d.Table(), detect.LooksMinified(req.Input, req.Filename)))
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a size-limited JSON body into v, writing the error response
// and returning false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteTooLarge(w, ErrInputTooLarge)
			return false
		}
		h.logger.Debug("rejected request body", zap.String("path", r.URL.Path), zap.Error(err))
		WriteBadRequest(w, ErrInvalidJSON.WithDetails(err.Error()))
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

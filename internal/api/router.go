package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/minify"
	"github.com/goatminify/goatminify/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestTimeout bounds a single request, engine calls included.
const RequestTimeout = 30 * time.Second

// Router wraps a chi router with handler configuration
type Router struct {
	chi     chi.Router
	handler *Handler
	logger  *zap.Logger
}

// NewRouter creates a new Router with the given dependencies
func NewRouter(p *pipeline.Pipeline, engines *minify.EngineCache, cfg *config.Config, logger *zap.Logger) *Router {
	handler := NewHandler(p, engines, cfg, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(handler.logger))
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(recoverer(handler.logger))

	r.Get("/health", handler.Health)
	r.Get("/config", handler.Config)
	r.Post("/minify", handler.Minify)
	r.Post("/detect", handler.Detect)
	r.Handle("/metrics", promhttp.Handler())

	return &Router{
		chi:     r,
		handler: handler,
		logger:  handler.logger,
	}
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.chi.ServeHTTP(w, req)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("elapsed", time.Since(start)))
		})
	}
}

// recoverer turns a handler panic into an ErrInternal response.
func recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("handler panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.ByteString("stack", debug.Stack()))
				WriteInternalError(w, ErrInternal.WithDetails(fmt.Sprint(rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

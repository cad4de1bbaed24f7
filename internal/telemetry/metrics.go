// Package telemetry provides Prometheus metrics for the minification pipeline.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts pipeline invocations.
	// Labels: type (effective content type), outcome (minified, fallback, recovered, empty, cached)
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goatminify",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by effective type and outcome",
		},
		[]string{"type", "outcome"},
	)

	// PipelineDuration tracks how long a pipeline run takes.
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "goatminify",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Duration of pipeline runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	// PipelineRecoveries counts runs that returned the input unchanged after
	// an unexpected failure.
	PipelineRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goatminify",
			Subsystem: "pipeline",
			Name:      "recoveries_total",
			Help:      "Total number of pipeline runs recovered by returning the original input",
		},
	)

	// EngineCalls counts engine invocations.
	// Labels: family (js, css, html), result (success, fallback)
	EngineCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goatminify",
			Subsystem: "engine",
			Name:      "calls_total",
			Help:      "Total number of engine-backed minification attempts",
		},
		[]string{"family", "result"},
	)

	// EngineFallbacks counts fallbacks to the engine-free path.
	// Labels: family, reason (unavailable, disabled, error, panic, timeout, empty, gate)
	EngineFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goatminify",
			Subsystem: "engine",
			Name:      "fallbacks_total",
			Help:      "Total number of engine fallbacks by family and reason",
		},
		[]string{"family", "reason"},
	)

	// EngineLoads counts engine initialization attempts.
	// Labels: family, result (success, error)
	EngineLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goatminify",
			Subsystem: "engine",
			Name:      "loads_total",
			Help:      "Total number of engine load attempts",
		},
		[]string{"family", "result"},
	)

	// CacheLookups counts result cache lookups.
	// Labels: result (hit, miss)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goatminify",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of result cache lookups",
		},
		[]string{"result"},
	)
)

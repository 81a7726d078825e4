// Package metrics holds the Prometheus collectors for scans and tool calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/goroots"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	// toolCalls counts tool invocations.
	// Labels: tool, status (ok, error)
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goroots",
		Subsystem: "tool",
		Name:      "calls_total",
		Help:      "Total tool calls by tool and status",
	}, []string{"tool", "status"})

	// toolLatency measures tool call latency.
	// Labels: tool
	toolLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "goroots",
		Subsystem: "tool",
		Name:      "latency_seconds",
		Help:      "Tool call latency in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"tool"})

	// intervalOutcomes counts scanned sub-intervals.
	// Labels: reason (none, sign-change, derivative-sign-change),
	// outcome (skipped, found, duplicate, failed)
	intervalOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goroots",
		Subsystem: "scan",
		Name:      "intervals_total",
		Help:      "Scanned sub-intervals by search reason and outcome",
	}, []string{"reason", "outcome"})

	// iterations tracks iterations per converged search.
	iterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "goroots",
		Subsystem: "scan",
		Name:      "iterations",
		Help:      "Iterations per converged sub-interval search",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 1000},
	})
)

// RecordTool records one tool call.
func RecordTool(tool string, failed bool, took time.Duration) {
	status := "ok"
	if failed {
		status = "error"
	}
	toolCalls.WithLabelValues(tool, status).Inc()
	toolLatency.WithLabelValues(tool).Observe(took.Seconds())
}

// IntervalHook records every sub-interval outcome of a scan.
func IntervalHook(rep goroots.IntervalReport) {
	intervalOutcomes.WithLabelValues(rep.Reason.String(), rep.Outcome.String()).Inc()
	if rep.Root != nil && !rep.Root.Exact {
		iterations.Observe(float64(rep.Root.Iterations))
	}
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

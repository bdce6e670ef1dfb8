package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors this package exposes --
// condensed from the teacher's much larger internal/observability/Metrics
// struct down to the two series that matter for tool dispatch: call
// count and call latency.
type Metrics struct {
	ToolCallTotal   *prometheus.CounterVec
	ToolCallSeconds *prometheus.HistogramVec
}

// NewMetrics registers the tool-call collectors against reg. Pass
// prometheus.DefaultRegisterer to use the global registry, or a fresh
// prometheus.NewRegistry() in tests to avoid collisions across packages.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ToolCallTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toolcore_tool_calls_total",
			Help: "Total number of tool calls dispatched, by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		ToolCallSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "toolcore_tool_call_duration_seconds",
			Help:    "Tool call latency in seconds, by tool name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

// Observe records one completed tool call's outcome and latency. A nil
// *Metrics is a valid no-op receiver, so callers that run without a
// configured registry (most tests) need no special case.
func (m *Metrics) Observe(toolName string, seconds float64, isError bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if isError {
		outcome = "error"
	}
	m.ToolCallTotal.WithLabelValues(toolName, outcome).Inc()
	m.ToolCallSeconds.WithLabelValues(toolName).Observe(seconds)
}

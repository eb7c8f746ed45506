// Package metrics exposes the pipeline's prometheus collectors: per-stage
// durations, token spend per service, connector failures, and run
// completeness.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/orionhq/gtm-insights/internal/llm"
)

type Metrics struct {
	StageDuration     *prometheus.HistogramVec
	TokensUsed        *prometheus.CounterVec
	LLMRequests       *prometheus.CounterVec
	ConnectorFailures *prometheus.CounterVec
	RunCompleteness   prometheus.Gauge
	RunsTotal         *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "insights",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"stage"}),
		TokensUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "llm_tokens_total",
			Help:      "LLM tokens consumed, by service and direction.",
		}, []string{"service", "direction"}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "llm_requests_total",
			Help:      "LLM calls issued, by service.",
		}, []string{"service"}),
		ConnectorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "connector_failures_total",
			Help:      "Connector fetches that degraded to a zero snapshot.",
		}, []string{"source"}),
		RunCompleteness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "insights",
			Name:      "run_completeness_percent",
			Help:      "Share of requested connectors that succeeded in the last run.",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "runs_total",
			Help:      "Pipeline runs, by final status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.StageDuration, m.TokensUsed, m.LLMRequests,
		m.ConnectorFailures, m.RunCompleteness, m.RunsTotal)
	return m
}

// Record implements llm.UsageRecorder.
func (m *Metrics) Record(service string, usage llm.TokenCount) {
	m.LLMRequests.WithLabelValues(service).Inc()
	m.TokensUsed.WithLabelValues(service, "input").Add(float64(usage.Input))
	m.TokensUsed.WithLabelValues(service, "output").Add(float64(usage.Output))
}

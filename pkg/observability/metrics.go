/*
Package observability provides Prometheus instrumentation for the
compile and validation pipeline.

Metrics plug into the rule engine through its observer hook and into the
facade through explicit record calls; the HTTP adapter exposes them on
/metrics.
*/
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/graft/pkg/rules"
	"github.com/aretw0/graft/pkg/workflow"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	Compiles           *prometheus.CounterVec
	RuleResults        *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	WorkflowNodes      prometheus.Histogram
}

// NewMetrics builds and registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Compiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graft_compiles_total",
			Help: "Compilations by outcome.",
		},
		[]string{"status"},
	)
	m.RuleResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graft_rule_results_total",
			Help: "Rule executions by category and outcome.",
		},
		[]string{"category", "outcome"},
	)
	m.ValidationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graft_validation_duration_seconds",
			Help:    "Full rule engine run duration.",
			Buckets: prometheus.DefBuckets,
		},
	)
	m.WorkflowNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graft_workflow_nodes",
			Help:    "Node count of generated workflows.",
			Buckets: []float64{1, 3, 5, 10, 25, 50, 100},
		},
	)

	m.registry.MustRegister(m.Compiles, m.RuleResults, m.ValidationDuration, m.WorkflowNodes)
	return m
}

// RecordCompile counts one compilation.
func (m *Metrics) RecordCompile(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.Compiles.WithLabelValues(status).Inc()
}

// RecordGeneration observes the size of a generated workflow.
func (m *Metrics) RecordGeneration(stats workflow.Stats) {
	m.WorkflowNodes.Observe(float64(stats.Nodes))
}

// RecordReport observes a finished validation run.
func (m *Metrics) RecordReport(r *rules.Report) {
	m.ValidationDuration.Observe(r.Elapsed.Seconds())
}

// RuleObserver returns a callback for rules.WithObserver that counts
// every rule result.
func (m *Metrics) RuleObserver() func(rules.Result) {
	return func(res rules.Result) {
		outcome := "pass"
		if !res.Passed {
			outcome = "fail"
		}
		m.RuleResults.WithLabelValues(string(res.Category), outcome).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// Metrics bundles the engine collectors behind one registry, so multiple
// engines (or tests) never fight over the global default.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	runSteps    prometheus.Histogram
	hostCalls   *prometheus.CounterVec
	activeRuns  prometheus.Gauge
}

// NewMetrics creates and registers the collector set.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockstep_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blockstep_run_duration_seconds",
				Help:    "Wall time from run start to completion",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
		),
		runSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blockstep_run_steps",
				Help:    "Evaluator slices consumed per run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		hostCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockstep_host_calls_total",
				Help: "Host function invocations by function name",
			},
			[]string{"function"},
		),
		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "blockstep_active_runs",
				Help: "Number of runs currently executing",
			},
		),
	}

	m.registry.MustRegister(m.runsTotal, m.runDuration, m.runSteps, m.hostCalls, m.activeRuns)
	return m
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape endpoint for this collector set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the collectors. Combine them with
// other hooks via domain.CombineHooks when the engine also needs streaming
// or debug logging.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, _ *domain.RunEvent) {
			m.activeRuns.Inc()
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			m.activeRuns.Dec()
			m.runsTotal.WithLabelValues(string(ev.Outcome)).Inc()
			m.runDuration.Observe(ev.Duration.Seconds())
			m.runSteps.Observe(float64(ev.Steps))
		},
		OnHostCall: func(_ context.Context, ev *domain.HostCallEvent) {
			m.hostCalls.WithLabelValues(ev.Name).Inc()
		},
	}
}

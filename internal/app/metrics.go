package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks report run outcomes for the /metrics endpoint
type Metrics struct {
	registry    *prometheus.Registry
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// NewMetrics creates the run metrics on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reporter",
		Name:      "runs_total",
		Help:      "Total report runs by final status.",
	}, []string{"status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reporter",
		Name:      "run_duration_seconds",
		Help:      "Wall clock duration of report runs.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	registry.MustRegister(runsTotal, runDuration)

	return &Metrics{
		registry:    registry,
		runsTotal:   runsTotal,
		runDuration: runDuration,
	}
}

// Registry returns the prometheus registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the outcome of a single report run
func (m *Metrics) ObserveRun(status string, duration time.Duration) {
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
}

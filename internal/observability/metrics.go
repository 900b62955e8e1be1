// Package observability provides Prometheus metrics for monitoring.
// The scanner is a batch process, so metrics are pushed to a Pushgateway
// after each run instead of being scraped.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all Prometheus metrics for one run.
type Metrics struct {
	registry *prometheus.Registry

	// Run metrics
	RunsTotal          *prometheus.CounterVec
	RunDurationSeconds prometheus.Histogram

	// Engine metrics
	CandidatesTotal       prometheus.Counter
	AlertsEmittedTotal    *prometheus.CounterVec
	AlertsSuppressedTotal prometheus.Counter

	// Input metrics
	SnapshotsMissingTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all metrics registered on a
// private registry, so a push never carries unrelated collectors.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "squeeze_radar"
	}

	registry := prometheus.NewRegistry()
	factory := func(opts prometheus.CounterOpts) prometheus.Counter {
		c := prometheus.NewCounter(opts)
		registry.MustRegister(c)
		return c
	}

	m := &Metrics{registry: registry}

	m.RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "runs_total",
		Help:      "Total scanner runs by terminal state",
	}, []string{"status"})
	registry.MustRegister(m.RunsTotal)

	m.RunDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "duration_seconds",
		Help:      "Wall-clock duration of one run",
		Buckets:   prometheus.DefBuckets,
	})
	registry.MustRegister(m.RunDurationSeconds)

	m.CandidatesTotal = factory(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "candidates_total",
		Help:      "Candidates produced by the funding rules",
	})

	m.AlertsEmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "alerts_emitted_total",
		Help:      "New alerts emitted by conviction grade",
	}, []string{"conviction"})
	registry.MustRegister(m.AlertsEmittedTotal)

	m.AlertsSuppressedTotal = factory(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "alerts_suppressed_total",
		Help:      "Alerts suppressed by the cooldown window",
	})

	m.SnapshotsMissingTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "input",
		Name:      "snapshots_missing_total",
		Help:      "Snapshot load failures by file and severity",
	}, []string{"snapshot", "severity"})
	registry.MustRegister(m.SnapshotsMissingTotal)

	return m
}

// Push sends the registry to a Pushgateway under the given job name.
func (m *Metrics) Push(gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

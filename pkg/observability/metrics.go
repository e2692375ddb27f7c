// Package observability provides Prometheus-backed metrics for the
// query and command buses and the HTTP layer.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records bus and pipeline metrics. It satisfies the bus
// Metrics interface.
type Metrics struct {
	registry *prometheus.Registry

	counters  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	graphBuildSeconds prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
}

// NewMetrics creates a metrics instance with its own registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_events_total",
			Help:      "Count of bus events by metric name and message type.",
		}, []string{"metric", "label"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bus_duration_seconds",
			Help:      "Handler latency by metric name and message type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"metric", "label"}),
		graphBuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_seconds",
			Help:      "Full fetch-synthesize-build pipeline latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_cache_hits_total",
			Help:      "Graph cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_cache_misses_total",
			Help:      "Graph cache misses.",
		}),
	}

	registry.MustRegister(m.counters, m.durations, m.graphBuildSeconds, m.cacheHits, m.cacheMisses)
	return m
}

// Increment bumps a labelled counter.
func (m *Metrics) Increment(metric, label string) {
	m.counters.WithLabelValues(metric, label).Inc()
}

// StartTimer starts a latency observation for a labelled duration.
func (m *Metrics) StartTimer(metric, label string) Timer {
	return &timer{
		start:    time.Now(),
		observer: m.durations.WithLabelValues(metric, label),
	}
}

// ObserveGraphBuild records one full pipeline build.
func (m *Metrics) ObserveGraphBuild(d time.Duration) {
	m.graphBuildSeconds.Observe(d.Seconds())
}

// CacheHit records a graph cache hit.
func (m *Metrics) CacheHit() { m.cacheHits.Inc() }

// CacheMiss records a graph cache miss.
func (m *Metrics) CacheMiss() { m.cacheMisses.Inc() }

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Timer measures one operation.
type Timer interface {
	Stop()
}

type timer struct {
	start    time.Time
	observer prometheus.Observer
}

func (t *timer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}

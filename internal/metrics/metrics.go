// Package metrics exposes refresh and consolidation metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the collectors for refresh runs.
type Metrics struct {
	registry *prometheus.Registry

	refreshRunsTotal      *prometheus.CounterVec
	refreshDuration       *prometheus.HistogramVec
	photosProcessedTotal  prometheus.Counter
	factsInsertedTotal    prometheus.Counter
	consolidationDuration prometheus.Histogram
	staysGauge            prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.refreshRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_refresh_runs_total",
			Help: "Total number of refresh runs",
		},
		[]string{"mode", "status"}, // mode: full, incremental; status: success, error, busy
	)

	m.refreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeline_refresh_duration_seconds",
			Help:    "Time taken by a refresh run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		},
		[]string{"mode"},
	)

	m.photosProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timeline_photos_processed_total",
		Help: "Photos examined for the first time",
	})

	m.factsInsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timeline_location_facts_inserted_total",
		Help: "Location facts stored",
	})

	m.consolidationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timeline_consolidation_duration_seconds",
		Help:    "Time taken to rebuild stays",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	m.staysGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timeline_stays",
		Help: "Stays produced by the last consolidation",
	})
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.refreshRunsTotal.Describe(ch)
	m.refreshDuration.Describe(ch)
	m.photosProcessedTotal.Describe(ch)
	m.factsInsertedTotal.Describe(ch)
	m.consolidationDuration.Describe(ch)
	m.staysGauge.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.refreshRunsTotal.Collect(ch)
	m.refreshDuration.Collect(ch)
	m.photosProcessedTotal.Collect(ch)
	m.factsInsertedTotal.Collect(ch)
	m.consolidationDuration.Collect(ch)
	m.staysGauge.Collect(ch)
}

// Registry returns the registry to serve on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRefresh records one refresh attempt.
func (m *Metrics) RecordRefresh(full bool, status string, d time.Duration) {
	mode := "incremental"
	if full {
		mode = "full"
	}
	m.refreshRunsTotal.WithLabelValues(mode, status).Inc()
	if status != "busy" {
		m.refreshDuration.WithLabelValues(mode).Observe(d.Seconds())
	}
}

// RecordExtraction adds the photos and facts stored by one pass.
func (m *Metrics) RecordExtraction(photos, facts int) {
	m.photosProcessedTotal.Add(float64(photos))
	m.factsInsertedTotal.Add(float64(facts))
}

// RecordConsolidation records a completed consolidation.
func (m *Metrics) RecordConsolidation(stays int, d time.Duration) {
	m.staysGauge.Set(float64(stays))
	m.consolidationDuration.Observe(d.Seconds())
}

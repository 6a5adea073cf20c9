// Package metrics exposes Prometheus instrumentation for the estimator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "interior_estimator"

// Label values.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the collectors of one server instance on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	EstimatesTotal   *prometheus.CounterVec
	EstimateDuration prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	CatalogItems     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		EstimatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "estimates_total",
				Help:      "Total number of estimate calculations by outcome",
			},
			[]string{"outcome"},
		),

		EstimateDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "estimate_duration_seconds",
				Help:      "Time taken to calculate an estimate",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of estimate cache lookups by result",
			},
			[]string{"result"},
		),

		CatalogItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_items",
				Help:      "Number of items in the loaded rate catalog",
			},
		),
	}

	m.registry.MustRegister(
		m.EstimatesTotal,
		m.EstimateDuration,
		m.CacheLookups,
		m.CatalogItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveEstimate records one calculation.
func (m *Metrics) ObserveEstimate(outcome string, d time.Duration) {
	m.EstimatesTotal.WithLabelValues(outcome).Inc()
	m.EstimateDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for page generation and the upstream API.
type Metrics struct {
	registry *prometheus.Registry

	generations      *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	upstreamRequests *prometheus.HistogramVec
	regenerations    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "episode_pages_generations_total",
			Help: "Page generations by outcome",
		}, []string{"outcome"}), // outcome=ok|not_found|upstream_error
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "episode_pages_cache_lookups_total",
			Help: "Page cache lookups by result",
		}, []string{"result"}), // result=hit|stale|miss
		upstreamRequests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "episode_pages_upstream_request_duration_seconds",
			Help:    "Upstream episode API request duration by status",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		regenerations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "episode_pages_background_regenerations_total",
			Help: "Background regeneration tasks by result",
		}, []string{"result"}), // result=success|failure|retry
	}
}

func (m *Metrics) ObserveGeneration(outcome string) {
	m.generations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveUpstreamRequest(status string, duration time.Duration) {
	m.upstreamRequests.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *Metrics) ObserveRegeneration(result string) {
	m.regenerations.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

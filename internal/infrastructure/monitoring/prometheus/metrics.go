// Package prometheus registers and serves the toolkit's operational
// metrics.  Handlers and the application service record through the Metrics
// struct; the /metrics endpoint is exposed by the HTTP router.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default histogram buckets.
var (
	defaultDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}
	defaultSizeBuckets     = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// Metrics holds every metric the toolkit emits.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Parse / perception layer.
	ParseTotal        *prometheus.CounterVec
	ParseDuration     prometheus.Histogram
	PerceiveDuration  prometheus.Histogram
	MoleculeAtomCount prometheus.Histogram

	// Write / similarity layer.
	WriteTotal      *prometheus.CounterVec
	SimilarityTotal prometheus.Counter

	// Infrastructure.
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	EventsPublished  *prometheus.CounterVec
}

// NewMetrics registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "molgraph_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "molgraph_http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: defaultDurationBuckets,
	}, []string{"method", "path"})

	m.ParseTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "molgraph_parse_total",
		Help: "SMILES parse attempts by outcome code",
	}, []string{"status"})

	m.ParseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "molgraph_parse_duration_seconds",
		Help:    "SMILES parse duration",
		Buckets: defaultDurationBuckets,
	})

	m.PerceiveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "molgraph_perceive_duration_seconds",
		Help:    "Full perception pipeline duration",
		Buckets: defaultDurationBuckets,
	})

	m.MoleculeAtomCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "molgraph_molecule_atom_count",
		Help:    "Atom count of processed molecules",
		Buckets: defaultSizeBuckets,
	})

	m.WriteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "molgraph_write_total",
		Help: "SMILES write attempts by outcome code",
	}, []string{"status"})

	m.SimilarityTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "molgraph_similarity_total",
		Help: "Similarity computations",
	})

	m.CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "molgraph_cache_hits_total",
		Help: "Canonicalization cache hits",
	})

	m.CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "molgraph_cache_misses_total",
		Help: "Canonicalization cache misses",
	})

	m.EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "molgraph_events_published_total",
		Help: "Domain events published by outcome",
	}, []string{"status"})

	reg.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.ParseTotal, m.ParseDuration, m.PerceiveDuration, m.MoleculeAtomCount,
		m.WriteTotal, m.SimilarityTotal,
		m.CacheHitsTotal, m.CacheMissesTotal, m.EventsPublished,
	)
	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Package metrics exposes prometheus counters and histograms for alert requests and the feed cache
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/domain"
)

const namespace = "nwsalerts"

// Builder builds an alert set for a request
type Builder interface {
	Build(ctx context.Context, req alerts.Request) *domain.AlertSet
}

// CacheStats reports feed cache usage
type CacheStats interface {
	Hits() uint64
	Misses() uint64
	Len() int
}

// Metrics holds the collectors, all registered in its own registry
type Metrics struct {
	AlertSets     *prometheus.CounterVec   // labels: scope, outcome={ok,no_location,no_feed_data}
	BuildDuration *prometheus.HistogramVec // labels: scope
	AlertEntries  prometheus.Histogram
	HTTPRequests  *prometheus.CounterVec // labels: code

	registry *prometheus.Registry
}

// New creates metrics registered with a fresh registry, go and process collectors included
func New() *Metrics {
	m := &Metrics{
		AlertSets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_sets_total",
			Help:      "Alert sets built by scope and outcome.",
		}, []string{"scope", "outcome"}),
		BuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of alert set builds, feed retrieval included.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"scope"}),
		AlertEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alert_entries",
			Help:      "Number of ranked alerts per successful alert set.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by response code.",
		}, []string{"code"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.AlertSets,
		m.BuildDuration,
		m.AlertEntries,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// WatchCache registers gauges and counters reading the feed cache stats on scrape
func (m *Metrics) WatchCache(stats CacheStats) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_hits_total",
			Help:      "Feed requests served from the cache.",
		}, func() float64 { return float64(stats.Hits()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_misses_total",
			Help:      "Feed requests sent upstream.",
		}, func() float64 { return float64(stats.Misses()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_cache_entries",
			Help:      "Feeds currently cached.",
		}, func() float64 { return float64(stats.Len()) }),
	)
}

// Instrument wraps b, every built alert set is counted by scope and outcome
func (m *Metrics) Instrument(b Builder) Builder {
	return &instrumented{builder: b, metrics: m}
}

// Observe records a single alert set and the time spent building it
func (m *Metrics) Observe(set *domain.AlertSet, took time.Duration) {
	scope := string(set.Scope)
	m.BuildDuration.WithLabelValues(scope).Observe(took.Seconds())

	outcome := string(set.ErrorKind())
	if outcome == "" {
		outcome = "ok"
		m.AlertEntries.Observe(float64(len(set.Entries)))
	}
	m.AlertSets.WithLabelValues(scope, outcome).Inc()
}

// Handler returns the scrape endpoint handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts responses by status code
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.HTTPRequests.WithLabelValues(strconv.Itoa(rec.status)).Inc()
	})
}

type instrumented struct {
	builder Builder
	metrics *Metrics
}

func (i *instrumented) Build(ctx context.Context, req alerts.Request) *domain.AlertSet {
	st := time.Now()
	set := i.builder.Build(ctx, req)
	i.metrics.Observe(set, time.Since(st))
	return set
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements every hook interface on Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal    *prometheus.CounterVec
	ExtractionDuration  prometheus.Histogram
	ExtractedNodes      prometheus.Histogram
	DiagnosticsTotal    prometheus.Counter
	ViewsTotal          *prometheus.CounterVec
	ViewDuration        prometheus.Histogram
	CacheRequestsTotal  *prometheus.CounterVec
	CacheWriteBytes     *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
}

// NewMetrics registers the collectors on reg. A nil reg gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ExtractionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topolayer_extractions_total",
			Help: "Topology extractions by outcome",
		}, []string{"outcome"}),
		ExtractionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "topolayer_extraction_duration_seconds",
			Help:    "Extraction latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ExtractedNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "topolayer_extracted_nodes",
			Help:    "Node records per extraction",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		DiagnosticsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "topolayer_diagnostics_total",
			Help: "Extraction diagnostics emitted",
		}),
		ViewsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topolayer_views_total",
			Help: "Layer views produced",
		}, []string{"layer"}),
		ViewDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "topolayer_view_duration_seconds",
			Help:    "Layer view latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CacheRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topolayer_cache_requests_total",
			Help: "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),
		CacheWriteBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "topolayer_cache_write_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}, []string{"key_type"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topolayer_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "topolayer_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "topolayer_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) OnExtractStart(context.Context, int, int) {}

func (m *Metrics) OnExtractComplete(_ context.Context, s ExtractStats, d time.Duration, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case s.Cached:
		outcome = "cached"
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
	if err != nil || s.Cached {
		return
	}
	m.ExtractionDuration.Observe(d.Seconds())
	m.ExtractedNodes.Observe(float64(s.Nodes))
	m.DiagnosticsTotal.Add(float64(s.Diagnostics))
}

func (m *Metrics) OnView(_ context.Context, layer, _, _ int, d time.Duration) {
	m.ViewsTotal.WithLabelValues(strconv.Itoa(layer)).Inc()
	m.ViewDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)

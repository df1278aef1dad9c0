// Package metrics implements the observability hooks with Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/observability"
)

const namespace = "diagramkit"

// Metrics holds the collectors. It satisfies every hook interface of
// package observability.
type Metrics struct {
	composeTotal    *prometheus.CounterVec
	composeDuration *prometheus.HistogramVec
	sceneOps        prometheus.Histogram
	warnings        prometheus.Counter
	renderTotal     *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	cacheEvents     *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		composeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compose_total",
			Help:      "Compositions by diagram kind and result code",
		}, []string{"kind", "code"}),
		composeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compose_duration_seconds",
			Help:      "Composition latency",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"kind"}),
		sceneOps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scene_ops",
			Help:      "Draw operations per composed scene",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 10),
		}),
		warnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_warnings_total",
			Help:      "Non-fatal diagnostics emitted during composition",
		}),
		renderTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_total",
			Help:      "Render runs by result",
		}, []string{"result"}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render latency for all requested formats",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Requests currently being served",
		}),
	}
}

// Register installs m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) OnComposeStart(ctx context.Context, kind string) {}

func (m *Metrics) OnComposeComplete(ctx context.Context, kind string, ops, warnings int, d time.Duration, err error) {
	code := "ok"
	if err != nil {
		code = string(errors.GetCode(err))
		if code == "" {
			code = "error"
		}
	}
	m.composeTotal.WithLabelValues(kind, code).Inc()
	m.composeDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err == nil {
		m.sceneOps.Observe(float64(ops))
		m.warnings.Add(float64(warnings))
	}
}

func (m *Metrics) OnRenderStart(ctx context.Context, formats []string) {}

func (m *Metrics) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.renderTotal.WithLabelValues(result).Inc()
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(ctx context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(ctx context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(ctx context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(ctx context.Context, method, route string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

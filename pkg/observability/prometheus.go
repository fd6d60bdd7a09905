package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kintree"

// PrometheusHooks exports store, projection and cache events as Prometheus
// metrics. It implements [StoreHooks], [ProjectionHooks] and [CacheHooks].
type PrometheusHooks struct {
	mutations       *prometheus.CounterVec
	mutationLatency *prometheus.HistogramVec
	revision        prometheus.Gauge
	computes        *prometheus.CounterVec
	computeLatency  *prometheus.HistogramVec
	cacheEvents     *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// Registration fails if the collectors are already registered.
func NewPrometheusHooks(reg prometheus.Registerer) (*PrometheusHooks, error) {
	h := &PrometheusHooks{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Store mutations by operation and result.",
		}, []string{"op", "result"}),
		mutationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutation_duration_seconds",
			Help:      "Time spent validating and committing store mutations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"op"}),
		revision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "revision",
			Help:      "Current graph revision.",
		}),
		computes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "computes_total",
			Help:      "Projection recomputes by kind and result.",
		}, []string{"kind", "result"}),
		computeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "compute_duration_seconds",
			Help:      "Time spent recomputing views, generations and layouts.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"kind"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
	}

	for _, c := range h.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *PrometheusHooks) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		h.mutations, h.mutationLatency, h.revision,
		h.computes, h.computeLatency,
		h.cacheEvents, h.cacheBytes,
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnMutation implements StoreHooks.
func (h *PrometheusHooks) OnMutation(op, _ string, revision uint64, d time.Duration, err error) {
	h.mutations.WithLabelValues(op, result(err)).Inc()
	h.mutationLatency.WithLabelValues(op).Observe(d.Seconds())
	if err == nil {
		h.revision.Set(float64(revision))
	}
}

// OnComputeStart implements ProjectionHooks.
func (h *PrometheusHooks) OnComputeStart(context.Context, string, int) {}

// OnComputeComplete implements ProjectionHooks.
func (h *PrometheusHooks) OnComputeComplete(_ context.Context, kind string, d time.Duration, err error) {
	h.computes.WithLabelValues(kind, result(err)).Inc()
	h.computeLatency.WithLabelValues(kind).Observe(d.Seconds())
}

// OnCacheHit implements CacheHooks.
func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements CacheHooks.
func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements CacheHooks.
func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ StoreHooks      = (*PrometheusHooks)(nil)
	_ ProjectionHooks = (*PrometheusHooks)(nil)
	_ CacheHooks      = (*PrometheusHooks)(nil)
)

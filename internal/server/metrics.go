package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PoolObserver is the part of the connection pool the metrics read.
type PoolObserver interface {
	Capacity() int
	InUse() int
	Timeouts() int64
}

// Metrics owns the Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers request collectors, and pool gauges when p is not nil, on a fresh registry.
func NewMetrics(p PoolObserver) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "todo",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "todo",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(m.requests, m.latency)

	if p != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "todo",
				Name:      "pool_capacity",
				Help:      "Maximum number of pooled database connections.",
			}, func() float64 { return float64(p.Capacity()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "todo",
				Name:      "pool_in_use",
				Help:      "Database connections currently acquired.",
			}, func() float64 { return float64(p.InUse()) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: "todo",
				Name:      "pool_acquire_timeouts_total",
				Help:      "Connection acquisitions that gave up waiting.",
			}, func() float64 { return float64(p.Timeouts()) }),
		)
	}

	return m
}

// Middleware records one observation per request, labelled by the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.code())).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "internhub"

// Metrics owns a registry and the collectors registered on it. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	degraded    *prometheus.CounterVec
	rateLimited prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "path"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lifecycle",
				Name:      "transitions_total",
				Help:      "State transitions applied, by entity and target state.",
			},
			[]string{"entity", "from", "to"},
		),
		conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lifecycle",
				Name:      "conflicts_total",
				Help:      "Conditional writes that lost to a concurrent update.",
			},
			[]string{"entity"},
		),
		degraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dashboard_degraded_total",
				Help:      "Dashboard figures replaced by zero after a failed query.",
			},
			[]string{"dashboard", "figure"},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the rate limiter.",
			},
		),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.transitions,
		m.conflicts,
		m.degraded,
		m.rateLimited,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) RequestFinished(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
	if path == "" {
		path = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransition(entity, from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, from, to).Inc()
}

func (m *Metrics) RecordConflict(entity string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(entity).Inc()
}

func (m *Metrics) RecordDegraded(dashboard, figure string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(dashboard, figure).Inc()
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warpdl/imgwarm/pkg/preload"
)

const metricsNamespace = "imgwarm"

// metrics owns a registry per daemon so several servers can live in one
// process (tests).
type metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	preloadsTotal     *prometheus.CounterVec
	fetchDuration     prometheus.Histogram
}

func newMetrics(stats func() preload.Stats) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of JSON-RPC HTTP requests",
			},
			[]string{"method", "status"},
		),
		preloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "preload",
				Name:      "events_total",
				Help:      "Preload lifecycle events by kind",
			},
			[]string{"event"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "preload",
				Name:      "fetch_duration_seconds",
				Help:      "Duration of successful fetches in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	gauge := func(name, help string, value func(preload.Stats) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "preload",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(stats()) })
	}
	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.preloadsTotal,
		m.fetchDuration,
		gauge("active", "Fetches in flight", func(s preload.Stats) float64 { return float64(s.Active) }),
		gauge("pending", "Requests waiting for a slot", func(s preload.Stats) float64 { return float64(s.Pending) }),
		gauge("completed", "URLs in the completed set", func(s preload.Stats) float64 { return float64(s.Completed) }),
		gauge("max_concurrent", "Concurrency ceiling", func(s preload.Stats) float64 { return float64(s.MaxConcurrent) }),
	)
	return m
}

// handlers counts scheduler events.
func (m *metrics) handlers() *preload.Handlers {
	return &preload.Handlers{
		StartHandler: func(string, int) {
			m.preloadsTotal.WithLabelValues("started").Inc()
		},
		ReadyHandler: func(_ string, elapsed time.Duration) {
			m.preloadsTotal.WithLabelValues("ready").Inc()
			m.fetchDuration.Observe(elapsed.Seconds())
		},
		FailedHandler: func(string, error) {
			m.preloadsTotal.WithLabelValues("failed").Inc()
		},
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// instrument counts requests by method and status. It must not wrap the
// WebSocket endpoint: statusRecorder does not implement http.Hijacker.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		m.httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(sr.status)).Inc()
	})
}

package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver so callers
// never branch on METRICS_ENABLED.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	importsStarted  *prometheus.CounterVec
	importsFinished *prometheus.CounterVec
	importDuration  *prometheus.HistogramVec
	importsRunning  prometheus.Gauge
	importsQueued   prometheus.Gauge
	importsRejected prometheus.Counter
	importRows      *prometheus.CounterVec
	importFailures  *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. Returns nil when disabled.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// New returns an independent set of collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netinv",
			Name:      "api_requests_total",
			Help:      "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "netinv",
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds by method/route/status.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "netinv",
			Name:      "api_inflight_requests",
			Help:      "In-flight API requests.",
		}),
		importsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "jobs_started_total",
			Help:      "Import jobs accepted, by entity.",
		}, []string{"entity"}),
		importsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "jobs_finished_total",
			Help:      "Import jobs reaching a terminal status, by entity/status.",
		}, []string{"entity", "status"}),
		importDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "job_duration_seconds",
			Help:      "Import job wall time from start of processing.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600, 1800},
		}, []string{"entity", "status"}),
		importsRunning: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "jobs_running",
			Help:      "Import jobs currently holding a worker slot.",
		}),
		importsQueued: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "jobs_queued",
			Help:      "Import jobs waiting for a worker slot.",
		}),
		importsRejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "jobs_rejected_total",
			Help:      "Uploads refused because the import queue was full.",
		}),
		importRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Imported rows by entity/outcome (added, updated, failed).",
		}, []string{"entity", "outcome"}),
		importFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netinv",
			Subsystem: "import",
			Name:      "row_failures_total",
			Help:      "Failure records by entity/cause, warnings included.",
		}, []string{"entity", "cause"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ImportQueued(entity string) {
	if m == nil {
		return
	}
	m.importsStarted.WithLabelValues(entity).Inc()
	m.importsQueued.Inc()
}

func (m *Metrics) ImportRejected() {
	if m == nil {
		return
	}
	m.importsRejected.Inc()
}

// ImportRunning moves a job from the queued gauge to the running gauge.
func (m *Metrics) ImportRunning() {
	if m == nil {
		return
	}
	m.importsQueued.Dec()
	m.importsRunning.Inc()
}

func (m *Metrics) ImportFinished(entity, status string, dur time.Duration, wasRunning bool) {
	if m == nil {
		return
	}
	if wasRunning {
		m.importsRunning.Dec()
	} else {
		m.importsQueued.Dec()
	}
	m.importsFinished.WithLabelValues(entity, status).Inc()
	m.importDuration.WithLabelValues(entity, status).Observe(dur.Seconds())
}

func (m *Metrics) ObserveRow(entity, outcome string) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(entity, outcome).Inc()
}

func (m *Metrics) AddRowFailures(entity, cause string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importFailures.WithLabelValues(entity, cause).Add(float64(n))
}

func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

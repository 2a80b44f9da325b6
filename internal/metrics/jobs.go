package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/numcalc/internal/jobs"
)

// Namespace prefixes every metric exported by numcalc.
const Namespace = "numcalc"

// JobMetrics exports job lifecycle events to Prometheus. It implements
// jobs.Recorder and owns a private registry so several instances can coexist
// (tests create one per case).
type JobMetrics struct {
	registry *prometheus.Registry

	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	duration *prometheus.HistogramVec
	running  *prometheus.GaugeVec

	// HTTP side, fed by the status server middleware.
	requests       *prometheus.CounterVec
	activeRequests prometheus.Gauge
}

// NewJobMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewJobMetrics() *JobMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &JobMetrics{
		registry: reg,
		started: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "jobs_started_total",
				Help:      "Job runs started, by kind.",
			},
			[]string{"kind"},
		),
		finished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "jobs_finished_total",
				Help:      "Job runs finished, by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "job_duration_seconds",
				Help:      "Wall-clock duration of job runs.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
		running: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "jobs_running",
				Help:      "Job runs currently in flight, by kind.",
			},
			[]string{"kind"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Status server requests, by path and status code.",
			},
			[]string{"path", "code"},
		),
		activeRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "http_active_requests",
				Help:      "Status server requests currently being served.",
			},
		),
	}
}

// JobStarted implements jobs.Recorder.
func (m *JobMetrics) JobStarted(kind jobs.Kind) {
	m.started.WithLabelValues(kind.String()).Inc()
	m.running.WithLabelValues(kind.String()).Inc()
}

// JobFinished implements jobs.Recorder.
func (m *JobMetrics) JobFinished(kind jobs.Kind, outcome jobs.Outcome, d time.Duration) {
	m.finished.WithLabelValues(kind.String(), outcome.String()).Inc()
	m.duration.WithLabelValues(kind.String()).Observe(d.Seconds())
	m.running.WithLabelValues(kind.String()).Dec()
}

// IncrementActiveRequests marks the start of an HTTP request.
func (m *JobMetrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of an HTTP request.
func (m *JobMetrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a served HTTP request.
func (m *JobMetrics) ObserveRequest(path string, code int) {
	m.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *JobMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the Prometheus exposition handler for this registry.
func (m *JobMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ jobs.Recorder = (*JobMetrics)(nil)

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the Cadence server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Store mutation metrics.
	MutationsTotal            *prometheus.CounterVec
	ValidationRejectionsTotal *prometheus.CounterVec

	// Timer metrics.
	TimerTransitionsTotal *prometheus.CounterVec

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cadence_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		MutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_store_mutations_total",
			Help: "Total number of store mutation attempts by outcome.",
		}, []string{"entity", "action", "outcome"}),

		ValidationRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_validation_rejections_total",
			Help: "Total number of mutations rejected by validation.",
		}, []string{"reason"}),

		TimerTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_timer_transitions_total",
			Help: "Total number of timer state transitions by outcome.",
		}, []string{"event", "outcome"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cadence_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.MutationsTotal,
		m.ValidationRejectionsTotal,
		m.TimerTransitionsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterStateCollector registers the custom aggregate-state collector.
func (m *Metrics) RegisterStateCollector(statFunc StateStatFunc) {
	m.registry.MustRegister(NewStateCollector(statFunc))
}

// IncMutation increments the mutation counter for the given outcome.
func (m *Metrics) IncMutation(entity, action string, committed bool) {
	outcome := "committed"
	if !committed {
		outcome = "rejected"
	}
	m.MutationsTotal.WithLabelValues(entity, action, outcome).Inc()
}

// IncValidationRejection increments the rejection counter for a reason.
func (m *Metrics) IncValidationRejection(reason string) {
	m.ValidationRejectionsTotal.WithLabelValues(reason).Inc()
}

// IncTimerTransition increments the timer transition counter.
func (m *Metrics) IncTimerTransition(event string, committed bool) {
	outcome := "committed"
	if !committed {
		outcome = "rejected"
	}
	m.TimerTransitionsTotal.WithLabelValues(event, outcome).Inc()
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, pathPattern string, statusCode int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, fmt.Sprintf("%d", statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
}

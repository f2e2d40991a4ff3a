package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Recorder is what the services and the gate report into.
type Recorder interface {
	// RecordLogin counts login attempts. outcome is "success" or a failure
	// reason such as "not_found" or "bad_password".
	RecordLogin(outcome string, duration time.Duration)
	RecordTokenIssued(use string)
	RecordTokenRefresh(success bool)
	RecordGateRejection(stage, reason string)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	HTTPInFlight(delta int)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	registry *prometheus.Registry

	// Authentication
	LoginTotal    *prometheus.CounterVec
	LoginDuration prometheus.Histogram

	// Tokens
	TokensIssuedTotal    *prometheus.CounterVec
	TokensRefreshedTotal *prometheus.CounterVec

	// Authorization gate
	GateRejectionsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// Init returns Prometheus-backed metrics when enabled, NoopMetrics otherwise.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}
	return New(prometheus.NewRegistry())
}

// New registers every metric on reg along with the Go runtime and process
// collectors. A fresh registry per instance keeps tests independent.
func New(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LoginTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soapbox_auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"outcome"}, // success, missing_credentials, not_found, bad_password, error
		),
		LoginDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "soapbox_auth_login_duration_seconds",
				Help:    "Time taken to process a login, password hashing included",
				Buckets: prometheus.DefBuckets,
			},
		),
		TokensIssuedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soapbox_tokens_issued_total",
				Help: "Total number of tokens issued",
			},
			[]string{"use"}, // access, refresh
		),
		TokensRefreshedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soapbox_tokens_refreshed_total",
				Help: "Total number of token refresh attempts",
			},
			[]string{"result"}, // success, failure
		),
		GateRejectionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soapbox_gate_rejections_total",
				Help: "Requests rejected by the authorization gate",
			},
			[]string{"stage", "reason"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soapbox_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "soapbox_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "soapbox_http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry, mostly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// RecordLogin records a login attempt and how long it took.
func (m *Metrics) RecordLogin(outcome string, duration time.Duration) {
	m.LoginTotal.WithLabelValues(outcome).Inc()
	m.LoginDuration.Observe(duration.Seconds())
}

// RecordTokenIssued records token issuance
func (m *Metrics) RecordTokenIssued(use string) {
	m.TokensIssuedTotal.WithLabelValues(use).Inc()
}

// RecordTokenRefresh records token refresh attempt
func (m *Metrics) RecordTokenRefresh(success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.TokensRefreshedTotal.WithLabelValues(result).Inc()
}

// RecordGateRejection records a request stopped by the gate.
func (m *Metrics) RecordGateRejection(stage, reason string) {
	m.GateRejectionsTotal.WithLabelValues(stage, reason).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) HTTPInFlight(delta int) {
	m.HTTPRequestsInFlight.Add(float64(delta))
}

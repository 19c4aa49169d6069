package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	voucherValidations *prometheus.CounterVec
	bookingsCreated    *prometheus.CounterVec
	auditFailures      prometheus.Counter
	logLinesDropped    prometheus.CounterFunc
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_api",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "travel_api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		voucherValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_api",
			Name:      "voucher_validations_total",
			Help:      "Voucher validations by outcome.",
		}, []string{"valid"}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_api",
			Name:      "bookings_created_total",
			Help:      "Bookings created by source.",
		}, []string{"source"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "travel_api",
			Name:      "audit_write_failures_total",
			Help:      "Activity log entries that could not be stored.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.voucherValidations,
		m.bookingsCreated,
		m.auditFailures,
	)
	return m
}

// TrackDroppedLogLines exposes a running count of discarded log lines.
func (m *Metrics) TrackDroppedLogLines(fn func() int64) {
	if m == nil || m.logLinesDropped != nil {
		return
	}
	m.logLinesDropped = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "travel_api",
		Name:      "log_lines_dropped_total",
		Help:      "Log lines dropped by the Logstash mirror.",
	}, func() float64 { return float64(fn()) })
	m.registry.MustRegister(m.logLinesDropped)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// The recorders below are nil-safe so services can run without metrics.

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) VoucherValidated(valid bool) {
	if m == nil {
		return
	}
	m.voucherValidations.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) BookingCreated(source string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

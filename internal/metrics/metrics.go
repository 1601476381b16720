// Package metrics exposes the Prometheus collectors for HTTP traffic,
// hosted model calls and contact inquiries.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skylane"

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	llmRequests  *prometheus.CounterVec
	llmDuration  *prometheus.HistogramVec
	inquiries    *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Total number of hosted model calls.",
		}, []string{"provider", "operation", "status"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Duration of hosted model calls including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
		}, []string{"provider", "operation"}),
		inquiries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inquiries_total",
			Help:      "Total number of contact form submissions.",
		}, []string{"lang", "status"}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.llmRequests,
		m.llmDuration,
		m.inquiries,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncInFlight and DecInFlight track concurrent requests.
func (m *Metrics) IncInFlight() {
	if m != nil {
		m.httpInFlight.Inc()
	}
}

func (m *Metrics) DecInFlight() {
	if m != nil {
		m.httpInFlight.Dec()
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	route := Route(path)
	method = strings.ToUpper(method)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLLMRequest records one hosted model call.
func (m *Metrics) RecordLLMRequest(provider, operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.llmRequests.WithLabelValues(provider, operation, status).Inc()
	m.llmDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordInquiry records one contact form submission.
func (m *Metrics) RecordInquiry(lang string, success bool) {
	if m == nil {
		return
	}
	status := "stored"
	if !success {
		status = "failed"
	}
	m.inquiries.WithLabelValues(lang, status).Inc()
}

// knownRoutes keeps label cardinality bounded.
var knownRoutes = map[string]bool{
	"/":              true,
	"/wechat":        true,
	"/dashboard":     true,
	"/contact":       true,
	"/metrics":       true,
	"/api/smart-rfq": true,
	"/api/ai-chat":   true,
	"/api/content":   true,
	"/api/dashboard": true,
	"/api/health":    true,
	"/api/version":   true,
}

// Route maps a request path to a bounded route label.
func Route(path string) string {
	if knownRoutes[path] {
		return path
	}
	switch {
	case strings.HasPrefix(path, "/static/"):
		return "/static"
	case strings.HasPrefix(path, "/api/"):
		return "/api/other"
	default:
		return "other"
	}
}

// Package metrics exposes Prometheus collectors for the climate service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weather_history"

// Custom registry to avoid default Go metrics.
var registry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

var (
	auto = promauto.With(registry)

	providerRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Outbound provider requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	providerLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Outbound provider request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	yearFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fetcher",
		Name:      "years_total",
		Help:      "Per-year historical queries by outcome (ok, failed).",
	}, []string{"outcome"})

	recordsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fetcher",
		Name:      "records_dropped_total",
		Help:      "Raw records rejected by the observation parse step.",
	})

	reports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "reports_total",
		Help:      "Reports produced by kind (summary, series, refresh) and outcome.",
	}, []string{"kind", "outcome"})

	httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})
)

// RecordProviderRequest counts one outbound call and observes its latency.
func RecordProviderRequest(provider, outcome string, seconds float64) {
	providerRequests.WithLabelValues(provider, outcome).Inc()
	providerLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordYearFetch counts a per-year historical query.
func RecordYearFetch(ok bool) {
	if ok {
		yearFetches.WithLabelValues("ok").Inc()
		return
	}
	yearFetches.WithLabelValues("failed").Inc()
}

// RecordDropped counts raw records rejected during parsing.
func RecordDropped(n int) {
	if n > 0 {
		recordsDropped.Add(float64(n))
	}
}

// RecordReport counts a produced (or failed) report.
func RecordReport(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	reports.WithLabelValues(kind, outcome).Inc()
}

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(route, method, statusCode string) {
	httpRequests.WithLabelValues(route, method, statusCode).Inc()
}

// Registry returns the registry holding every collector.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

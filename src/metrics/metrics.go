// Package metrics exposes Prometheus instruments for the proxy and the
// CI upstream calls behind it.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests served, by route pattern.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moirai_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path"},
	)

	// ResponseDuration tracks HTTP handler latency in milliseconds.
	ResponseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moirai_http_response_ms",
			Help:    "Duration of HTTP requests in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"path", "method"},
	)

	// ResponsesTotal counts HTTP responses by status text.
	ResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moirai_http_responses_total",
			Help: "Statuses for HTTP responses.",
		},
		[]string{"path", "status"},
	)

	// UpstreamRequests counts calls made to CI servers.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moirai_upstream_requests_total",
			Help: "Requests sent to CI servers, by server, method and status.",
		},
		[]string{"server", "method", "status"},
	)

	// UpstreamDuration tracks CI server latency in seconds.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moirai_upstream_duration_seconds",
			Help:    "Latency of requests to CI servers.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"server"},
	)

	// TabFailures counts dashboard tab loads that failed.
	TabFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moirai_tab_failures_total",
			Help: "Dashboard tab loads that returned an error.",
		},
		[]string{"tab"},
	)
)

// IncRequestsTotal increments the request counter.
func IncRequestsTotal(path string) {
	RequestsTotal.WithLabelValues(path).Inc()
}

// ObserveResponseDuration records handler latency.
func ObserveResponseDuration(path, method string, d time.Duration) {
	ResponseDuration.WithLabelValues(path, method).Observe(float64(d.Milliseconds()))
}

// IncResponsesTotal increments the response counter for a status code.
func IncResponsesTotal(path string, status int) {
	ResponsesTotal.WithLabelValues(path, http.StatusText(status)).Inc()
}

// ObserveUpstream records one call to a CI server.
func ObserveUpstream(server, method, status string, d time.Duration) {
	UpstreamRequests.WithLabelValues(server, method, status).Inc()
	UpstreamDuration.WithLabelValues(server).Observe(d.Seconds())
}

// IncTabFailure records a failed tab load.
func IncTabFailure(tab string) {
	TabFailures.WithLabelValues(tab).Inc()
}

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce               sync.Once
	apiRequestsTotal           *prometheus.CounterVec
	apiLatencySeconds          *prometheus.HistogramVec
	apiErrorsTotal             *prometheus.CounterVec
	announcementsRequestsTotal *prometheus.CounterVec
	announcementsLatencySecs   prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used for API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		announcementsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "announcements_feed_requests_total",
			Help: "Announcement feed requests broken down by cache outcome.",
		}, []string{"outcome"})

		announcementsLatencySecs = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "announcements_feed_latency_seconds",
			Help:    "Latency distribution for announcement feed reads.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, announcementsRequestsTotal, announcementsLatencySecs)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AnnouncementsRequests exposes the feed counter labelled by cache outcome.
func AnnouncementsRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return announcementsRequestsTotal
}

// AnnouncementsLatency exposes the feed latency histogram.
func AnnouncementsLatency() prometheus.Histogram {
	RegisterMetrics()
	return announcementsLatencySecs
}

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	httpErrorsTotal         *prometheus.CounterVec
	notificationsFannedOut  *prometheus.CounterVec
	realtimeEventsTotal     *prometheus.CounterVec
	realtimeSubscriberGauge prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuition_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tuition_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuition_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		notificationsFannedOut = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuition_notifications_fanned_out_total",
			Help: "Notification rows inserted by fan-out sends, labelled by target.",
		}, []string{"target"})

		realtimeEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuition_realtime_events_total",
			Help: "Change events published to the realtime hub.",
		}, []string{"table", "action"})

		realtimeSubscriberGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tuition_realtime_subscribers",
			Help: "Currently connected realtime stream subscribers.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			notificationsFannedOut,
			realtimeEventsTotal,
			realtimeSubscriberGauge,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// NotificationsFannedOut exposes the fan-out counter.
func NotificationsFannedOut() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsFannedOut
}

// RealtimeEventsTotal exposes the change-event counter.
func RealtimeEventsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return realtimeEventsTotal
}

// RealtimeSubscribers exposes the subscriber gauge.
func RealtimeSubscribers() prometheus.Gauge {
	RegisterMetrics()
	return realtimeSubscriberGauge
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noblejade",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noblejade",
			Name:      "booking_transitions_total",
			Help:      "Booking lifecycle transitions by target status.",
		},
		[]string{"status"},
	)

	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noblejade",
			Name:      "store_errors_total",
			Help:      "Record store errors by collection.",
		},
		[]string{"collection"},
	)

	realtimeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noblejade",
			Name:      "realtime_events_total",
			Help:      "Realtime events applied by action.",
		},
		[]string{"action"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingTransitions, storeErrors, realtimeEvents)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncTransition increments the counter for a lifecycle transition.
func IncTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// IncStoreError increments the store error counter for a collection.
func IncStoreError(collection string) {
	storeErrors.WithLabelValues(collection).Inc()
}

// IncRealtimeEvent increments the realtime event counter for an action.
func IncRealtimeEvent(action string) {
	realtimeEvents.WithLabelValues(action).Inc()
}

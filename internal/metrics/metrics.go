// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the booking flow.  Everything registers on the default registry and is
// served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookmyshow_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmyshow_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// Booking flow
	BookingsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmyshow_bookings_recorded_total",
			Help: "Bookings written to storage",
		},
	)

	SeatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmyshow_seats_booked_total",
			Help: "Seats taken by recorded bookings",
		},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmyshow_payments_total",
			Help: "Successful payments by method",
		},
		[]string{"method"},
	)

	ControllerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmyshow_controller_errors_total",
			Help: "Controller failures by kind",
		},
		[]string{"kind"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordBooking counts a recorded booking of n seats.
func RecordBooking(n int) {
	BookingsRecorded.Inc()
	SeatsBooked.Add(float64(n))
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stylio"

var (
	once sync.Once

	hoursResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hours_resolved_total",
			Help:      "Count of working-hours resolutions by source (override, weekly, default).",
		},
		[]string{"source"},
	)

	unavailabilityWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unavailability_writes_total",
			Help:      "Count of staff unavailability writes by outcome.",
		},
		[]string{"outcome"},
	)

	bookingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_requests_total",
			Help:      "Count of booking requests by outcome.",
		},
		[]string{"outcome"},
	)

	photoUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_uploads_total",
			Help:      "Count of stored photos by format (webp or original fallback).",
		},
		[]string{"format"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Count of requests rejected by the rate limiter.",
		},
	)
)

// Register 注册全部指标（幂等）
func Register() {
	once.Do(func() {
		prometheus.MustRegister(hoursResolved, unavailabilityWrites, bookingRequests, photoUploads, rateLimited)
	})
}

func IncHoursResolved(source string) {
	hoursResolved.WithLabelValues(source).Inc()
}

func IncUnavailabilityWrite(outcome string) {
	unavailabilityWrites.WithLabelValues(outcome).Inc()
}

func IncBookingRequest(outcome string) {
	bookingRequests.WithLabelValues(outcome).Inc()
}

func IncPhotoUpload(format string) {
	photoUploads.WithLabelValues(format).Inc()
}

func IncRateLimited() {
	rateLimited.Inc()
}

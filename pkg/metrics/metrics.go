package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "outletdesk"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route and status code.",
		},
		[]string{"method", "route", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Count of room bookings created by initial status.",
		},
		[]string{"status"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Count of batch bookings rejected for overlap, maintenance or lock contention.",
		},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Count of booking lifecycle transitions by target status.",
		},
		[]string{"status"},
	)

	folioCharges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folio_charges_total",
			Help:      "Count of folio charges by type.",
		},
		[]string{"type"},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Count of restaurant order status changes by target status.",
		},
		[]string{"status"},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outlet_events_published_total",
			Help:      "Count of outlet events handed to the event stream by result.",
		},
		[]string{"type", "result"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_emails_total",
			Help:      "Count of guest emails sent from outlet events by result.",
		},
		[]string{"type", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			bookingsCreated, bookingConflicts, bookingTransitions, folioCharges,
			orderTransitions, eventsPublished, emailsSent,
		)
	})
}

func ObserveHTTP(method, route, code string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, code).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func IncBookingCreated(status string) {
	bookingsCreated.WithLabelValues(status).Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}

func IncBookingTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

func IncFolioCharge(chargeType string) {
	folioCharges.WithLabelValues(chargeType).Inc()
}

func IncOrderTransition(status string) {
	orderTransitions.WithLabelValues(status).Inc()
}

func IncEventPublished(eventType string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	eventsPublished.WithLabelValues(eventType, result).Inc()
}

func IncEmailSent(notificationType string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	emailsSent.WithLabelValues(notificationType, result).Inc()
}

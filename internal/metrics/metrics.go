package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digierge",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by service type.",
		},
		[]string{"service_type"},
	)

	statusUpdated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digierge",
			Name:      "booking_status_updated_total",
			Help:      "Count of booking status updates by new status.",
		},
		[]string{"status"},
	)

	eventPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digierge",
			Name:      "event_published_total",
			Help:      "Count of events fanned out by event name.",
		},
		[]string{"event"},
	)

	eventDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "digierge",
			Name:      "event_dropped_total",
			Help:      "Count of events dropped for slow or dead connections.",
		},
	)

	connectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "digierge",
			Name:      "connected_clients",
			Help:      "Number of currently subscribed realtime clients.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, statusUpdated, eventPublished, eventDropped, connectedClients)
	})
}

func IncBookingCreated(serviceType string) {
	bookingCreated.WithLabelValues(serviceType).Inc()
}

func IncStatusUpdated(status string) {
	statusUpdated.WithLabelValues(status).Inc()
}

func IncEventPublished(event string) {
	eventPublished.WithLabelValues(event).Inc()
}

func IncEventDropped() {
	eventDropped.Inc()
}

func SetConnectedClients(n int) {
	connectedClients.Set(float64(n))
}

package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LocationUpdates counts location batches applied to the service
	LocationUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "geotrack",
			Name:      "location_updates_total",
			Help:      "Total number of location update batches applied",
		},
	)

	// NotificationCycles counts registry fan-out cycles triggered by state changes
	NotificationCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "geotrack",
			Name:      "notification_cycles_total",
			Help:      "Total number of observer notification cycles",
		},
	)

	// ProviderErrors counts delivery errors reported by the location provider
	ProviderErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "geotrack",
			Name:      "provider_errors_total",
			Help:      "Total number of provider delivery errors",
		},
	)

	// AuthRequests counts permission requests issued to the provider
	AuthRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geotrack",
			Name:      "authorization_requests_total",
			Help:      "Total number of authorization requests sent to the provider",
		},
		[]string{"tier"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		// Register metrics, ignoring errors if already registered
		// This prevents panics when metrics are already in the registry
		prometheus.DefaultRegisterer.Register(LocationUpdates)
		prometheus.DefaultRegisterer.Register(NotificationCycles)
		prometheus.DefaultRegisterer.Register(ProviderErrors)
		prometheus.DefaultRegisterer.Register(AuthRequests)
	})
}

package ports

import (
	"github.com/lcalzada-xor/geotrack/internal/core/domain"
)

// LocationProvider abstracts the platform subsystem that talks to the
// actual positioning hardware and the OS permission dialog. All request
// methods are fire-and-forget; results come back asynchronously through
// the ProviderHandler the service installs with SetHandler.
type LocationProvider interface {
	// AuthorizationStatus returns the current permission status as a
	// point-in-time query.
	AuthorizationStatus() domain.ProviderStatus

	// LastKnownLocation returns the most recent fix the provider holds,
	// if any. ok is false when no fix has ever been acquired.
	LastKnownLocation() (domain.Coordinate, bool)

	// RequestWhenInUseAuthorization asks the OS for foreground permission.
	RequestWhenInUseAuthorization()

	// RequestAlwaysAuthorization asks the OS for the elevated
	// background-capable permission tier.
	RequestAlwaysAuthorization()

	// RequestLocation asks for a single one-shot fix.
	RequestLocation()

	// StartUpdates and StopUpdates toggle continuous position delivery.
	StartUpdates()
	StopUpdates()

	// SetHandler installs the callback surface. The provider guarantees
	// serialized delivery: it never invokes two handler methods
	// concurrently.
	SetHandler(h ProviderHandler)
}

// ProviderHandler is the inbound callback surface a LocationProvider
// delivers events to.
type ProviderHandler interface {
	// LocationsUpdated delivers a batch of position updates, oldest first.
	LocationsUpdated(batch []domain.Coordinate)

	// UpdateFailed reports a delivery error. It carries no state change.
	UpdateFailed(err error)

	// AuthorizationChanged reports the provider-native permission status
	// after the user or the OS changed it.
	AuthorizationChanged(status domain.ProviderStatus)
}

// ErrorSink receives provider delivery errors for observability. Errors
// are reported here and otherwise swallowed; they never reach subscribers.
type ErrorSink interface {
	Report(err error)
}

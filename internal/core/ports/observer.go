package ports

import (
	"github.com/lcalzada-xor/geotrack/internal/core/domain"
)

// LocationReader is the read-only handle handed to observers on every
// notification. Observers re-read whatever state they care about from
// it; there is no diff payload.
type LocationReader interface {
	// CurrentCoordinate returns the latest known position. known is
	// false when no fix has been observed yet.
	CurrentCoordinate() (domain.Coordinate, bool)

	// CurrentAuthorization returns the normalized permission state.
	CurrentAuthorization() domain.AuthorizationState

	// IsDetermined reports whether a coordinate is currently known. A
	// prior fix stays known even if authorization is later revoked.
	IsDetermined() bool
}

// Observer is a subscriber interested in location and authorization
// changes. Implementations must be pointer types: the registry holds
// only a weak reference to them and resolves it at delivery time.
type Observer interface {
	// ObserverID is the deduplication key. Two observers with the same
	// ID occupy a single registry slot.
	ObserverID() string

	// Executor returns the execution context the observer wants its
	// callbacks scheduled on. Returning nil selects the default
	// (main) executor.
	Executor() Executor

	// OnLocationUpdated is invoked on the observer's executor after
	// every observable state change, and once immediately on subscribe.
	OnLocationUpdated(r LocationReader)
}

// Executor is a scheduling domain for observer callbacks. Submissions
// from one goroutine run in FIFO order; ordering across different
// executors is unspecified.
type Executor interface {
	Submit(fn func())
}

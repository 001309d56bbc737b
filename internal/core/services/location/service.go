package location

import (
	"log"
	"sync"
	"time"

	"github.com/lcalzada-xor/geotrack/internal/core/domain"
	"github.com/lcalzada-xor/geotrack/internal/core/ports"
	"github.com/lcalzada-xor/geotrack/internal/core/services/registry"
	"github.com/lcalzada-xor/geotrack/internal/telemetry"
)

// DefaultAuthRequestInterval bounds the automatic permission re-request
// loop. A non-authorized raw status still triggers a new request on
// every change, but never more than once per interval.
const DefaultAuthRequestInterval = 30 * time.Second

// Compile-time interface checks.
var (
	_ ports.ProviderHandler = (*Service)(nil)
	_ ports.LocationReader  = (*Service)(nil)
)

// Service owns the latest known coordinate and authorization state,
// mediates every provider event and fans out one registry notification
// per observable change. It is constructed once per process and runs
// until teardown.
type Service struct {
	provider ports.LocationProvider
	registry *registry.Registry
	sink     ports.ErrorSink

	mu        sync.Mutex
	coord     domain.Coordinate
	hasCoord  bool
	auth      domain.AuthorizationState
	rawStatus domain.ProviderStatus

	onAuthorized func()

	authInterval time.Duration
	lastAuthReq  time.Time
}

// Option configures a Service at construction.
type Option func(*Service)

// WithOnAuthorized installs a hook fired once on each edge into the
// authorized bucket.
func WithOnAuthorized(fn func()) Option {
	return func(s *Service) { s.onAuthorized = fn }
}

// WithErrorSink routes provider delivery errors to sink instead of the
// default log-based sink.
func WithErrorSink(sink ports.ErrorSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithAuthRequestInterval overrides the minimum spacing between
// automatic authorization requests. Zero disables the bound.
func WithAuthRequestInterval(d time.Duration) Option {
	return func(s *Service) { s.authInterval = d }
}

// New creates the service and installs it as the provider's handler. It
// reads the provider's current permission and last-known position
// synchronously; a missing fix is simply "no coordinate known yet".
func New(provider ports.LocationProvider, opts ...Option) *Service {
	s := &Service{
		provider:     provider,
		registry:     registry.New(),
		sink:         logSink{},
		auth:         domain.AuthorizationNotDetermined,
		authInterval: DefaultAuthRequestInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rawStatus = provider.AuthorizationStatus()
	if state, ok := domain.AuthorizationFromStatus(s.rawStatus); ok {
		s.auth = state
	}
	if c, ok := provider.LastKnownLocation(); ok {
		s.coord = c
		s.hasCoord = true
	}

	provider.SetHandler(s)
	return s
}

// CurrentCoordinate implements ports.LocationReader.
func (s *Service) CurrentCoordinate() (domain.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord, s.hasCoord
}

// CurrentAuthorization implements ports.LocationReader.
func (s *Service) CurrentAuthorization() domain.AuthorizationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// IsDetermined reports whether a coordinate is known. It is independent
// of authorization: a fix acquired earlier stays determined even after
// permission is revoked.
func (s *Service) IsDetermined() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasCoord
}

// RequestAuthorization asks the provider for foreground permission. It
// never blocks; the outcome arrives through AuthorizationChanged.
func (s *Service) RequestAuthorization() {
	telemetry.AuthRequests.WithLabelValues("when_in_use").Inc()
	s.provider.RequestWhenInUseAuthorization()
}

// RequestLocation asks the provider for a single one-shot fix.
func (s *Service) RequestLocation() {
	s.provider.RequestLocation()
}

// StartUpdatingLocation begins continuous updates. Starting also
// escalates to the "always" permission tier.
func (s *Service) StartUpdatingLocation() {
	telemetry.AuthRequests.WithLabelValues("always").Inc()
	s.provider.RequestAlwaysAuthorization()
	s.provider.StartUpdates()
}

// StopUpdatingLocation halts continuous updates.
func (s *Service) StopUpdatingLocation() {
	s.provider.StopUpdates()
}

// RemoveObserver unsubscribes the observer with the given identity.
func (s *Service) RemoveObserver(obs ports.Observer) {
	s.registry.Remove(obs.ObserverID())
}

// AddObserver subscribes obs to state changes, holding only a weak
// reference. Subscribing is idempotent per identity, but every call
// replays current state to the caller's instance immediately, so a
// fresh subscriber never waits for an external event. A free generic
// function for the same reason registry.Add is one.
func AddObserver[T any, P interface {
	*T
	ports.Observer
}](s *Service, obs P) {
	registry.Add(s.registry, obs)
	registry.Replay(obs, s)
}

// LocationsUpdated implements ports.ProviderHandler. The last element of
// the batch wins unconditionally; one notification cycle per batch.
func (s *Service) LocationsUpdated(batch []domain.Coordinate) {
	if len(batch) == 0 {
		return
	}
	s.mu.Lock()
	s.coord = batch[len(batch)-1]
	s.hasCoord = true
	s.mu.Unlock()

	telemetry.LocationUpdates.Inc()
	s.notify()
}

// UpdateFailed implements ports.ProviderHandler. Delivery errors are
// reported to the sink and swallowed: state stays last-known-good and
// subscribers are not disturbed.
func (s *Service) UpdateFailed(err error) {
	telemetry.ProviderErrors.Inc()
	s.sink.Report(err)
}

// AuthorizationChanged implements ports.ProviderHandler. It drives the
// authorization sub-machine: only actual raw-status changes transition;
// repeated identical callbacks are inert, and unrecognized statuses
// leave all state untouched.
func (s *Service) AuthorizationChanged(status domain.ProviderStatus) {
	s.mu.Lock()
	if status == s.rawStatus {
		s.mu.Unlock()
		return
	}
	wasAuthorized := s.rawStatus.IsAuthorized()
	s.rawStatus = status

	changed := false
	if state, ok := domain.AuthorizationFromStatus(status); ok {
		if state != s.auth {
			s.auth = state
			changed = true
		}
	} else {
		// Unknown provider status: keep existing state, no notification.
		s.mu.Unlock()
		return
	}

	hook := s.onAuthorized
	fireHook := status.IsAuthorized() && !wasAuthorized && hook != nil
	renag := !status.IsAuthorized() && s.allowAuthRequestLocked()
	s.mu.Unlock()

	if fireHook {
		hook()
	}
	if renag {
		// Nag policy: keep asking while the user has not granted
		// permission, bounded by the request interval.
		s.RequestAuthorization()
	}
	if changed {
		s.notify()
	}
}

// allowAuthRequestLocked applies the re-request rate bound. Caller holds
// s.mu.
func (s *Service) allowAuthRequestLocked() bool {
	if s.authInterval <= 0 {
		return true
	}
	now := time.Now()
	if !s.lastAuthReq.IsZero() && now.Sub(s.lastAuthReq) < s.authInterval {
		return false
	}
	s.lastAuthReq = now
	return true
}

// notify runs one registry fan-out cycle with the service itself as the
// payload. Observers re-read whatever they need from the reader.
func (s *Service) notify() {
	telemetry.NotificationCycles.Inc()
	s.registry.Notify(s)
}

// logSink is the default error sink.
type logSink struct{}

func (logSink) Report(err error) {
	log.Printf("location provider error: %v", err)
}

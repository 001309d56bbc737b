package provider

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/lcalzada-xor/geotrack/internal/core/domain"
	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

// walkStepDegrees is the maximum random-walk step per tick, roughly a
// city block at mid latitudes.
const walkStepDegrees = 0.0005

// Simulator implements ports.LocationProvider with a random walk around
// a starting point and a scripted permission flow. It stands in for the
// platform location manager in development and tests.
type Simulator struct {
	mu       sync.Mutex
	status   domain.ProviderStatus
	last     domain.Coordinate
	hasLast  bool
	handler  ports.ProviderHandler
	updating bool
	stopCh   chan struct{}

	grantDelay time.Duration
	denyAll    bool
	interval   time.Duration
	batchSize  int
	rng        *rand.Rand
}

// SimOption configures a Simulator.
type SimOption func(*Simulator)

// WithStartFix seeds a last-known position, e.g. one restored from the
// fix store.
func WithStartFix(c domain.Coordinate) SimOption {
	return func(s *Simulator) {
		s.last = c
		s.hasLast = true
	}
}

// WithStatus sets the initial permission status (default not determined).
func WithStatus(status domain.ProviderStatus) SimOption {
	return func(s *Simulator) { s.status = status }
}

// WithGrantDelay sets how long the simulated user takes to answer a
// permission dialog.
func WithGrantDelay(d time.Duration) SimOption {
	return func(s *Simulator) { s.grantDelay = d }
}

// WithDenyAll makes the simulated user deny every request.
func WithDenyAll() SimOption {
	return func(s *Simulator) { s.denyAll = true }
}

// WithUpdateInterval sets the tick between update batches.
func WithUpdateInterval(d time.Duration) SimOption {
	return func(s *Simulator) { s.interval = d }
}

// NewSimulator creates a simulator. Without options it starts at status
// not-determined, with no prior fix, ticking once per second.
func NewSimulator(opts ...SimOption) *Simulator {
	s := &Simulator{
		status:     domain.StatusNotDetermined,
		grantDelay: 200 * time.Millisecond,
		interval:   time.Second,
		batchSize:  3,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthorizationStatus implements ports.LocationProvider.
func (s *Simulator) AuthorizationStatus() domain.ProviderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastKnownLocation implements ports.LocationProvider.
func (s *Simulator) LastKnownLocation() (domain.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// SetHandler implements ports.LocationProvider.
func (s *Simulator) SetHandler(h ports.ProviderHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// RequestWhenInUseAuthorization simulates the OS permission dialog for
// the foreground tier.
func (s *Simulator) RequestWhenInUseAuthorization() {
	s.answerDialog(domain.StatusAuthorizedWhenInUse)
}

// RequestAlwaysAuthorization simulates the dialog for the elevated tier.
func (s *Simulator) RequestAlwaysAuthorization() {
	s.answerDialog(domain.StatusAuthorizedAlways)
}

// answerDialog resolves a permission request after the grant delay. A
// dialog only appears while the status is still undecided.
func (s *Simulator) answerDialog(grant domain.ProviderStatus) {
	s.mu.Lock()
	if s.status != domain.StatusNotDetermined {
		// The OS does not re-prompt a user who already answered.
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	decided := grant
	if s.denyAll {
		decided = domain.StatusDenied
	}

	time.AfterFunc(s.grantDelay, func() {
		s.SetStatus(decided)
	})
}

// SetStatus changes the permission status and fires the handler
// callback, the way the OS notifies a delegate after the user flips a
// toggle in settings. Exported so tests and scenarios can script it.
func (s *Simulator) SetStatus(status domain.ProviderStatus) {
	s.mu.Lock()
	s.status = status
	h := s.handler
	s.mu.Unlock()

	if h != nil {
		h.AuthorizationChanged(status)
	}
}

// RequestLocation delivers a single one-shot fix on the next tick.
func (s *Simulator) RequestLocation() {
	s.mu.Lock()
	h := s.handler
	authorized := s.status.IsAuthorized()
	s.mu.Unlock()

	if h == nil {
		return
	}
	if !authorized {
		h.UpdateFailed(errNotAuthorized)
		return
	}
	h.LocationsUpdated([]domain.Coordinate{s.step()})
}

// StartUpdates begins the random walk loop.
func (s *Simulator) StartUpdates() {
	s.mu.Lock()
	if s.updating {
		s.mu.Unlock()
		return
	}
	s.updating = true
	s.stopCh = make(chan struct{})
	stop := s.stopCh
	s.mu.Unlock()

	log.Println("simulator: starting continuous updates")
	go s.walk(stop)
}

// StopUpdates halts the loop.
func (s *Simulator) StopUpdates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.updating {
		return
	}
	s.updating = false
	close(s.stopCh)
	log.Println("simulator: stopped continuous updates")
}

func (s *Simulator) walk(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			h := s.handler
			authorized := s.status.IsAuthorized()
			s.mu.Unlock()

			if h == nil {
				continue
			}
			if !authorized {
				h.UpdateFailed(errNotAuthorized)
				continue
			}

			batch := make([]domain.Coordinate, 0, s.batchSize)
			for i := 0; i < s.batchSize; i++ {
				batch = append(batch, s.step())
			}
			h.LocationsUpdated(batch)
		}
	}
}

// step advances the walk by one random offset and records the new fix.
func (s *Simulator) step() domain.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.Coordinate{
		Latitude:  s.last.Latitude + (s.rng.Float64()*2-1)*walkStepDegrees,
		Longitude: s.last.Longitude + (s.rng.Float64()*2-1)*walkStepDegrees,
	}
	s.last = next
	s.hasLast = true
	return next
}

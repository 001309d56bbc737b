package lifecycle

import (
	"context"
	"log"
)

// Signal is an application lifecycle transition reported by the host.
type Signal int

const (
	// EnteredBackground means the application left the foreground.
	EnteredBackground Signal = iota
	// EnteringForeground means the application is about to resume.
	EnteringForeground
)

// UpdateToggler is the slice of the location service the adapter drives.
type UpdateToggler interface {
	StartUpdatingLocation()
	StopUpdatingLocation()
}

// Adapter translates foreground/background signals into start/stop calls
// on the location service. It carries no state of its own.
type Adapter struct {
	service UpdateToggler
}

// New creates an adapter driving service.
func New(service UpdateToggler) *Adapter {
	return &Adapter{service: service}
}

// HandleBackground stops continuous updates.
func (a *Adapter) HandleBackground() {
	log.Println("lifecycle: entered background, stopping location updates")
	a.service.StopUpdatingLocation()
}

// HandleForeground resumes continuous updates.
func (a *Adapter) HandleForeground() {
	log.Println("lifecycle: entering foreground, starting location updates")
	a.service.StartUpdatingLocation()
}

// Run consumes signals until ctx is cancelled or the channel closes.
func (a *Adapter) Run(ctx context.Context, signals <-chan Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			switch sig {
			case EnteredBackground:
				a.HandleBackground()
			case EnteringForeground:
				a.HandleForeground()
			}
		}
	}
}

package location

import (
	"github.com/google/uuid"

	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

// FuncObserver adapts a plain function to the Observer interface. Each
// instance gets a random identity, so two FuncObservers never collide in
// the registry. The caller keeps the returned pointer alive for as long
// as it wants notifications; dropping it unsubscribes implicitly.
type FuncObserver struct {
	id   string
	exec ports.Executor
	fn   func(ports.LocationReader)
}

// NewFuncObserver wraps fn as an observer on the default executor.
func NewFuncObserver(fn func(ports.LocationReader)) *FuncObserver {
	return &FuncObserver{
		id: "func-" + uuid.NewString(),
		fn: fn,
	}
}

// On sets the executor the callback runs on and returns the observer.
func (o *FuncObserver) On(exec ports.Executor) *FuncObserver {
	o.exec = exec
	return o
}

func (o *FuncObserver) ObserverID() string { return o.id }

func (o *FuncObserver) Executor() ports.Executor { return o.exec }

func (o *FuncObserver) OnLocationUpdated(r ports.LocationReader) { o.fn(r) }

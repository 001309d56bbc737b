package registry

import (
	"sync"
	"weak"

	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

// entry is a non-owning slot for one subscriber. resolve returns the
// observer while it is still strongly held somewhere else, nil once the
// garbage collector has reclaimed it.
type entry struct {
	id      string
	exec    ports.Executor
	resolve func() ports.Observer
}

// Registry holds weak-referenced observers, deduplicated by identity,
// and fans notifications out on each observer's own executor. Structural
// operations and notify iteration are serialized by a single mutex; none
// of them can fail, a dead or missing observer is silently a no-op.
type Registry struct {
	mu      sync.Mutex
	entries []entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add registers obs without extending its lifetime. It is a free generic
// function because building a weak reference needs the caller's concrete
// pointer type, which the Observer interface erases.
//
// Adding an observer whose identity is already live is a structural
// no-op; the return value reports whether an entry was inserted. A prune
// pass runs either way.
func Add[T any, P interface {
	*T
	ports.Observer
}](r *Registry, obs P) bool {
	id := obs.ObserverID()
	exec := obs.Executor()
	if exec == nil {
		exec = Main()
	}
	wp := weak.Make((*T)(obs))
	resolve := func() ports.Observer {
		if p := wp.Value(); p != nil {
			return P(p)
		}
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.pruneLocked()

	for _, e := range r.entries {
		if e.id == id && e.resolve() != nil {
			return false
		}
	}
	r.entries = append(r.entries, entry{id: id, exec: exec, resolve: resolve})
	return true
}

// Remove drops every entry matching the observer's identity, then prunes.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	r.pruneLocked()
}

// Notify schedules OnLocationUpdated(reader) for every entry, in
// insertion order, on that entry's executor. It does not wait for any
// handler to run. The weak reference is resolved at delivery time, so a
// notification in flight to an observer collected meanwhile delivers
// nothing.
func (r *Registry) Notify(reader ports.LocationReader) {
	r.mu.Lock()
	snapshot := make([]entry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.Unlock()

	for _, e := range snapshot {
		resolve := e.resolve
		e.exec.Submit(func() {
			if obs := resolve(); obs != nil {
				obs.OnLocationUpdated(reader)
			}
		})
	}
}

// Replay schedules one immediate notification to obs on its executor,
// outside the normal fan-out. A fresh subscriber gets current state this
// way without waiting for the next provider event. The strong reference
// is held only until the callback has run.
func Replay(obs ports.Observer, reader ports.LocationReader) {
	exec := obs.Executor()
	if exec == nil {
		exec = Main()
	}
	exec.Submit(func() {
		obs.OnLocationUpdated(reader)
	})
}

// Len returns the number of entries physically present, dead ones
// included. Intended for diagnostics and tests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// pruneLocked removes entries whose referent has been collected. Caller
// holds r.mu.
func (r *Registry) pruneLocked() {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.resolve() != nil {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

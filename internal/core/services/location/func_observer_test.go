package location

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcalzada-xor/geotrack/internal/core/domain"
	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

func TestFuncObserver(t *testing.T) {
	svc := New(&fakeProvider{
		status: domain.StatusAuthorizedWhenInUse,
		last:   &domain.Coordinate{Latitude: 5.0, Longitude: 6.0},
	})

	var seen []domain.Coordinate
	obs := NewFuncObserver(func(r ports.LocationReader) {
		if c, ok := r.CurrentCoordinate(); ok {
			seen = append(seen, c)
		}
	}).On(inlineExecutor{})

	AddObserver(svc, obs)
	assert.Equal(t, []domain.Coordinate{{Latitude: 5.0, Longitude: 6.0}}, seen, "replay reaches the wrapped function")

	svc.LocationsUpdated([]domain.Coordinate{{Latitude: 7.0, Longitude: 8.0}})
	assert.Len(t, seen, 2)

	runtime.KeepAlive(obs)
}

func TestFuncObserver_DistinctIdentities(t *testing.T) {
	a := NewFuncObserver(func(ports.LocationReader) {})
	b := NewFuncObserver(func(ports.LocationReader) {})
	assert.NotEqual(t, a.ObserverID(), b.ObserverID())
}

package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/geotrack/internal/core/domain"
)

// fakeController stands in for the location service.
type fakeController struct {
	coord      domain.Coordinate
	known      bool
	auth       domain.AuthorizationState
	authReqs   int
	oneShots   int
	updating   bool
	stopCalled int
}

func (f *fakeController) CurrentCoordinate() (domain.Coordinate, bool) { return f.coord, f.known }
func (f *fakeController) CurrentAuthorization() domain.AuthorizationState {
	return f.auth
}
func (f *fakeController) IsDetermined() bool { return f.known }
func (f *fakeController) RequestAuthorization() { f.authReqs++ }
func (f *fakeController) RequestLocation() { f.oneShots++ }
func (f *fakeController) StartUpdatingLocation() { f.updating = true }
func (f *fakeController) StopUpdatingLocation() { f.stopCalled++ }

func newTestServer(ctrl *fakeController) http.Handler {
	return SetupRoutes(NewServer(":0", ctrl))
}

func TestHandleGetLocation(t *testing.T) {
	ctrl := &fakeController{
		coord: domain.Coordinate{Latitude: 40.4168, Longitude: -3.7038},
		known: true,
		auth:  domain.AuthorizationAuthorized,
	}
	handler := newTestServer(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/location", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	require.NotNil(t, snap.Coordinate)
	assert.Equal(t, 40.4168, snap.Coordinate.Latitude)
	assert.Equal(t, domain.AuthorizationAuthorized, snap.Authorization)
	assert.True(t, snap.Determined)
}

func TestHandleGetLocation_NoFix(t *testing.T) {
	ctrl := &fakeController{auth: domain.AuthorizationNotDetermined}
	handler := newTestServer(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/location", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Nil(t, snap.Coordinate)
	assert.False(t, snap.Determined)
}

func TestControlEndpoints(t *testing.T) {
	ctrl := &fakeController{}
	handler := newTestServer(ctrl)

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusAccepted, do("/api/authorization/request"))
	assert.Equal(t, 1, ctrl.authReqs)

	assert.Equal(t, http.StatusAccepted, do("/api/location/request"))
	assert.Equal(t, 1, ctrl.oneShots)

	assert.Equal(t, http.StatusAccepted, do("/api/updates/start"))
	assert.True(t, ctrl.updating)

	assert.Equal(t, http.StatusAccepted, do("/api/updates/stop"))
	assert.Equal(t, 1, ctrl.stopCalled)
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestServer(&fakeController{})

	req := httptest.NewRequest(http.MethodGet, "/api/updates/start", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lcalzada-xor/geotrack/internal/core/domain"
	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

// LocationController is the slice of the location service the HTTP
// surface exposes.
type LocationController interface {
	ports.LocationReader
	RequestAuthorization()
	RequestLocation()
	StartUpdatingLocation()
	StopUpdatingLocation()
}

// Snapshot is the JSON body returned for state queries and pushed over
// websockets.
type Snapshot struct {
	Coordinate    *domain.Coordinate        `json:"coordinate,omitempty"`
	Authorization domain.AuthorizationState `json:"authorization"`
	Determined    bool                      `json:"determined"`
}

func snapshotFrom(r ports.LocationReader) Snapshot {
	snap := Snapshot{
		Authorization: r.CurrentAuthorization(),
		Determined:    r.IsDetermined(),
	}
	if c, ok := r.CurrentCoordinate(); ok {
		snap.Coordinate = &c
	}
	return snap
}

// Server exposes the location service over HTTP and WebSocket.
type Server struct {
	Addr      string
	Service   LocationController
	WSManager *WSManager
	srv       *http.Server
}

// NewServer creates a web server for the given service.
func NewServer(addr string, service LocationController) *Server {
	return &Server{
		Addr:      addr,
		Service:   service,
		WSManager: NewWSManager(),
	}
}

// SetupRoutes builds the router. Split out so tests can exercise the
// handler chain without a listening socket.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/location", s.handleGetLocation).Methods(http.MethodGet)
	r.HandleFunc("/api/location/request", s.handleRequestLocation).Methods(http.MethodPost)
	r.HandleFunc("/api/authorization/request", s.handleRequestAuthorization).Methods(http.MethodPost)
	r.HandleFunc("/api/updates/start", s.handleStartUpdates).Methods(http.MethodPost)
	r.HandleFunc("/api/updates/stop", s.handleStopUpdates).Methods(http.MethodPost)

	r.HandleFunc("/ws", s.WSManager.HandleWebSocket)

	r.Handle("/metrics", promhttp.Handler())

	return otelhttp.NewHandler(r, "geotrack-http")
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:         s.Addr,
		Handler:      SetupRoutes(s),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("web: listening on %s", s.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("web: server error: %v", err)
		}
	}()
}

// Shutdown stops the server and drops websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.WSManager.CloseAll()
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshotFrom(s.Service))
}

func (s *Server) handleRequestLocation(w http.ResponseWriter, r *http.Request) {
	s.Service.RequestLocation()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleRequestAuthorization(w http.ResponseWriter, r *http.Request) {
	s.Service.RequestAuthorization()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleStartUpdates(w http.ResponseWriter, r *http.Request) {
	s.Service.StartUpdatingLocation()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleStopUpdates(w http.ResponseWriter, r *http.Request) {
	s.Service.StopUpdatingLocation()
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

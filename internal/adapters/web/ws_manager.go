package web

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin only; no cross-origin clients.
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

// WSMessage is the frame pushed to every connected client.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSManager bridges the observer API to websocket clients: it subscribes
// to the location service as a single observer and rebroadcasts every
// notification to all connections.
type WSManager struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string
}

// NewWSManager creates a manager with no clients.
func NewWSManager() *WSManager {
	return &WSManager{
		clients: make(map[*websocket.Conn]string),
	}
}

// ObserverID implements ports.Observer.
func (m *WSManager) ObserverID() string { return "ws-manager" }

// Executor implements ports.Observer; broadcasts run on the default
// executor.
func (m *WSManager) Executor() ports.Executor { return nil }

// OnLocationUpdated implements ports.Observer by fanning the snapshot
// out to every connected client.
func (m *WSManager) OnLocationUpdated(r ports.LocationReader) {
	m.broadcast(WSMessage{
		Type:    "location_update",
		Payload: snapshotFrom(r),
	})
}

// HandleWebSocket upgrades the connection and keeps it until the client
// goes away. Inbound frames are drained and ignored.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket: upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.clients[conn] = id
	m.mu.Unlock()
	log.Printf("websocket: client %s connected", id)

	go func() {
		defer m.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (m *WSManager) broadcast(msg WSMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn, id := range m.clients {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("websocket: client %s write failed, dropping: %v", id, err)
			conn.Close()
			delete(m.clients, conn)
		}
	}
}

func (m *WSManager) drop(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.clients[conn]; ok {
		log.Printf("websocket: client %s disconnected", id)
		conn.Close()
		delete(m.clients, conn)
	}
}

// CloseAll disconnects every client, used on shutdown.
func (m *WSManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.Close()
		delete(m.clients, conn)
	}
}

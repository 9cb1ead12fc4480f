package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/reframe/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// TrackStateHandler broadcasts the live tracking state via WebSocket so
// preview overlays can draw the crop box and activity centroid.
type TrackStateHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewTrackStateHandler creates a new TrackStateHandler over the given app.
func NewTrackStateHandler(a *app.App) *TrackStateHandler {
	h := &TrackStateHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *TrackStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection open by reading (and discarding) messages
	// until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcast pushes tracking snapshots to all connected clients at a
// fixed rate.
func (h *TrackStateHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 Hz
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}

		status := h.app.Status()
		for conn := range h.clients {
			if err := conn.WriteJSON(status); err != nil {
				log.Printf("websocket write error: %v", err)
			}
		}
		h.mu.RUnlock()
	}
}

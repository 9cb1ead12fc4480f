// Package server provides the HTTP control surface for the reframe
// tracking engine.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/reframe/internal/app"
	"github.com/ayusman/reframe/internal/server/api"
	"github.com/ayusman/reframe/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the reframe application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register preset and session API handlers if Store is configured
	if s.config.Store != nil {
		presetsHandler := api.NewPresetsHandler(s.config.Store)
		if s.config.App != nil {
			presetsHandler.OnApply(s.config.App.SetTuning)
		}
		s.mux.Handle("/api/presets", presetsHandler)
		s.mux.Handle("/api/presets/", presetsHandler)

		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)
	}

	// Register tracking and capture endpoints if App is configured
	if s.config.App != nil {
		s.mux.HandleFunc("/api/capture/start", s.handleCaptureStart)
		s.mux.HandleFunc("/api/capture/stop", s.handleCaptureStop)
		s.mux.HandleFunc("/api/track", s.handleTrack)
		s.mux.HandleFunc("/api/track/mode", s.handleTrackMode)
		s.mux.HandleFunc("/api/track/target", s.handleTrackTarget)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))
		s.mux.Handle("/api/track/ws", NewTrackStateHandler(s.config.App))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

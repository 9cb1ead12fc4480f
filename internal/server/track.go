package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/reframe/internal/app"
	"github.com/ayusman/reframe/internal/track"
)

type setModeRequest struct {
	Mode string `json:"mode"`
}

type setTargetRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handleCaptureStart handles POST requests to /api/capture/start.
func (s *Server) handleCaptureStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.App.Start(); err != nil {
		http.Error(w, "Failed to start capture: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, s.config.App.Status())
}

// handleCaptureStop handles POST requests to /api/capture/stop.
func (s *Server) handleCaptureStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.App.Stop()
	writeJSON(w, http.StatusOK, s.config.App.Status())
}

// handleTrack handles GET requests to /api/track, returning the current
// tracking snapshot for preview overlays.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.config.App.Status())
}

// handleTrackMode handles PUT requests to /api/track/mode.
func (s *Server) handleTrackMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mode, err := track.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.config.App.SetMode(mode)
	writeJSON(w, http.StatusOK, s.config.App.Status())
}

// handleTrackTarget handles PUT requests to /api/track/target: the
// manual position setter used by a pointer-drag interface. Rejected
// while auto-tracking, where the detector owns the target.
func (s *Server) handleTrackTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.config.App.Mode() == track.ModeAutoTrack {
		http.Error(w, "Target is detector-driven while auto-tracking", http.StatusConflict)
		return
	}

	var req setTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.config.App.SetTarget(track.Position{X: req.X, Y: req.Y}); err != nil {
		if errors.Is(err, app.ErrNotRunning) {
			http.Error(w, "No capture session running", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, s.config.App.Status())
}

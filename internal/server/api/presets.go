// Package api provides HTTP API handlers for reframe resources.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/reframe/internal/store"
	"github.com/ayusman/reframe/internal/track"
)

// PresetsHandler handles HTTP requests for tuning preset resources.
type PresetsHandler struct {
	store   *store.Store
	applyFn func(track.Tuning)
}

// NewPresetsHandler creates a new PresetsHandler with the given store.
func NewPresetsHandler(s *store.Store) *PresetsHandler {
	return &PresetsHandler{store: s}
}

// OnApply registers the callback invoked with a preset's tuning when the
// preset is applied.
func (h *PresetsHandler) OnApply(fn func(track.Tuning)) {
	h.applyFn = fn
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PresetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/presets, /api/presets/{id}, /api/presets/{id}/apply
	path := strings.TrimPrefix(r.URL.Path, "/api/presets")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/apply"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.apply(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type presetRequest struct {
	Name            string  `json:"name"`
	MotionThreshold int     `json:"motion_threshold"`
	SceneRatio      float64 `json:"scene_ratio"`
	MotionFloor     float64 `json:"motion_floor"`
	JitterPx        float64 `json:"jitter_px"`
	EdgeBufferPx    float64 `json:"edge_buffer_px"`
	EdgeDwellMs     int     `json:"edge_dwell_ms"`
	Smoothing       float64 `json:"smoothing"`
}

type presetResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MotionThreshold int     `json:"motion_threshold"`
	SceneRatio      float64 `json:"scene_ratio"`
	MotionFloor     float64 `json:"motion_floor"`
	JitterPx        float64 `json:"jitter_px"`
	EdgeBufferPx    float64 `json:"edge_buffer_px"`
	EdgeDwellMs     int     `json:"edge_dwell_ms"`
	Smoothing       float64 `json:"smoothing"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toPresetResponse(p *store.Preset) presetResponse {
	return presetResponse{
		ID:              p.ID,
		Name:            p.Name,
		MotionThreshold: p.MotionThreshold,
		SceneRatio:      p.SceneRatio,
		MotionFloor:     p.MotionFloor,
		JitterPx:        p.JitterPx,
		EdgeBufferPx:    p.EdgeBufferPx,
		EdgeDwellMs:     p.EdgeDwellMs,
		Smoothing:       p.Smoothing,
		CreatedAt:       p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// applyRequest copies the request fields onto the preset, keeping
// defaults for fields the request leaves at zero.
func applyRequest(p *store.Preset, req *presetRequest) {
	p.Name = req.Name
	if req.MotionThreshold > 0 {
		p.MotionThreshold = req.MotionThreshold
	}
	if req.SceneRatio > 0 {
		p.SceneRatio = req.SceneRatio
	}
	if req.MotionFloor > 0 {
		p.MotionFloor = req.MotionFloor
	}
	if req.JitterPx > 0 {
		p.JitterPx = req.JitterPx
	}
	if req.EdgeBufferPx > 0 {
		p.EdgeBufferPx = req.EdgeBufferPx
	}
	if req.EdgeDwellMs > 0 {
		p.EdgeDwellMs = req.EdgeDwellMs
	}
	if req.Smoothing > 0 {
		p.Smoothing = req.Smoothing
	}
}

// list handles GET /api/presets.
func (h *PresetsHandler) list(w http.ResponseWriter, r *http.Request) {
	presets, err := h.store.Presets().List()
	if err != nil {
		http.Error(w, "Failed to list presets", http.StatusInternalServerError)
		return
	}

	responses := make([]presetResponse, 0, len(presets))
	for _, p := range presets {
		responses = append(responses, toPresetResponse(p))
	}

	writeJSON(w, http.StatusOK, responses)
}

// create handles POST /api/presets.
func (h *PresetsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	// Start from defaults so partial requests stay usable.
	p := store.PresetFromTuning(req.Name, track.DefaultTuning())
	p.ID = uuid.New().String()
	applyRequest(p, &req)

	if err := h.store.Presets().Create(p); err != nil {
		http.Error(w, "Failed to create preset", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toPresetResponse(p))
}

// get handles GET /api/presets/{id}.
func (h *PresetsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Preset not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get preset", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toPresetResponse(p))
}

// update handles PUT /api/presets/{id}.
func (h *PresetsHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Preset not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get preset", http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	req.Name = p.Name
	applyRequest(p, &req)

	if err := h.store.Presets().Update(p); err != nil {
		http.Error(w, "Failed to update preset", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toPresetResponse(p))
}

// apply handles POST /api/presets/{id}/apply: hands the preset's tuning
// to the registered callback, taking effect at the next capture session.
func (h *PresetsHandler) apply(w http.ResponseWriter, r *http.Request, id string) {
	if h.applyFn == nil {
		http.Error(w, "No tracking engine to apply to", http.StatusNotImplemented)
		return
	}

	p, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Preset not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get preset", http.StatusInternalServerError)
		return
	}

	h.applyFn(p.Tuning())
	writeJSON(w, http.StatusOK, toPresetResponse(p))
}

// delete handles DELETE /api/presets/{id}.
func (h *PresetsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Presets().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Preset not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete preset", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

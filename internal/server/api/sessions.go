package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/reframe/internal/store"
)

// SessionsHandler handles read-only HTTP requests for session records.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected paths: /api/sessions or /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

type sessionResponse struct {
	ID           string `json:"id"`
	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	CropWidth    int    `json:"crop_width"`
	CropHeight   int    `json:"crop_height"`
	Mode         string `json:"mode"`
	StartedAt    string `json:"started_at"`
	StoppedAt    string `json:"stopped_at,omitempty"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:           s.ID,
		SourceWidth:  s.SourceWidth,
		SourceHeight: s.SourceHeight,
		CropWidth:    s.CropWidth,
		CropHeight:   s.CropHeight,
		Mode:         s.Mode,
		StartedAt:    s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.StoppedAt != nil {
		resp.StoppedAt = s.StoppedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// list handles GET /api/sessions.
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	responses := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, responses)
}

// get handles GET /api/sessions/{id}.
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/reframe/internal/store"
	"github.com/ayusman/reframe/internal/track"
)

func newTestHandler(t *testing.T) *PresetsHandler {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return NewPresetsHandler(s)
}

func createPreset(t *testing.T, h *PresetsHandler, body string) presetResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/presets", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp presetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func TestPresetsHandler_CreateUsesDefaults(t *testing.T) {
	h := newTestHandler(t)

	resp := createPreset(t, h, `{"name": "screencast"}`)

	if resp.ID == "" {
		t.Error("created preset has no ID")
	}
	if resp.MotionThreshold != 15 || resp.JitterPx != 5 || resp.EdgeDwellMs != 3000 {
		t.Errorf("defaults not applied: %+v", resp)
	}
	if resp.Smoothing != 0.25 {
		t.Errorf("smoothing = %v, want 0.25", resp.Smoothing)
	}
}

func TestPresetsHandler_CreateRequiresName(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/presets", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestPresetsHandler_GetAndList(t *testing.T) {
	h := newTestHandler(t)

	created := createPreset(t, h, `{"name": "demo", "jitter_px": 10}`)

	req := httptest.NewRequest(http.MethodGet, "/api/presets/"+created.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var got presetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if got.JitterPx != 10 {
		t.Errorf("jitter_px = %v, want 10", got.JitterPx)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/presets", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var list []presetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list returned %d presets, want 1", len(list))
	}
}

func TestPresetsHandler_GetMissing(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/presets/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPresetsHandler_Update(t *testing.T) {
	h := newTestHandler(t)

	created := createPreset(t, h, `{"name": "demo"}`)

	req := httptest.NewRequest(http.MethodPut, "/api/presets/"+created.ID,
		strings.NewReader(`{"smoothing": 0.5, "edge_dwell_ms": 1500}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got presetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if got.Smoothing != 0.5 || got.EdgeDwellMs != 1500 {
		t.Errorf("updated preset = %+v", got)
	}
	if got.Name != "demo" {
		t.Errorf("name = %q, want unchanged \"demo\"", got.Name)
	}
}

func TestPresetsHandler_Delete(t *testing.T) {
	h := newTestHandler(t)

	created := createPreset(t, h, `{"name": "demo"}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/presets/"+created.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/presets/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPresetsHandler_Apply(t *testing.T) {
	h := newTestHandler(t)

	var applied track.Tuning
	h.OnApply(func(tn track.Tuning) { applied = tn })

	created := createPreset(t, h, `{"name": "demo", "jitter_px": 12, "smoothing": 0.5}`)

	req := httptest.NewRequest(http.MethodPost, "/api/presets/"+created.ID+"/apply", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("apply status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if applied.JitterPx != 12 {
		t.Errorf("applied jitter_px = %v, want 12", applied.JitterPx)
	}
	if applied.AutoAlpha != 0.5 {
		t.Errorf("applied smoothing = %v, want 0.5", applied.AutoAlpha)
	}
}

func TestPresetsHandler_ApplyWithoutCallback(t *testing.T) {
	h := newTestHandler(t)

	created := createPreset(t, h, `{"name": "demo"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/presets/"+created.ID+"/apply", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotImplemented)
	}
}

func TestPresetsHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/presets", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

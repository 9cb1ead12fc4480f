package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/reframe/internal/app"
	"github.com/ayusman/reframe/internal/capture"
	"github.com/ayusman/reframe/internal/store"
	"github.com/ayusman/reframe/internal/track"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	a := app.New(app.Config{
		Store:  s,
		Source: capture.NewMockSource(nil, false),
	})

	return New(Config{Store: s, App: a})
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestServer_TrackStatus(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/track", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var status app.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode track response: %v", err)
	}
	if status.Running {
		t.Error("reported running without a session")
	}
	if status.Mode != "auto" {
		t.Errorf("mode = %q, want auto", status.Mode)
	}
}

func TestServer_SetMode(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMode string
	}{
		{"manual", `{"mode": "manual"}`, http.StatusOK, "manual"},
		{"smooth follow", `{"mode": "smooth-follow"}`, http.StatusOK, "smooth-follow"},
		{"auto", `{"mode": "auto"}`, http.StatusOK, "auto"},
		{"unknown mode", `{"mode": "chase"}`, http.StatusBadRequest, ""},
		{"bad body", `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/track/mode", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantMode == "" {
				return
			}

			var status app.Status
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if status.Mode != tt.wantMode {
				t.Errorf("mode = %q, want %q", status.Mode, tt.wantMode)
			}
		})
	}
}

func TestServer_SetTargetRejectedWhileAuto(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/track/target", strings.NewReader(`{"x": 100, "y": 0}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestServer_SetTargetRequiresSession(t *testing.T) {
	srv := newTestServer(t)
	srv.config.App.SetMode(track.ModeManual)

	req := httptest.NewRequest(http.MethodPut, "/api/track/target", strings.NewReader(`{"x": 100, "y": 0}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestServer_PresetRoutesRegistered(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/presets", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("presets status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("sessions status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	paths := map[string]string{
		"/api/health":        http.MethodPost,
		"/api/track":         http.MethodPost,
		"/api/track/mode":    http.MethodGet,
		"/api/track/target":  http.MethodGet,
		"/api/capture/start": http.MethodGet,
	}

	for path, method := range paths {
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s status = %d, want %d", method, path, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}

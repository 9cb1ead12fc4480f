package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"github.com/ayusman/reframe/internal/track"
)

func testPreset() *Preset {
	p := PresetFromTuning("default", track.DefaultTuning())
	p.ID = uuid.New().String()
	return p
}

func TestPresetRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	p := testPreset()
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if diff := cmp.Diff(p, got, cmpopts.IgnoreFields(Preset{}, "CreatedAt", "UpdatedAt")); diff != "" {
		t.Errorf("preset mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Presets().GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPresetRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	names := []string{"responsive", "cinematic", "default"}
	for _, name := range names {
		p := PresetFromTuning(name, track.DefaultTuning())
		p.ID = uuid.New().String()
		if err := repo.Create(p); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	presets, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(presets) != 3 {
		t.Fatalf("List() returned %d presets, want 3", len(presets))
	}

	// Ordered by name.
	if presets[0].Name != "cinematic" || presets[2].Name != "responsive" {
		t.Errorf("List() order = [%s %s %s]", presets[0].Name, presets[1].Name, presets[2].Name)
	}
}

func TestPresetRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	p := testPreset()
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p.JitterPx = 12
	p.Smoothing = 0.5
	if err := repo.Update(p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.JitterPx != 12 || got.Smoothing != 0.5 {
		t.Errorf("updated preset = %+v", got)
	}
}

func TestPresetRepository_UpdateMissing(t *testing.T) {
	s := newTestStore(t)

	p := testPreset()
	if err := s.Presets().Update(p); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPresetRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	p := testPreset()
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestPreset_TuningRoundTrip(t *testing.T) {
	tn := track.DefaultTuning()
	tn.JitterPx = 8
	tn.EdgeDwell = 1500 * time.Millisecond

	p := PresetFromTuning("custom", tn)
	got := p.Tuning()

	if diff := cmp.Diff(tn, got); diff != "" {
		t.Errorf("tuning round trip mismatch (-want +got):\n%s", diff)
	}
}

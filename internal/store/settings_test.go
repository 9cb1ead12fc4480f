package store

import (
	"errors"
	"testing"
)

func TestSettings_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Settings().Get("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSettings_SetAndGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().Set(SettingMode, "manual"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Settings().Get(SettingMode)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "manual" {
		t.Errorf("Get() = %q, want manual", got)
	}
}

func TestSettings_SetReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().Set(SettingMode, "manual"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Settings().Set(SettingMode, "auto"); err != nil {
		t.Fatalf("Set() replace error = %v", err)
	}

	got, err := s.Settings().Get(SettingMode)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "auto" {
		t.Errorf("Get() = %q, want auto", got)
	}
}

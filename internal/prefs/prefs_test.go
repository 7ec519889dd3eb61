package prefs

import "testing"

func TestThemeDefaultsToLight(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if got := s.Theme(); got != ThemeLight {
		t.Fatalf("Theme() = %q; want light", got)
	}
}

func TestThemePersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := s.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if got := reopened.Theme(); got != ThemeDark {
		t.Fatalf("Theme() = %q; want dark", got)
	}
}

func TestToggleAndValidation(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	got, err := s.Toggle()
	if err != nil || got != ThemeDark {
		t.Fatalf("Toggle() = (%q, %v); want dark", got, err)
	}
	got, err = s.Toggle()
	if err != nil || got != ThemeLight {
		t.Fatalf("Toggle() = (%q, %v); want light", got, err)
	}
	if err := s.SetTheme("sepia"); err == nil {
		t.Fatal("SetTheme(sepia) = nil error")
	}
}

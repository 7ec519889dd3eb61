// Package prefs persists client preferences (currently only the theme) across sessions.
package prefs

import (
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

const (
	keyTheme = "theme"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is a small key/value store backed by diskv.
type Store struct {
	d *diskv.Diskv
}

// NewStore opens (or creates) the preference store at basePath.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("prefs: mkdir %s: %w", basePath, err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 64 * 1024,
	})}, nil
}

// Theme returns the stored theme, or "light" when none was saved.
func (s *Store) Theme() string {
	v, err := s.d.Read(keyTheme)
	if err != nil || len(v) == 0 {
		return ThemeLight
	}
	return string(v)
}

// SetTheme stores theme. Only "light" and "dark" are accepted.
func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("prefs: unknown theme %q", theme)
	}
	if err := s.d.Write(keyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("prefs: write theme: %w", err)
	}
	return nil
}

// Toggle flips between light and dark and returns the new theme.
func (s *Store) Toggle() (string, error) {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}

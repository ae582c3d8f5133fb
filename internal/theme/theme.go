// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme stores the light/dark preference and applies it.
package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/signal"
)

// Theme is the color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ErrInvalidTheme is returned for anything other than light or dark.
var ErrInvalidTheme = errors.New("invalid theme")

// Parse converts a stored or user-supplied value.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("%w: %q (expected light or dark)", ErrInvalidTheme, s)
}

// Valid reports whether t is light or dark.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Label returns the French label shown by the toggle.
func (t Theme) Label() string {
	if t == Dark {
		return "Mode sombre"
	}
	return "Mode clair"
}

// Applier makes a theme visible.
type Applier interface {
	Apply(Theme)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(Theme)

// Apply calls f(t).
func (f ApplierFunc) Apply(t Theme) { f(t) }

// =============================================================================
// STORE
// =============================================================================

// Store is the single source of truth for the current theme.
type Store struct {
	kv      *kv.Store
	applier Applier
	theme   *signal.Signal[Theme]
}

// NewStore loads the stored theme, falling back to prefersDark when it is
// missing or invalid. The initial theme is applied and persisted.
func NewStore(store *kv.Store, prefersDark func() bool, applier Applier) *Store {
	initial := Light
	if raw, ok := store.GetString(kv.KeyTheme); ok {
		if t, err := Parse(raw); err == nil {
			initial = t
		} else if prefersDark != nil && prefersDark() {
			initial = Dark
		}
	} else if prefersDark != nil && prefersDark() {
		initial = Dark
	}

	s := &Store{
		kv:      store,
		applier: applier,
		theme:   signal.New(initial),
	}
	s.theme.Subscribe(s.commit)
	s.commit(initial)
	return s
}

// commit persists and applies t.
func (s *Store) commit(t Theme) {
	s.kv.SetString(kv.KeyTheme, string(t))
	if s.applier != nil {
		s.applier.Apply(t)
	}
}

// Signal returns the reactive theme value.
func (s *Store) Signal() signal.Readable[Theme] {
	return s.theme
}

// Current returns the active theme.
func (s *Store) Current() Theme {
	return s.theme.Get()
}

// IsDark reports whether the dark theme is active.
func (s *Store) IsDark() bool {
	return s.theme.Get() == Dark
}

// Toggle switches between light and dark and returns the new theme.
func (s *Store) Toggle() Theme {
	next := s.theme.Get().Opposite()
	s.theme.Set(next)
	return next
}

// Set switches to t.
func (s *Store) Set(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, string(t))
	}
	s.theme.Set(t)
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package prefs stores visitor display preferences.
package prefs

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/danielhkuo/crocante/storage"
)

const ThemeKey = "theme"

const (
	Light = "light"
	Dark  = "dark"
)

type Theme struct {
	mu      sync.Mutex
	store   storage.Store
	current string
}

// LoadTheme reads the saved theme, falling back to the system preference
func LoadTheme(store storage.Store, prefersDark bool) *Theme {
	t := &Theme{store: store, current: Light}
	if prefersDark {
		t.current = Dark
	}

	raw, ok, err := store.Get(ThemeKey)
	if err != nil {
		slog.Error("failed to load theme", "error", err)
		return t
	}
	if ok {
		switch string(raw) {
		case Dark:
			t.current = Dark
		case Light:
			t.current = Light
		}
	}
	return t
}

func (t *Theme) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Toggle flips between light and dark and saves the choice
func (t *Theme) Toggle() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := Dark
	if t.current == Dark {
		next = Light
	}
	if err := t.store.Set(ThemeKey, []byte(next)); err != nil {
		return t.current, fmt.Errorf("failed to save theme: %w", err)
	}
	t.current = next
	return next, nil
}

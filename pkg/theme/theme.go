// Package theme manages the light/dark dashboard preference.
//
// The preference is read from a storage.Store once at startup and written
// back on every toggle. It is presentation state only and does not affect
// the dataset or the models.
package theme

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HatiCode/wastepredict/pkg/storage"
)

// Theme is a dashboard color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StoreKey is the preference key the theme is persisted under.
const StoreKey = "theme"

// Parse accepts "light" or "dark".
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("invalid theme %q (must be light or dark)", s)
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Manager caches the current theme and persists changes.
type Manager struct {
	mu      sync.Mutex
	store   storage.Store
	current Theme
}

// NewManager loads the stored theme, defaulting to Light when none is stored
// or the stored value is unrecognized.
func NewManager(ctx context.Context, store storage.Store) (*Manager, error) {
	m := &Manager{store: store, current: Light}

	pref, found, err := store.Get(ctx, StoreKey)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if found {
		if t, err := Parse(pref.Value); err == nil {
			m.current = t
		}
	}

	return m, nil
}

// Current returns the active theme.
func (m *Manager) Current() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Toggle flips the theme and persists it.
func (m *Manager) Toggle(ctx context.Context) (Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.current.Toggle()
	if err := m.setLocked(ctx, next); err != nil {
		return m.current, err
	}
	return next, nil
}

func (m *Manager) setLocked(ctx context.Context, t Theme) error {
	pref := storage.Preference{Key: StoreKey, Value: string(t), UpdatedAt: time.Now()}
	if err := m.store.Put(ctx, pref); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	m.current = t
	return nil
}

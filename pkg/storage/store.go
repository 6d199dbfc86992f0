// Package storage persists user preferences of the WastePredict service.
//
// Two backends implement Store: MemoryStore keeps preferences for the life of
// the process, RedisStore shares them between service instances. Only small
// key/value preferences live here (the dashboard theme); datasets and model
// state are never persisted.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidKey is returned for empty or malformed preference keys.
var ErrInvalidKey = errors.New("invalid preference key")

// Preference is one stored key/value setting.
type Preference struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store reads and writes preferences.
type Store interface {
	Put(ctx context.Context, pref Preference) error
	Get(ctx context.Context, key string) (Preference, bool, error)
}

// validateKey accepts alphanumerics, hyphens and underscores.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key required", ErrInvalidKey)
	}
	for _, c := range key {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_') {
			return fmt.Errorf("%w: %q (only alphanumeric, hyphens, and underscores allowed)", ErrInvalidKey, key)
		}
	}
	return nil
}

package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in a map. It is safe for concurrent use by
// multiple goroutines. Contents are lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preference
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prefs: make(map[string]Preference),
	}
}

// Put stores pref, replacing any existing value for its key.
// Returns an error if the key is invalid or the context is canceled.
func (s *MemoryStore) Put(ctx context.Context, pref Preference) error {
	if err := validateKey(pref.Key); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[pref.Key] = pref
	return nil
}

// Get retrieves the preference stored under key.
//
// Returns:
//   - pref: The stored preference (zero value if not found)
//   - found: true if a preference exists for this key
//   - error: Context error if context is canceled, nil otherwise
func (s *MemoryStore) Get(ctx context.Context, key string) (Preference, bool, error) {
	select {
	case <-ctx.Done():
		return Preference{}, false, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pref, found := s.prefs[key]
	return pref, found, nil
}

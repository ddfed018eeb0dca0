// Package memory provides an in-memory implementation of the storage.Store
// interface, used by tests and ephemeral runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Store is an in-memory key-value store.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewStore creates a new store with an empty items map
func NewStore() *Store {
	return &Store{items: make(map[string]string)}
}

// Get retrieves a value from the in-memory store
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// Put adds or replaces a value in the in-memory store
func (s *Store) Put(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Delete removes a key from the in-memory store
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Keys returns all keys with the given prefix, sorted
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

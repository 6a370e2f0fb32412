package store

import (
	"context"
	"sync"

	"github.com/schedsim/feedq/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service keeping
// entities of type *T mapped by a comparable key K. The key is derived from
// the entity with the supplied keyOf function.
//
// Concrete DAOs embed the store to avoid rewriting identical
// Save/Load/Delete/List logic for every entity type. The scenario DAO uses
// it as a parse cache keyed by source URL.
//
// Load returns (nil, nil) on a miss rather than dao.ErrNotFound so that
// cache-style callers can distinguish "absent" without unwrapping errors.
// Higher-level DAOs can still override any method if they need additional
// behaviour such as state filtering.
type MemoryStore[K comparable, T any] struct {
	mu      sync.RWMutex
	entries map[K]*T
	keyOf   func(*T) K
}

// NewMemoryStore creates an empty store. keyOf extracts the entity key,
// usually the ID field.
func NewMemoryStore[K comparable, T any](keyOf func(*T) K) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		entries: make(map[K]*T),
		keyOf:   keyOf,
	}
}

// Save stores or overwrites an entry.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return nil // callers validate beforehand
	}
	key := s.keyOf(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = v
	return nil
}

// Load returns an entry by key, or nil when absent.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key], nil
}

// Delete removes an entry.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// List returns all stored entries in no particular order.
func (s *MemoryStore[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.entries))
	for _, v := range s.entries {
		out = append(out, v)
	}
	return out, nil
}

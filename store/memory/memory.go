// Package memory provides an in-memory snapshot store, mainly for tests
// and short-lived tooling.
package memory

import (
	"context"
	"sync"

	"github.com/sojourn-fsm/sojourn/store"
)

// Store implements store.Store in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]store.Record
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]store.Record)}
}

// Save persists the record in memory.
func (s *Store) Save(ctx context.Context, id string, rec store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = rec
	return nil
}

// Load retrieves the record.
func (s *Store) Load(ctx context.Context, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[id]
	if !ok {
		return store.Record{}, store.ErrNotFound
	}
	return rec, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns all stored IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

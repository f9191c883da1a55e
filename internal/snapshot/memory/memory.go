// Package memory holds the in-process snapshot medium, used as the default
// backend and as the persistence fake in tests.
package memory

import (
	"context"
	"sync"

	"bollette/internal/core"
)

type Store struct {
	mu    sync.Mutex
	bills []core.Bill
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store preloaded with a snapshot, for tests and demos.
func NewSeeded(bills []core.Bill) *Store {
	s := New()
	s.bills = append([]core.Bill(nil), bills...)
	return s
}

// FetchAll returns a copy of the stored snapshot. It never fails; a store
// that was never saved to yields an empty collection.
func (s *Store) FetchAll(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Bill, len(s.bills))
	copy(out, s.bills)
	return out, nil
}

// SaveAll replaces the stored snapshot with a copy of the given collection.
func (s *Store) SaveAll(_ context.Context, bills []core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills = append([]core.Bill(nil), bills...)
	return nil
}

package snapshot

import (
	"context"
	"sync"
	"time"

	"bollette/internal/core"
)

// Simulator decorates a Store with the behavior of a remote persistence
// API: a fixed latency on every call and a forced-failure toggle that makes
// saves fail before the underlying medium is touched.
type Simulator struct {
	inner Store
	delay time.Duration

	mu        sync.Mutex
	failSaves bool
}

// NewSimulator wraps a store. A zero delay disables the artificial latency.
func NewSimulator(inner Store, delay time.Duration) *Simulator {
	return &Simulator{inner: inner, delay: delay}
}

// SetFailSaves toggles forced save failures. Observable only through
// subsequent SaveAll calls; fetches are unaffected.
func (s *Simulator) SetFailSaves(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaves = fail
}

func (s *Simulator) FetchAll(ctx context.Context) ([]core.Bill, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.FetchAll(ctx)
}

func (s *Simulator) SaveAll(ctx context.Context, bills []core.Bill) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	fail := s.failSaves
	s.mu.Unlock()
	if fail {
		return ErrSaveFailed
	}
	return s.inner.SaveAll(ctx, bills)
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package layout

import (
	"context"
	"sync"
)

// Signal is a single-assignment completion marker. A run resolves it
// exactly once with its outcome; any number of waiters observe the
// resolution through Done. Resolving an already-resolved Signal is a
// no-op, which lets a superseding run finish the signal its
// predecessor abandoned.
type Signal struct {
	mu       sync.Mutex
	done     chan struct{}
	err      error
	resolved bool
}

// NewSignal returns an unresolved Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// ResolvedSignal returns a Signal that is already resolved with err.
// Used to seed state so that waiters never block before the first run.
func ResolvedSignal(err error) *Signal {
	s := NewSignal()
	s.Resolve(err)
	return s
}

// Resolve records the outcome and releases all waiters. Only the first
// call has any effect.
func (s *Signal) Resolve(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return
	}
	s.resolved = true
	s.err = err
	close(s.done)
}

// Done returns a channel closed on resolution.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Resolved reports whether the Signal has been resolved.
func (s *Signal) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// Err returns the recorded outcome. Valid only after Done is closed.
func (s *Signal) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the Signal resolves or the context ends, returning
// the resolution outcome or the context's error.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

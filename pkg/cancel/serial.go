package cancel

import "sync"

// Serial holds a single replaceable handle. Replacing the handle does not
// cancel the previous one; cancelling the Serial cancels the current handle
// and every handle set afterwards.
type Serial struct {
	mu        sync.Mutex
	current   Handle
	cancelled bool
}

// Set replaces the current handle with h.
func (s *Serial) Set(h Handle) {
	s.mu.Lock()
	if !s.cancelled {
		s.current = h
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
}

// SetFirst sets h only if no handle was set yet. A handle that loses is
// left alone unless the Serial is already cancelled.
func (s *Serial) SetFirst(h Handle) {
	s.mu.Lock()
	if !s.cancelled {
		if s.current == nil {
			s.current = h
		}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
}

// Get returns the current handle, or nil if none was set.
func (s *Serial) Get() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cancel cancels the current handle. Only the first call has an effect.
func (s *Serial) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	h := s.current
	s.current = nil
	s.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// IsCancelled reports whether Cancel has been called.
func (s *Serial) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

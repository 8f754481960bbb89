package plugins

import (
	"sync/atomic"

	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
)

type box[T any] struct {
	v T
}

// slot is a single-assignment reference. Reading an empty slot publishes
// the default, after which registration fails.
type slot[T any] struct {
	p           atomic.Pointer[box[T]]
	newDefault  func() T
	description string
}

func (s *slot[T]) get() T {
	if b := s.p.Load(); b != nil {
		return b.v
	}
	s.p.CompareAndSwap(nil, &box[T]{v: s.newDefault()})
	return s.p.Load().v
}

func (s *slot[T]) register(v T, isNil bool) error {
	if isNil {
		return errors.NewStateError("%s must not be nil", s.description)
	}
	if !s.p.CompareAndSwap(nil, &box[T]{v: v}) {
		return errors.NewStateError("another strategy was already registered: %v", s.p.Load().v).
			WithCause(errors.ErrAlreadyRegistered)
	}
	return nil
}

func (s *slot[T]) reset() {
	s.p.Store(nil)
}

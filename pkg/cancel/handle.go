package cancel

import "sync/atomic"

// Handle is a cancellable resource.
type Handle interface {
	// Cancel releases the resource. Calling it more than once has the same
	// effect as calling it once.
	Cancel()

	// IsCancelled reports whether Cancel has been called.
	IsCancelled() bool
}

type funcHandle struct {
	fn        func()
	cancelled atomic.Bool
}

// Func returns a Handle that runs fn on the first call to Cancel.
func Func(fn func()) Handle {
	return &funcHandle{fn: fn}
}

func (h *funcHandle) Cancel() {
	if h.cancelled.CompareAndSwap(false, true) && h.fn != nil {
		h.fn()
	}
}

func (h *funcHandle) IsCancelled() bool {
	return h.cancelled.Load()
}

// Empty returns a Handle with no side effects.
func Empty() Handle {
	return &funcHandle{}
}

var cancelledHandle = func() Handle {
	h := &funcHandle{}
	h.cancelled.Store(true)
	return h
}()

// Cancelled returns a shared Handle that is already cancelled.
func Cancelled() Handle {
	return cancelledHandle
}

package cancel

import "sync"

// List is an ordered collection of handles cancelled in insertion order.
// It has the same terminal semantics as Group but allows duplicates and
// keeps ordering, which suits short companion lists.
type List struct {
	mu        sync.Mutex
	handles   []Handle
	cancelled bool
}

// NewList creates a List holding handles.
func NewList(handles ...Handle) *List {
	l := &List{}
	for _, h := range handles {
		l.Add(h)
	}
	return l
}

// Add appends h, or cancels it if the list is already cancelled.
func (l *List) Add(h Handle) {
	if h == nil {
		return
	}
	l.mu.Lock()
	if !l.cancelled {
		l.handles = append(l.handles, h)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	h.Cancel()
}

// Remove drops the first occurrence of h without cancelling it.
func (l *List) Remove(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancelled {
		return
	}
	for i, x := range l.handles {
		if x == h {
			l.handles = append(l.handles[:i], l.handles[i+1:]...)
			return
		}
	}
}

// Cancel cancels every handle in order. Only the first call has an effect.
func (l *List) Cancel() {
	l.mu.Lock()
	if l.cancelled {
		l.mu.Unlock()
		return
	}
	l.cancelled = true
	handles := l.handles
	l.handles = nil
	l.mu.Unlock()

	cancelAll(handles)
}

// IsCancelled reports whether Cancel has been called.
func (l *List) IsCancelled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancelled
}

// Len returns the number of handles held.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handles)
}

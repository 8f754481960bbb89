package cancel

import (
	"errors"
	"fmt"
	"sync"
)

// Group is a set of handles cancelled together.
//
// Cancelling a Group is terminal: handles added afterwards are cancelled
// immediately and Remove becomes a no-op. A Group is itself a Handle, so
// groups nest.
type Group struct {
	mu        sync.Mutex
	handles   map[Handle]struct{}
	cancelled bool
}

// NewGroup creates an empty Group.
func NewGroup(handles ...Handle) *Group {
	g := &Group{}
	for _, h := range handles {
		g.Add(h)
	}
	return g
}

// Add registers h. If the group is already cancelled, h is cancelled
// instead of being stored. Nil handles are ignored.
func (g *Group) Add(h Handle) {
	if h == nil {
		return
	}
	g.mu.Lock()
	if !g.cancelled {
		if g.handles == nil {
			g.handles = make(map[Handle]struct{})
		}
		g.handles[h] = struct{}{}
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	h.Cancel()
}

// Remove unregisters h without cancelling it.
func (g *Group) Remove(h Handle) {
	if h == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancelled {
		return
	}
	delete(g.handles, h)
}

// Cancel marks the group cancelled and cancels every registered handle
// exactly once. Only the first call has an effect.
func (g *Group) Cancel() {
	g.mu.Lock()
	if g.cancelled {
		g.mu.Unlock()
		return
	}
	g.cancelled = true
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	cancelAll(mapKeys(handles))
}

// Clear cancels the currently registered handles but leaves the group open
// for new ones.
func (g *Group) Clear() {
	g.mu.Lock()
	if g.cancelled || len(g.handles) == 0 {
		g.mu.Unlock()
		return
	}
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	cancelAll(mapKeys(handles))
}

// IsCancelled reports whether Cancel has been called.
func (g *Group) IsCancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled
}

// Len returns the number of registered handles.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}

func mapKeys(m map[Handle]struct{}) []Handle {
	hs := make([]Handle, 0, len(m))
	for h := range m {
		hs = append(hs, h)
	}
	return hs
}

// cancelAll cancels every handle even if some of them panic. The panics are
// joined and raised once at the end.
func cancelAll(handles []Handle) {
	var errs []error
	for _, h := range handles {
		if err := cancelOne(h); err != nil {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
	case 1:
		panic(errs[0])
	default:
		panic(errors.Join(errs...))
	}
}

func cancelOne(h Handle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("cancel panicked: %v", r)
			}
		}
	}()
	h.Cancel()
	return nil
}

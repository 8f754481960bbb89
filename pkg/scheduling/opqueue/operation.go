package opqueue

import "sync/atomic"

// Operation is a unit of work submitted to a Queue.
type Operation struct {
	fn        func()
	cancelled atomic.Bool
	finished  atomic.Bool
}

// NewOperation wraps fn in an Operation.
func NewOperation(fn func()) *Operation {
	return &Operation{fn: fn}
}

// Cancel marks the operation cancelled. A queued operation that is
// cancelled is skipped; one already executing is not interrupted.
func (o *Operation) Cancel() {
	o.cancelled.Store(true)
}

// IsCancelled reports whether Cancel has been called.
func (o *Operation) IsCancelled() bool {
	return o.cancelled.Load()
}

// IsFinished reports whether the operation body ran to completion.
func (o *Operation) IsFinished() bool {
	return o.finished.Load()
}

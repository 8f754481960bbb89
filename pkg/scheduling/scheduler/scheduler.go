package scheduler

import (
	"context"
	"time"

	"github.com/lucamtudor/rxiosmoe/pkg/cancel"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/opqueue"
)

// Action is a unit of work scheduled on a Worker. The context is cancelled
// when another goroutine cancels the action while it is pending or running.
type Action func(ctx context.Context)

// Scheduler creates Workers bound to one execution context.
type Scheduler interface {
	// CreateWorker returns a new Worker. Each Worker tracks its own actions
	// and can be shut down independently.
	CreateWorker() Worker

	// Now returns the scheduler's notion of the current time.
	Now() time.Time
}

// Worker schedules actions and cancels all of them on Shutdown.
type Worker interface {
	cancel.Handle

	// Schedule runs a as soon as possible.
	Schedule(a Action) (cancel.Handle, error)

	// ScheduleAfter runs a once d has elapsed. A non-positive d means
	// immediately. After Shutdown it returns an already cancelled handle
	// and a nil error.
	ScheduleAfter(a Action, d time.Duration) (cancel.Handle, error)

	// Shutdown cancels every outstanding action. Equivalent to Cancel.
	Shutdown()

	// IsShutdown reports whether Shutdown has been called.
	IsShutdown() bool
}

// Queue is the serial execution context actions are handed to.
// opqueue.Queue satisfies it.
type Queue interface {
	Enqueue(op *opqueue.Operation) error
	Cancel(op *opqueue.Operation)
	IsShutdown() bool
	Name() string
}

// ErrorHandler receives failures of scheduled actions that no caller can
// observe.
type ErrorHandler interface {
	HandleError(err error)
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(err error)

// HandleError implements ErrorHandler.
func (f ErrorHandlerFunc) HandleError(err error) {
	f(err)
}

package delay

import (
	"context"
	"sync"
	"sync/atomic"
)

// Task is a unit of work run on the executor goroutine.
type Task func(ctx context.Context)

// Future states.
const (
	statePending int32 = iota
	stateRunning
	stateDone
	stateCancelled
)

// Future is the cancellable result of a submission.
type Future struct {
	exec  *Executor
	task  Task
	due   int64
	state atomic.Int32

	ctx       context.Context
	interrupt context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once

	rejectMu sync.Mutex
	onReject func(error)
	rejected error
}

func newFuture(exec *Executor, task Task, due int64) *Future {
	ctx, interrupt := context.WithCancel(context.Background())
	return &Future{
		exec:      exec,
		task:      task,
		due:       due,
		ctx:       ctx,
		interrupt: interrupt,
		done:      make(chan struct{}),
	}
}

// Cancel attempts to cancel the task. A pending task is removed from the
// executor and never runs. A running task is marked cancelled and left to
// finish. When mayInterrupt is true the future's context is cancelled, even
// if the task body already returned.
//
// Cancel returns true if this call moved the future into the cancelled
// state.
func (f *Future) Cancel(mayInterrupt bool) bool {
	cancelled, wasPending := f.exec.cancel(f)
	if mayInterrupt {
		f.interrupt()
	}
	if wasPending {
		f.interrupt()
		f.finish()
	}
	return cancelled
}

// IsCancelled reports whether the future was cancelled before completing.
func (f *Future) IsCancelled() bool {
	return f.state.Load() == stateCancelled
}

// IsDone reports whether the future completed or was cancelled.
func (f *Future) IsDone() bool {
	s := f.state.Load()
	return s == stateDone || s == stateCancelled
}

// Done returns a channel closed once the task has returned or will never
// run.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Context returns the context handed to the task.
func (f *Future) Context() context.Context {
	return f.ctx
}

// OnReject registers fn to be called if the executor shuts down while the
// task is still pending. If that already happened fn is called at once.
// Only the last registered fn is kept. Cancelling the future never
// triggers fn.
func (f *Future) OnReject(fn func(err error)) {
	f.rejectMu.Lock()
	if err := f.rejected; err != nil {
		f.rejectMu.Unlock()
		if fn != nil {
			fn(err)
		}
		return
	}
	f.onReject = fn
	f.rejectMu.Unlock()
}

func (f *Future) reject(err error) {
	f.rejectMu.Lock()
	f.rejected = err
	fn := f.onReject
	f.onReject = nil
	f.rejectMu.Unlock()

	if fn != nil {
		fn(err)
	}
}

func (f *Future) finish() {
	f.doneOnce.Do(func() { close(f.done) })
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
	"weak"

	"github.com/petermattis/goid"

	"github.com/lucamtudor/rxiosmoe/pkg/cancel"
	rxerrors "github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/metrics"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/delay"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/opqueue"
)

// State is the lifecycle stage of a ScheduledAction.
type State int32

const (
	StateCreated State = iota
	StateQueued
	StateRunning
	StateFinished
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

const (
	msgNoOnError = "Exception thrown on Scheduler.Worker goroutine. Add `OnError` handling."
	msgFatal     = "Fatal Exception thrown on Scheduler.Worker goroutine."
)

// ScheduledAction runs one Action on a Queue at most once and releases its
// resources exactly once, whether it finished or was cancelled.
//
// Cancelling a ScheduledAction from inside its own body never cancels the
// context the body is running with. Cancelling it from any other goroutine
// does.
type ScheduledAction struct {
	action  Action
	queue   Queue
	op      *opqueue.Operation
	handler ErrorHandler

	name    string
	metrics *metrics.Registry

	// goroutine id of the body, 0 until it starts
	executing atomic.Int64
	state     atomic.Int32
	released  atomic.Bool

	companions *cancel.List

	// written once, by the Run that wins the created to queued transition
	ctx context.Context
}

// NewScheduledAction binds action to queue. Failures are reported to
// handler, which may be nil.
func NewScheduledAction(action Action, queue Queue, handler ErrorHandler) *ScheduledAction {
	sa := &ScheduledAction{
		action:     action,
		queue:      queue,
		handler:    handler,
		companions: cancel.NewList(),
		ctx:        context.Background(),
	}
	sa.op = opqueue.NewOperation(sa.execute)
	return sa
}

// Run hands the action to the queue. It is a no-op once the action was
// cancelled or already handed over.
func (sa *ScheduledAction) Run(ctx context.Context) {
	if sa.released.Load() {
		return
	}
	if !sa.state.CompareAndSwap(int32(StateCreated), int32(StateQueued)) {
		return
	}
	// only the winning Run writes ctx, and Enqueue publishes it to the body
	if ctx != nil {
		sa.ctx = ctx
	}

	if err := sa.queue.Enqueue(sa.op); err != nil {
		sa.state.CompareAndSwap(int32(StateQueued), int32(StateCancelled))
		sa.release()
		sa.report(rxerrors.NewOperationError("scheduler", "Run",
			fmt.Errorf("%w: %w", rxerrors.ErrRejected, err)).
			WithContext("queue " + sa.queue.Name()))
	}
}

// reject cancels an action whose Run will never be called because the
// delay executor dropped it, and reports err.
func (sa *ScheduledAction) reject(err error) {
	if !sa.state.CompareAndSwap(int32(StateCreated), int32(StateCancelled)) {
		return
	}
	sa.metrics.ActionCancelled(sa.name)
	sa.release()
	sa.report(rxerrors.NewOperationError("scheduler", "ScheduleAfter", err).
		WithContext("action dropped before it was due"))
}

// execute is the operation body run on the queue goroutine.
func (sa *ScheduledAction) execute() {
	sa.executing.CompareAndSwap(0, goid.Get())
	defer sa.finish()

	if !sa.state.CompareAndSwap(int32(StateQueued), int32(StateRunning)) {
		return
	}

	start := time.Now()
	defer func() {
		r := recover()
		sa.metrics.ActionFinished(sa.name, time.Since(start), r != nil)
		if r == nil {
			return
		}
		err := fatal(r)
		sa.report(err)
		panic(err)
	}()

	sa.action(sa.ctx)
}

func fatal(recovered interface{}) *rxerrors.FatalError {
	stack := debug.Stack()
	if err, ok := recovered.(error); ok && errors.Is(err, rxerrors.ErrOnErrorNotImplemented) {
		return rxerrors.NewFatalError(msgNoOnError, recovered, stack)
	}
	return rxerrors.NewFatalError(msgFatal, recovered, stack)
}

func (sa *ScheduledAction) report(err error) {
	if sa.handler != nil {
		sa.handler.HandleError(err)
	}
}

func (sa *ScheduledAction) finish() {
	sa.state.CompareAndSwap(int32(StateRunning), int32(StateFinished))
	sa.release()
}

// Cancel prevents the action from running if it has not started and
// releases its resources. Only the first call has an effect.
func (sa *ScheduledAction) Cancel() {
	for {
		s := State(sa.state.Load())
		if s == StateFinished || s == StateCancelled {
			break
		}
		if sa.state.CompareAndSwap(int32(s), int32(StateCancelled)) {
			sa.metrics.ActionCancelled(sa.name)
			break
		}
	}
	sa.release()
}

// release cancels the queue operation and every companion. The first
// caller wins.
func (sa *ScheduledAction) release() {
	if !sa.released.CompareAndSwap(false, true) {
		return
	}
	sa.queue.Cancel(sa.op)
	sa.companions.Cancel()
}

// IsCancelled reports whether the action has been released, either because
// it finished or because it was cancelled.
func (sa *ScheduledAction) IsCancelled() bool {
	return sa.released.Load()
}

// State returns the current lifecycle stage.
func (sa *ScheduledAction) State() State {
	return State(sa.state.Load())
}

// Add attaches h so it is cancelled when the action is released.
func (sa *ScheduledAction) Add(h cancel.Handle) {
	sa.companions.Add(h)
}

// AddFuture attaches the delay future that will call Run. Releasing the
// action cancels the future, interrupting it unless the release happens on
// the goroutine running the action body.
func (sa *ScheduledAction) AddFuture(f *delay.Future) {
	sa.companions.Add(&futureCompleter{sa: sa, f: f})
}

// AddParent registers the action for removal from g once released. The
// action does not keep g alive.
func (sa *ScheduledAction) AddParent(g *cancel.Group) {
	sa.companions.Add(&remover[cancel.Group]{
		sa:     sa,
		parent: weak.Make(g),
		remove: (*cancel.Group).Remove,
	})
}

// AddParentList is AddParent for a cancel.List.
func (sa *ScheduledAction) AddParentList(l *cancel.List) {
	sa.companions.Add(&remover[cancel.List]{
		sa:     sa,
		parent: weak.Make(l),
		remove: (*cancel.List).Remove,
	})
}

type futureCompleter struct {
	sa *ScheduledAction
	f  *delay.Future
}

func (c *futureCompleter) Cancel() {
	c.f.Cancel(c.sa.executing.Load() != goid.Get())
}

func (c *futureCompleter) IsCancelled() bool {
	return c.f.IsDone()
}

type remover[T any] struct {
	sa     *ScheduledAction
	parent weak.Pointer[T]
	remove func(*T, cancel.Handle)
	done   atomic.Bool
}

func (r *remover[T]) Cancel() {
	if !r.done.CompareAndSwap(false, true) {
		return
	}
	if p := r.parent.Value(); p != nil {
		r.remove(p, r.sa)
	}
}

func (r *remover[T]) IsCancelled() bool {
	return r.done.Load()
}

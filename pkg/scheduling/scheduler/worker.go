package scheduler

import (
	"time"

	"github.com/lucamtudor/rxiosmoe/pkg/cancel"
	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/common/validation"
)

type queueWorker struct {
	s     *QueueScheduler
	group *cancel.Group
}

func (w *queueWorker) Schedule(a Action) (cancel.Handle, error) {
	return w.ScheduleAfter(a, 0)
}

func (w *queueWorker) ScheduleAfter(a Action, d time.Duration) (cancel.Handle, error) {
	if w.group.IsCancelled() {
		return cancel.Cancelled(), nil
	}
	if a == nil {
		return nil, validation.ValidateNotNil("scheduler", "action", nil)
	}
	if w.s.queue.IsShutdown() {
		return nil, errors.NewOperationError("scheduler", "ScheduleAfter", errors.ErrRejected).
			WithContext("queue " + w.s.queue.Name() + " is shut down")
	}
	if w.s.decorate != nil {
		if decorated := w.s.decorate(a); decorated != nil {
			a = decorated
		}
	}

	sa := NewScheduledAction(a, w.s.queue, w.s.handler)
	sa.name = w.s.name
	sa.metrics = w.s.metrics
	sa.AddParent(w.group)
	w.group.Add(sa)
	if sa.IsCancelled() {
		// the worker was shut down concurrently
		return sa, nil
	}

	f, err := w.s.executor.SubmitAfter(sa.Run, d)
	if err != nil {
		sa.Cancel()
		return nil, errors.NewOperationError("scheduler", "ScheduleAfter", err)
	}
	sa.AddFuture(f)
	f.OnReject(sa.reject)
	w.s.metrics.ActionScheduled(w.s.name)
	return sa, nil
}

func (w *queueWorker) handleError(err error) {
	w.s.handler.HandleError(err)
}

func (w *queueWorker) Shutdown() {
	w.group.Cancel()
}

func (w *queueWorker) Cancel() {
	w.group.Cancel()
}

func (w *queueWorker) IsShutdown() bool {
	return w.group.IsCancelled()
}

func (w *queueWorker) IsCancelled() bool {
	return w.group.IsCancelled()
}

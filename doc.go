/*
Package rxiosmoe schedules work onto a serial, UI-affine main queue with
delays and layered cancellation.

Cancellation (pkg/cancel):
  - Handle: anything cancellable once
  - Group, List, Serial: terminal containers of handles

Scheduling (pkg/scheduling):
  - opqueue: serial FIFO operation queue with a last-resort panic handler
  - delay: single-goroutine executor for delayed tasks
  - scheduler: Scheduler, Worker and the ScheduledAction state machine

Main thread (pkg/mainthread, pkg/plugins):
  - mainthread: resolves the main queue scheduler on every call
  - plugins: one-shot hooks replacing that scheduler, decorating actions
    and receiving action failures

Support (pkg/metrics, pkg/config):
  - metrics: Prometheus instrumentation for queues, delays and actions
  - config: YAML settings for the main queue, executor, logging and metrics

Example usage:

	import (
		"github.com/lucamtudor/rxiosmoe/pkg/mainthread"
	)

	w := mainthread.Scheduler().CreateWorker()
	defer w.Shutdown()

	w.ScheduleAfter(func(ctx context.Context) {
		label.SetText("done")
	}, 100*time.Millisecond)
*/
package rxiosmoe

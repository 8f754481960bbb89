/*
Package scheduler runs actions on a serial operation queue with delays and
layered cancellation.

A Scheduler hands out Workers. A Worker schedules Actions, immediately or
after a delay, and cancels every action it spawned that has not finished
when it is shut down. Action bodies always run on the queue, so actions
scheduled on the same serial queue never overlap.

Basic Usage:

	q := opqueue.New("main")
	defer q.Shutdown()

	s, err := scheduler.New(scheduler.Config{Queue: q})
	if err != nil {
		return err
	}

	w := s.CreateWorker()
	defer w.Shutdown()

	h, err := w.ScheduleAfter(func(ctx context.Context) {
		fmt.Println("on the main queue")
	}, 100*time.Millisecond)
	if err != nil {
		return err
	}
	h.Cancel() // never prints

Lifecycle:

Every scheduled action is a ScheduledAction moving through

	created -> queued -> running -> finished

with cancelled reachable from any state before finished. The delay executor
moves the action to queued by calling Run at the due time, which enqueues
it. The queue goroutine moves it to running. Whatever happens in the body,
the action then releases itself exactly once: it leaves its worker's group,
drops its queue operation and cancels its delay future.

Cancellation:

Cancellation is cooperative. An action that has not started never runs. An
action that is running sees its context cancelled when another goroutine
cancels it, and keeps running until it returns. An action that cancels
itself (or its worker) from its own body does not see its context
cancelled, so the code after the cancel call is not disturbed.

After Shutdown a Worker returns cancel.Cancelled() from Schedule and
ScheduleAfter instead of an error.

Failures:

A panic escaping an action is wrapped in an errors.FatalError, reported to
the ErrorHandler and re-panicked so the queue's PanicHandler sees it too.
Panics wrapping errors.ErrOnErrorNotImplemented get a message pointing at
the missing error handling.

Repeating work:

	h, err := scheduler.SchedulePeriodically(w, tick, 0, time.Second)
	h, err := scheduler.ScheduleCron(w, "0 0/5 * * * *", tick)

Both return a handle that stops future runs when cancelled.
*/
package scheduler

/*
Package scheduling groups the execution primitives behind the main thread
scheduler.

  - opqueue: FIFO operation queue, serial by default
  - delay: single-goroutine executor for immediate and delayed tasks
  - scheduler: Workers that run actions on a queue after a delay

Operation Queue:

	q := opqueue.New("main")
	defer q.Shutdown()

	q.Enqueue(opqueue.NewOperation(func() {
		// runs on the queue goroutine
	}))

Delay Executor:

	exec := delay.New(delay.Config{Name: "timers"})
	defer exec.Shutdown()

	f, _ := exec.SubmitAfter(task, time.Second)
	f.Cancel(true)

Scheduler:

	s, _ := scheduler.New(scheduler.Config{Queue: q, Executor: exec})
	w := s.CreateWorker()
	defer w.Shutdown()

	h, _ := w.ScheduleAfter(action, 100*time.Millisecond)
	h.Cancel()

All components are safe for concurrent use. Cancellation never blocks on
the work being cancelled.
*/
package scheduling

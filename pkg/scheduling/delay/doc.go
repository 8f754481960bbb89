// Package delay provides a single-goroutine executor for immediate and
// delayed tasks.
//
// An Executor owns one background goroutine and an ordered index of due
// times. Tasks run on that goroutine in due order; tasks due at the same
// instant run in submission order. Tasks are expected to be short: the
// scheduler uses them only to hand work over to an operation queue.
//
//	exec := delay.New(delay.Config{Name: "timers"})
//	defer exec.Shutdown()
//
//	f, err := exec.SubmitAfter(func(ctx context.Context) {
//		fmt.Println("fired")
//	}, 100*time.Millisecond)
//	if err != nil {
//		return err
//	}
//	f.Cancel(true) // never fires
//
// Every Future carries its own context. Cancelling a Future with
// mayInterrupt set cancels that context, which is how interruption is
// signalled to whatever the task handed its context to.
//
// Shared returns a lazily-created process-wide Executor. Use New in tests.
package delay

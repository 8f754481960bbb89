// Package opqueue provides a FIFO operation queue executed by a fixed set
// of goroutines.
//
// With the default MaxConcurrent of 1 the queue is serial, which is the
// execution model of a UI main queue: operations run one at a time, in the
// order they were enqueued, always on the same goroutine.
//
//	q := opqueue.New("main")
//	defer q.Shutdown()
//
//	op := opqueue.NewOperation(func() { render() })
//	if err := q.Enqueue(op); err != nil {
//		return err
//	}
//	q.Cancel(op) // skipped if it has not started yet
//
// # Panics
//
// A panic escaping an operation is recovered on the worker goroutine and
// passed to Config.PanicHandler. This is the last-resort handler for
// failures no caller can observe. The default handler logs the panic and
// its stack through the configured zerolog logger; the worker then carries
// on with the next operation.
//
// # Backpressure
//
// Enqueue never blocks. A bounded queue (QueueSize > 0) rejects operations
// with errors.ErrCapacityExceeded once full.
package opqueue

package scheduler

import (
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lucamtudor/rxiosmoe/internal/testutil"
	"github.com/lucamtudor/rxiosmoe/pkg/metrics"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/delay"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/opqueue"
)

type fixture struct {
	queue    opqueue.Queue
	executor *delay.Executor
	errors   *testutil.ErrorRecorder
	metrics  *metrics.Registry
	panics   atomic.Int32
	sched    *QueueScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		errors:  &testutil.ErrorRecorder{},
		metrics: metrics.NewRegistry(prometheus.NewRegistry()),
	}

	q, err := opqueue.NewWithConfig(opqueue.Config{
		Name: "test-main",
		PanicHandler: func(op *opqueue.Operation, recovered interface{}) {
			f.panics.Add(1)
		},
	})
	testutil.AssertNoError(t, err)
	f.queue = q
	f.executor = delay.New(delay.Config{Name: "test-delay"})

	f.sched, err = New(Config{
		Name:         "test",
		Queue:        f.queue,
		Executor:     f.executor,
		ErrorHandler: f.errors,
		Metrics:      f.metrics,
	})
	testutil.AssertNoError(t, err)

	t.Cleanup(func() {
		<-f.executor.Shutdown()
		<-f.queue.Shutdown()
	})
	return f
}

// blockQueue occupies the serial queue until the returned func is called.
func (f *fixture) blockQueue(t *testing.T) (unblock func()) {
	t.Helper()
	started := make(chan struct{})
	release := make(chan struct{})
	testutil.AssertNoError(t, f.queue.Enqueue(opqueue.NewOperation(func() {
		close(started)
		<-release
	})))
	<-started
	return func() { close(release) }
}

// drain waits until everything enqueued so far has run.
func (f *fixture) drain(t *testing.T) {
	t.Helper()
	op := opqueue.NewOperation(func() {})
	testutil.AssertNoError(t, f.queue.Enqueue(op))
	testutil.AssertEventually(t, op.IsFinished)
}

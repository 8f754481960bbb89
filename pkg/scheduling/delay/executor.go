package delay

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
	"github.com/rs/zerolog"

	rxerrors "github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/common/validation"
	"github.com/lucamtudor/rxiosmoe/pkg/metrics"
)

// Config holds configuration options for an Executor.
type Config struct {
	// Name labels log lines and metrics. Defaults to "delay".
	Name string

	// Logger receives task panics. The zero value discards output.
	Logger zerolog.Logger

	// Metrics records the pending task gauge. Nil disables metrics.
	Metrics *metrics.Registry
}

// Executor runs tasks on a single background goroutine, immediately or
// after a delay.
type Executor struct {
	name    string
	logger  zerolog.Logger
	metrics *metrics.Registry
	epoch   time.Time

	mu       sync.Mutex
	timers   *rbt.Tree[int64, []*Future]
	pending  int
	shutdown bool

	wake   chan struct{}
	stopCh chan struct{}
	done   chan struct{}
}

// New creates an Executor and starts its goroutine.
func New(config Config) *Executor {
	if config.Name == "" {
		config.Name = "delay"
	}
	e := &Executor{
		name:    config.Name,
		logger:  config.Logger.With().Str("executor", config.Name).Logger(),
		metrics: config.Metrics,
		epoch:   time.Now(),
		timers:  rbt.New[int64, []*Future](),
		wake:    make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go e.run()
	return e
}

var shared atomic.Pointer[Executor]

// Shared returns the process-wide Executor, creating it on first use.
// Concurrent first calls all observe the same instance.
func Shared() *Executor {
	if e := shared.Load(); e != nil {
		return e
	}
	e := New(Config{Name: "shared", Metrics: metrics.DefaultRegistry})
	if shared.CompareAndSwap(nil, e) {
		return e
	}
	e.Shutdown()
	return shared.Load()
}

// Name returns the executor name.
func (e *Executor) Name() string {
	return e.name
}

// Submit schedules task to run as soon as possible.
func (e *Executor) Submit(task Task) (*Future, error) {
	return e.SubmitAfter(task, 0)
}

// SubmitAfter schedules task to run once d has elapsed. A non-positive d
// means immediately.
func (e *Executor) SubmitAfter(task Task, d time.Duration) (*Future, error) {
	if task == nil {
		return nil, validation.ValidateNotNil("delay", "task", nil)
	}
	if d < 0 {
		d = 0
	}

	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return nil, rxerrors.NewOperationError("delay", "Submit", rxerrors.ErrRejected).
			WithContext("executor " + e.name + " is shut down")
	}
	f := newFuture(e, task, e.now()+int64(d))
	bucket, _ := e.timers.Get(f.due)
	e.timers.Put(f.due, append(bucket, f))
	e.pending++
	pending := e.pending
	e.mu.Unlock()

	e.metrics.SetDelayPending(e.name, pending)
	e.signal()
	return f, nil
}

// Len returns the number of tasks waiting to run.
func (e *Executor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// IsShutdown reports whether Shutdown has been called.
func (e *Executor) IsShutdown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown
}

// Shutdown rejects further submissions and cancels every pending task with
// interruption, calling its OnReject callback. A task already running is
// allowed to return. The returned
// channel closes once the executor goroutine has exited; callers running on
// that goroutine must not wait on it.
func (e *Executor) Shutdown() <-chan struct{} {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return e.done
	}
	e.shutdown = true
	var futures []*Future
	it := e.timers.Iterator()
	for it.Next() {
		futures = append(futures, it.Value()...)
	}
	e.timers.Clear()
	e.pending = 0
	for _, f := range futures {
		f.state.Store(stateCancelled)
	}
	e.mu.Unlock()

	close(e.stopCh)
	e.metrics.SetDelayPending(e.name, 0)

	for _, f := range futures {
		f.interrupt()
		f.finish()
		f.reject(rxerrors.NewOperationError("delay", "Shutdown", rxerrors.ErrRejected).
			WithContext("executor " + e.name + " shut down before the task was due"))
	}
	return e.done
}

func (e *Executor) now() int64 {
	return int64(time.Since(e.epoch))
}

func (e *Executor) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// cancel moves f to the cancelled state. It reports whether the state
// changed and whether f was still waiting in the index.
func (e *Executor) cancel(f *Future) (cancelled, wasPending bool) {
	e.mu.Lock()
	switch f.state.Load() {
	case statePending:
		f.state.Store(stateCancelled)
		e.removeLocked(f)
		cancelled, wasPending = true, true
	case stateRunning:
		f.state.Store(stateCancelled)
		cancelled = true
	}
	pending := e.pending
	e.mu.Unlock()

	if wasPending {
		e.metrics.SetDelayPending(e.name, pending)
	}
	return cancelled, wasPending
}

func (e *Executor) removeLocked(f *Future) {
	bucket, found := e.timers.Get(f.due)
	if !found {
		return
	}
	for i, x := range bucket {
		if x == f {
			bucket = append(bucket[:i], bucket[i+1:]...)
			e.pending--
			break
		}
	}
	if len(bucket) == 0 {
		e.timers.Remove(f.due)
	} else {
		e.timers.Put(f.due, bucket)
	}
}

// next pops the first due future. When nothing is due it returns the time
// until the earliest entry, or a negative wait if the index is empty.
func (e *Executor) next() (f *Future, wait time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	node := e.timers.Left()
	if node == nil {
		return nil, -1
	}
	if now := e.now(); node.Key > now {
		return nil, time.Duration(node.Key - now)
	}

	bucket := node.Value
	f = bucket[0]
	if len(bucket) == 1 {
		e.timers.Remove(node.Key)
	} else {
		e.timers.Put(node.Key, bucket[1:])
	}
	e.pending--
	f.state.Store(stateRunning)
	return f, 0
}

func (e *Executor) run() {
	defer close(e.done)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		f, wait := e.next()
		if f != nil {
			e.execute(f)
			continue
		}

		if wait < 0 {
			select {
			case <-e.wake:
			case <-e.stopCh:
				return
			}
			continue
		}

		timer.Reset(wait)
		select {
		case <-timer.C:
		case <-e.wake:
			timer.Stop()
		case <-e.stopCh:
			return
		}
	}
}

func (e *Executor) execute(f *Future) {
	e.metrics.SetDelayPending(e.name, e.Len())

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("delayed task panicked")
		}
		f.state.CompareAndSwap(stateRunning, stateDone)
		f.finish()
	}()

	f.task(f.ctx)
}

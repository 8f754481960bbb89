package opqueue

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/common/validation"
	"github.com/lucamtudor/rxiosmoe/pkg/metrics"
)

// Queue executes operations in FIFO order on its own goroutines.
type Queue interface {
	// Enqueue adds op to the tail of the queue. It never blocks.
	// Returns an error if the queue is shut down or full.
	Enqueue(op *Operation) error

	// Cancel marks op cancelled and drops it if it is still queued.
	Cancel(op *Operation)

	// CancelAll cancels every queued operation.
	CancelAll()

	// Len returns the number of queued operations.
	Len() int

	// Name returns the queue name.
	Name() string

	// IsShutdown reports whether Shutdown has been called.
	IsShutdown() bool

	// Shutdown stops accepting operations. Operations already queued
	// still run. The returned channel closes once every worker exited.
	Shutdown() <-chan struct{}
}

// Config holds configuration options for creating a Queue.
type Config struct {
	// Name labels log lines and metrics. Defaults to "opqueue".
	Name string

	// MaxConcurrent is the number of worker goroutines. Defaults to 1,
	// which makes the queue serial: operations never overlap.
	MaxConcurrent int

	// QueueSize caps the number of queued operations. 0 means unbounded.
	QueueSize int

	// PanicHandler is called on the worker goroutine when an operation
	// panics. If nil, the panic is logged at error level with its stack.
	PanicHandler func(op *Operation, recovered interface{})

	// OnOperationStart is called before an operation body runs.
	OnOperationStart func(op *Operation)

	// OnOperationComplete is called after an operation body returned or
	// panicked.
	OnOperationComplete func(op *Operation, duration time.Duration)

	// Logger is used by the default panic handler.
	Logger zerolog.Logger

	// Metrics records depth, activity and panics. Nil disables metrics.
	Metrics *metrics.Registry
}

type operationQueue struct {
	config Config
	logger zerolog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	pending  []*Operation
	active   int
	shutdown bool

	workerWg     sync.WaitGroup
	done         chan struct{}
	shutdownOnce sync.Once
}

// New creates a serial queue with the given name.
func New(name string) Queue {
	q, err := NewWithConfig(Config{Name: name})
	if err != nil {
		panic(err)
	}
	return q
}

// NewWithConfig creates a queue with the specified configuration.
func NewWithConfig(config Config) (Queue, error) {
	if config.MaxConcurrent == 0 {
		config.MaxConcurrent = 1
	}
	if err := validation.ValidatePositive("opqueue", "MaxConcurrent", config.MaxConcurrent); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("opqueue", "QueueSize", config.QueueSize); err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = "opqueue"
	}

	q := &operationQueue{
		config: config,
		logger: config.Logger.With().Str("queue", config.Name).Logger(),
		done:   make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	if q.config.PanicHandler == nil {
		q.config.PanicHandler = q.logPanic
	}

	q.workerWg.Add(config.MaxConcurrent)
	for i := 0; i < config.MaxConcurrent; i++ {
		go q.work()
	}
	go func() {
		q.workerWg.Wait()
		close(q.done)
	}()

	return q, nil
}

func (q *operationQueue) Enqueue(op *Operation) error {
	if op == nil {
		return validation.ValidateNotNil("opqueue", "operation", nil)
	}

	q.mu.Lock()
	if q.shutdown {
		q.mu.Unlock()
		return errors.NewOperationError("opqueue", "Enqueue", errors.ErrClosed).
			WithContext("queue " + q.config.Name + " is shut down")
	}
	if q.config.QueueSize > 0 && len(q.pending) >= q.config.QueueSize {
		q.mu.Unlock()
		return errors.NewOperationError("opqueue", "Enqueue", errors.ErrCapacityExceeded)
	}
	q.pending = append(q.pending, op)
	depth, active := len(q.pending), q.active
	q.mu.Unlock()

	q.cond.Signal()
	q.config.Metrics.SetQueueState(q.config.Name, depth, active)
	return nil
}

func (q *operationQueue) Cancel(op *Operation) {
	if op == nil {
		return
	}
	op.Cancel()

	q.mu.Lock()
	removed := false
	for i, x := range q.pending {
		if x == op {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			removed = true
			break
		}
	}
	depth, active := len(q.pending), q.active
	q.mu.Unlock()

	if removed {
		q.config.Metrics.SetQueueState(q.config.Name, depth, active)
	}
}

func (q *operationQueue) CancelAll() {
	q.mu.Lock()
	ops := q.pending
	q.pending = nil
	active := q.active
	q.mu.Unlock()

	for _, op := range ops {
		op.Cancel()
	}
	q.config.Metrics.SetQueueState(q.config.Name, 0, active)
}

func (q *operationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *operationQueue) Name() string {
	return q.config.Name
}

func (q *operationQueue) IsShutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdown
}

func (q *operationQueue) Shutdown() <-chan struct{} {
	q.shutdownOnce.Do(func() {
		q.mu.Lock()
		q.shutdown = true
		q.mu.Unlock()
		q.cond.Broadcast()
	})
	return q.done
}

// work is the main loop for a worker goroutine.
func (q *operationQueue) work() {
	defer q.workerWg.Done()

	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.shutdown {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		op := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.active++
		depth, active := len(q.pending), q.active
		q.mu.Unlock()

		q.config.Metrics.SetQueueState(q.config.Name, depth, active)
		q.execute(op)

		q.mu.Lock()
		q.active--
		depth, active = len(q.pending), q.active
		q.mu.Unlock()
		q.config.Metrics.SetQueueState(q.config.Name, depth, active)
	}
}

// execute runs a single operation, recovering any panic that escapes it.
func (q *operationQueue) execute(op *Operation) {
	if op.IsCancelled() {
		return
	}
	if q.config.OnOperationStart != nil {
		q.config.OnOperationStart(op)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			q.config.Metrics.QueuePanic(q.config.Name)
			q.config.PanicHandler(op, r)
		}
		if q.config.OnOperationComplete != nil {
			q.config.OnOperationComplete(op, time.Since(start))
		}
	}()

	if op.fn != nil {
		op.fn()
	}
	op.finished.Store(true)
}

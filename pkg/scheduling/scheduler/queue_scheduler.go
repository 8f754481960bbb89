package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lucamtudor/rxiosmoe/pkg/cancel"
	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/common/validation"
	"github.com/lucamtudor/rxiosmoe/pkg/metrics"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/delay"
)

// Config holds configuration options for a QueueScheduler.
type Config struct {
	// Name labels metrics and log lines. Defaults to the queue name.
	Name string

	// Queue runs the action bodies. Required.
	Queue Queue

	// Executor realizes delays. Defaults to delay.Shared().
	Executor *delay.Executor

	// ErrorHandler receives action failures. If nil, they are logged.
	ErrorHandler ErrorHandler

	// Decorate wraps every action before it is scheduled.
	Decorate func(Action) Action

	// Logger is used by the default error handler.
	Logger zerolog.Logger

	// Metrics records action counters. Nil disables metrics.
	Metrics *metrics.Registry
}

// QueueScheduler is a Scheduler whose Workers run actions on a Queue.
type QueueScheduler struct {
	name     string
	queue    Queue
	executor *delay.Executor
	handler  ErrorHandler
	decorate func(Action) Action
	logger   zerolog.Logger
	metrics  *metrics.Registry
}

// New creates a QueueScheduler. A nil Queue is a state error.
func New(config Config) (*QueueScheduler, error) {
	if config.Queue == nil {
		return nil, errors.NewStateError("queue is nil").
			WithCause(validation.ValidateNotNil("scheduler", "Queue", nil))
	}
	if config.Name == "" {
		config.Name = config.Queue.Name()
	}
	if config.Executor == nil {
		config.Executor = delay.Shared()
	}

	s := &QueueScheduler{
		name:     config.Name,
		queue:    config.Queue,
		executor: config.Executor,
		handler:  config.ErrorHandler,
		decorate: config.Decorate,
		logger:   config.Logger.With().Str("scheduler", config.Name).Logger(),
		metrics:  config.Metrics,
	}
	if s.handler == nil {
		s.handler = ErrorHandlerFunc(s.logError)
	}
	return s, nil
}

// FromQueue creates a QueueScheduler on q with default settings.
func FromQueue(q Queue) (*QueueScheduler, error) {
	return New(Config{Queue: q})
}

// CreateWorker implements Scheduler.
func (s *QueueScheduler) CreateWorker() Worker {
	return &queueWorker{s: s, group: cancel.NewGroup()}
}

// Now implements Scheduler.
func (s *QueueScheduler) Now() time.Time {
	return time.Now()
}

// Name returns the scheduler name.
func (s *QueueScheduler) Name() string {
	return s.name
}

func (s *QueueScheduler) logError(err error) {
	ev := s.logger.Error().Err(err)
	if errors.IsFatal(err) {
		ev = ev.Bool("fatal", true)
	}
	ev.Msg("scheduled action failed")
}

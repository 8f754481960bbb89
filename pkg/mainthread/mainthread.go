// Package mainthread resolves the scheduler for the application's main
// queue.
//
// Scheduler re-resolves on every call: if the registered plugins hook
// supplies a main thread scheduler it is returned, otherwise the built-in
// scheduler backed by Queue. Callers should not cache the result.
package mainthread

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/metrics"
	"github.com/lucamtudor/rxiosmoe/pkg/plugins"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/delay"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/opqueue"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/scheduler"
)

// QueueName is the name of the process main queue.
const QueueName = "main"

var (
	queueOnce sync.Once
	mainQueue opqueue.Queue

	resolverOnce    sync.Once
	defaultResolver *Resolver
)

// Queue returns the process main queue, creating it on first use. It is
// serial and lives as long as the process.
func Queue() opqueue.Queue {
	queueOnce.Do(func() {
		q, err := opqueue.NewWithConfig(opqueue.Config{
			Name:    QueueName,
			Logger:  log.Logger,
			Metrics: metrics.DefaultRegistry,
		})
		if err != nil {
			panic(err)
		}
		mainQueue = q
	})
	return mainQueue
}

// Scheduler returns the main thread scheduler of the default registry.
func Scheduler() scheduler.Scheduler {
	resolverOnce.Do(func() {
		r, err := NewResolver(plugins.Default(), Queue(), delay.Shared())
		if err != nil {
			panic(err)
		}
		defaultResolver = r
	})
	return defaultResolver.Scheduler()
}

// Resolver picks the main thread scheduler from a plugins registry.
type Resolver struct {
	registry *plugins.Registry
	builtin  *scheduler.QueueScheduler
}

// NewResolver creates a Resolver whose built-in scheduler runs on q and
// waits on exec. The built-in scheduler decorates actions through the
// registry's hook and reports failures to the registry's error handler,
// both looked up at the time of use.
func NewResolver(registry *plugins.Registry, q scheduler.Queue, exec *delay.Executor) (*Resolver, error) {
	if registry == nil {
		return nil, errors.NewStateError("registry is nil")
	}
	builtin, err := scheduler.New(scheduler.Config{
		Name:         QueueName,
		Queue:        q,
		Executor:     exec,
		ErrorHandler: registry,
		Decorate:     registry.OnSchedule,
		Metrics:      metrics.DefaultRegistry,
	})
	if err != nil {
		return nil, err
	}
	return &Resolver{registry: registry, builtin: builtin}, nil
}

// Scheduler returns the hook's scheduler if it supplies one, otherwise the
// built-in one.
func (r *Resolver) Scheduler() scheduler.Scheduler {
	if s := r.registry.SchedulersHook().MainThreadScheduler(); s != nil {
		return s
	}
	return r.builtin
}

// Builtin returns the queue-backed scheduler regardless of hooks.
func (r *Resolver) Builtin() *scheduler.QueueScheduler {
	return r.builtin
}

package plugins

import (
	"github.com/rs/zerolog/log"

	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/scheduler"
)

// SchedulersHook customizes scheduler resolution.
type SchedulersHook interface {
	// MainThreadScheduler returns a replacement for the built-in main
	// queue scheduler, or nil to keep it.
	MainThreadScheduler() scheduler.Scheduler

	// OnSchedule wraps every action before it is handed to a worker.
	OnSchedule(a scheduler.Action) scheduler.Action
}

// DefaultSchedulersHook keeps the built-in scheduler and passes actions
// through unchanged. Embed it to override a single method.
type DefaultSchedulersHook struct{}

// MainThreadScheduler returns nil.
func (DefaultSchedulersHook) MainThreadScheduler() scheduler.Scheduler {
	return nil
}

// OnSchedule returns a unchanged.
func (DefaultSchedulersHook) OnSchedule(a scheduler.Action) scheduler.Action {
	return a
}

func (DefaultSchedulersHook) String() string {
	return "DefaultSchedulersHook"
}

// LogErrorHandler writes errors to the global zerolog logger.
type LogErrorHandler struct{}

// HandleError implements scheduler.ErrorHandler.
func (LogErrorHandler) HandleError(err error) {
	ev := log.Error().Err(err)
	if errors.IsFatal(err) {
		ev = ev.Bool("fatal", true)
	}
	ev.Msg("unhandled error in scheduled action")
}

func (LogErrorHandler) String() string {
	return "LogErrorHandler"
}

package plugins

import (
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/scheduler"
)

// Registry holds the process-wide scheduling hooks. Each hook can be
// registered once, and only before it is first read.
type Registry struct {
	hook     slot[SchedulersHook]
	handlers slot[scheduler.ErrorHandler]
}

// New creates an empty Registry. Most code should use Default.
func New() *Registry {
	r := &Registry{}
	r.hook.newDefault = func() SchedulersHook { return DefaultSchedulersHook{} }
	r.hook.description = "schedulers hook"
	r.handlers.newDefault = func() scheduler.ErrorHandler { return LogErrorHandler{} }
	r.handlers.description = "error handler"
	return r
}

var defaultRegistry = New()

// Default returns the process-wide Registry.
func Default() *Registry {
	return defaultRegistry
}

// SchedulersHook returns the registered hook, publishing
// DefaultSchedulersHook if none was registered.
func (r *Registry) SchedulersHook() SchedulersHook {
	return r.hook.get()
}

// RegisterSchedulersHook installs h. It returns a *errors.StateError if a
// hook is already present, including the default published by an earlier
// read.
func (r *Registry) RegisterSchedulersHook(h SchedulersHook) error {
	return r.hook.register(h, h == nil)
}

// ErrorHandler returns the registered error handler, publishing
// LogErrorHandler if none was registered.
func (r *Registry) ErrorHandler() scheduler.ErrorHandler {
	return r.handlers.get()
}

// RegisterErrorHandler installs h with the same rules as
// RegisterSchedulersHook.
func (r *Registry) RegisterErrorHandler(h scheduler.ErrorHandler) error {
	return r.handlers.register(h, h == nil)
}

// HandleError forwards err to the current error handler.
func (r *Registry) HandleError(err error) {
	r.ErrorHandler().HandleError(err)
}

// OnSchedule decorates a through the current hook.
func (r *Registry) OnSchedule(a scheduler.Action) scheduler.Action {
	return r.SchedulersHook().OnSchedule(a)
}

// Reset clears every slot. For tests only: it breaks the guarantee that a
// hook never changes once read.
func (r *Registry) Reset() {
	r.hook.reset()
	r.handlers.reset()
}

// Package plugins is the process-wide registry of scheduling hooks.
//
// Two hooks are available: a SchedulersHook, which can replace the main
// queue scheduler and decorate every scheduled action, and an ErrorHandler,
// which receives failures of scheduled actions. Each is set at most once,
// and must be set before its first use: the first read publishes a default
// and any later registration fails with a state error.
//
//	func init() {
//		if err := plugins.Default().RegisterSchedulersHook(tracingHook{}); err != nil {
//			panic(err)
//		}
//	}
//
// Consumers resolve hooks on every call rather than caching them.
package plugins

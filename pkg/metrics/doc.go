// Package metrics provides Prometheus instrumentation for rxiosmoe components.
//
// # Overview
//
// The scheduler, the delay executor and the operation queue all accept an
// optional *Registry. A nil registry disables collection.
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//
//	queue, _ := opqueue.NewWithConfig(opqueue.Config{Name: "main", Metrics: reg})
//	sched, _ := scheduler.New(scheduler.Config{Name: "main", Queue: queue, Metrics: reg})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Available Metrics
//
// ## Scheduled Actions
//
//   - rxiosmoe_scheduler_actions_scheduled_total: Actions accepted by a worker
//   - rxiosmoe_scheduler_actions_executed_total: Action bodies started
//   - rxiosmoe_scheduler_actions_completed_total: Action bodies that returned normally
//   - rxiosmoe_scheduler_actions_failed_total: Action bodies that panicked
//   - rxiosmoe_scheduler_actions_cancelled_total: Actions cancelled before finishing
//   - rxiosmoe_scheduler_action_duration_seconds: Time spent in action bodies
//
// ## Delay Executor
//
//   - rxiosmoe_delay_pending: Tasks waiting for their due time
//
// ## Operation Queue
//
//   - rxiosmoe_opqueue_depth: Operations waiting in the queue
//   - rxiosmoe_opqueue_active: Operations currently executing
//   - rxiosmoe_opqueue_panics_total: Panics that escaped an operation
//
// # Labels
//
//   - scheduler_name: Config.Name of the scheduler
//   - executor_name: Config.Name of the delay executor
//   - queue_name: Config.Name of the operation queue
package metrics

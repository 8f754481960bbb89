// Package metrics provides Prometheus instrumentation for rxiosmoe components.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name unless Config.Namespace is set.
const DefaultNamespace = "rxiosmoe"

// Registry holds all metric instances for rxiosmoe components.
//
// All observation helpers are safe to call on a nil *Registry, which is how
// components run with metrics disabled.
type Registry struct {
	// Scheduled action metrics
	ActionsScheduled *prometheus.CounterVec
	ActionsExecuted  *prometheus.CounterVec
	ActionsCompleted *prometheus.CounterVec
	ActionsFailed    *prometheus.CounterVec
	ActionsCancelled *prometheus.CounterVec
	ActionDuration   *prometheus.HistogramVec

	// Delay executor metrics
	DelayPending *prometheus.GaugeVec

	// Operation queue metrics
	QueueDepth  *prometheus.GaugeVec
	QueueActive *prometheus.GaugeVec
	QueuePanics *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by rxiosmoe components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Enabled: true, Registry: reg})
}

// NewRegistryWithConfig creates a registry honoring the namespace and
// constant labels of cfg.
func NewRegistryWithConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Registry{
		ActionsScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "actions_scheduled_total",
				Help:        "Total number of actions scheduled on a worker",
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		ActionsExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "actions_executed_total",
				Help:        "Total number of action bodies started",
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		ActionsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "actions_completed_total",
				Help:        "Total number of action bodies that returned normally",
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		ActionsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "actions_failed_total",
				Help:        "Total number of action bodies that panicked",
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		ActionsCancelled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "actions_cancelled_total",
				Help:        "Total number of actions cancelled before finishing",
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		ActionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "action_duration_seconds",
				Help:        "Time spent executing action bodies",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		DelayPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "delay",
				Name:        "pending",
				Help:        "Number of tasks waiting in the delay executor",
				ConstLabels: cfg.Labels,
			},
			[]string{"executor_name"},
		),

		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "opqueue",
				Name:        "depth",
				Help:        "Number of operations waiting in the queue",
				ConstLabels: cfg.Labels,
			},
			[]string{"queue_name"},
		),

		QueueActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "opqueue",
				Name:        "active",
				Help:        "Number of operations currently executing",
				ConstLabels: cfg.Labels,
			},
			[]string{"queue_name"},
		),

		QueuePanics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "opqueue",
				Name:        "panics_total",
				Help:        "Total number of panics that escaped an operation",
				ConstLabels: cfg.Labels,
			},
			[]string{"queue_name"},
		),
	}
}

// ActionScheduled records an action accepted by a worker.
func (r *Registry) ActionScheduled(name string) {
	if r == nil {
		return
	}
	r.ActionsScheduled.WithLabelValues(name).Inc()
}

// ActionFinished records one executed action body.
func (r *Registry) ActionFinished(name string, d time.Duration, failed bool) {
	if r == nil {
		return
	}
	r.ActionsExecuted.WithLabelValues(name).Inc()
	r.ActionDuration.WithLabelValues(name).Observe(d.Seconds())
	if failed {
		r.ActionsFailed.WithLabelValues(name).Inc()
	} else {
		r.ActionsCompleted.WithLabelValues(name).Inc()
	}
}

// ActionCancelled records an action cancelled before it finished.
func (r *Registry) ActionCancelled(name string) {
	if r == nil {
		return
	}
	r.ActionsCancelled.WithLabelValues(name).Inc()
}

// SetDelayPending publishes the delay executor backlog.
func (r *Registry) SetDelayPending(name string, n int) {
	if r == nil {
		return
	}
	r.DelayPending.WithLabelValues(name).Set(float64(n))
}

// SetQueueState publishes operation queue depth and activity.
func (r *Registry) SetQueueState(name string, depth, active int) {
	if r == nil {
		return
	}
	r.QueueDepth.WithLabelValues(name).Set(float64(depth))
	r.QueueActive.WithLabelValues(name).Set(float64(active))
}

// QueuePanic records a panic recovered by a queue worker.
func (r *Registry) QueuePanic(name string) {
	if r == nil {
		return
	}
	r.QueuePanics.WithLabelValues(name).Inc()
}

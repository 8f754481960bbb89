package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lucamtudor/rxiosmoe/internal/testutil"
)

func TestRegistryCounters(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())

	r.ActionScheduled("ui")
	r.ActionScheduled("ui")
	r.ActionFinished("ui", time.Millisecond, false)
	r.ActionFinished("ui", time.Millisecond, true)
	r.ActionCancelled("ui")

	testutil.AssertEqual(t, promtest.ToFloat64(r.ActionsScheduled.WithLabelValues("ui")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.ActionsExecuted.WithLabelValues("ui")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.ActionsCompleted.WithLabelValues("ui")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.ActionsFailed.WithLabelValues("ui")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.ActionsCancelled.WithLabelValues("ui")), 1.0)
}

func TestRegistryGauges(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())

	r.SetDelayPending("shared", 4)
	r.SetQueueState("main", 7, 1)
	r.QueuePanic("main")

	testutil.AssertEqual(t, promtest.ToFloat64(r.DelayPending.WithLabelValues("shared")), 4.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.QueueDepth.WithLabelValues("main")), 7.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.QueueActive.WithLabelValues("main")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.QueuePanics.WithLabelValues("main")), 1.0)
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry

	r.ActionScheduled("x")
	r.ActionFinished("x", time.Second, true)
	r.ActionCancelled("x")
	r.SetDelayPending("x", 1)
	r.SetQueueState("x", 1, 1)
	r.QueuePanic("x")
}

func TestConfigBuild(t *testing.T) {
	cfg := Config{
		Enabled:   true,
		Registry:  prometheus.NewRegistry(),
		Namespace: "app",
		Labels:    prometheus.Labels{"version": "1"},
	}

	r := cfg.Build()
	testutil.AssertNotEqual(t, r, (*Registry)(nil))

	cfg.Enabled = false
	testutil.AssertEqual(t, cfg.Build(), (*Registry)(nil))

	def := DefaultConfig()
	testutil.AssertEqual(t, def.Namespace, DefaultNamespace)
	testutil.AssertEqual(t, def.Enabled, true)
}

package plugins

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lucamtudor/rxiosmoe/internal/testutil"
	rxerrors "github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/scheduler"
)

type stubScheduler struct{}

func (stubScheduler) CreateWorker() scheduler.Worker { return nil }
func (stubScheduler) Now() time.Time                 { return time.Time{} }

type tracingHook struct {
	DefaultSchedulersHook
	name string
}

func (h tracingHook) MainThreadScheduler() scheduler.Scheduler { return stubScheduler{} }

func TestSchedulersHookDefault(t *testing.T) {
	r := New()
	h := r.SchedulersHook()
	if _, ok := h.(DefaultSchedulersHook); !ok {
		t.Fatalf("default hook = %T", h)
	}
	testutil.AssertNil(t, h.MainThreadScheduler())

	tracker := testutil.NewCallbackTracker()
	a := r.OnSchedule(func(ctx context.Context) { tracker.Mark() })
	a(context.Background())
	tracker.AssertCallCount(t, 1)
}

func TestRegisterSchedulersHook(t *testing.T) {
	r := New()
	first := tracingHook{name: "first"}
	testutil.AssertNoError(t, r.RegisterSchedulersHook(first))

	err := r.RegisterSchedulersHook(tracingHook{name: "second"})
	if !rxerrors.IsStateError(err) {
		t.Fatalf("expected state error, got %v", err)
	}
	if !errors.Is(err, rxerrors.ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if !strings.Contains(err.Error(), "another strategy was already registered") {
		t.Errorf("Error() = %q", err)
	}

	testutil.AssertEqual(t, r.SchedulersHook().(tracingHook).name, "first")
	if _, ok := r.SchedulersHook().MainThreadScheduler().(stubScheduler); !ok {
		t.Error("expected the registered hook's scheduler")
	}
}

func TestRegisterAfterRead(t *testing.T) {
	r := New()
	_ = r.SchedulersHook()

	err := r.RegisterSchedulersHook(tracingHook{})
	if !rxerrors.IsStateError(err) {
		t.Fatalf("expected state error, got %v", err)
	}
	if !strings.Contains(err.Error(), "DefaultSchedulersHook") {
		t.Errorf("Error() = %q should name the present hook", err)
	}
}

func TestRegisterNil(t *testing.T) {
	r := New()
	if err := r.RegisterSchedulersHook(nil); !rxerrors.IsStateError(err) {
		t.Errorf("expected state error, got %v", err)
	}
	if err := r.RegisterErrorHandler(nil); !rxerrors.IsStateError(err) {
		t.Errorf("expected state error, got %v", err)
	}
	testutil.AssertNoError(t, r.RegisterSchedulersHook(DefaultSchedulersHook{}))
}

func TestConcurrentFirstReadsConverge(t *testing.T) {
	for round := 0; round < 20; round++ {
		r := New()
		// distinct instance per materialization
		r.handlers.newDefault = func() scheduler.ErrorHandler { return &testutil.ErrorRecorder{} }

		var wg sync.WaitGroup
		got := make([]scheduler.ErrorHandler, 32)
		for i := range got {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				got[i] = r.ErrorHandler()
			}(i)
		}
		wg.Wait()

		want := r.handlers.p.Load()
		for i := range got {
			if got[i] != want.v {
				t.Fatalf("round %d: reader %d saw a different handler", round, i)
			}
		}
	}
}

func TestReset(t *testing.T) {
	r := New()
	testutil.AssertNoError(t, r.RegisterSchedulersHook(tracingHook{name: "a"}))
	r.Reset()
	testutil.AssertNoError(t, r.RegisterSchedulersHook(tracingHook{name: "b"}))
	testutil.AssertEqual(t, r.SchedulersHook().(tracingHook).name, "b")
}

func TestErrorHandler(t *testing.T) {
	r := New()
	rec := &testutil.ErrorRecorder{}
	testutil.AssertNoError(t, r.RegisterErrorHandler(rec))

	r.HandleError(rxerrors.ErrTimeout)
	testutil.AssertEqual(t, rec.Len(), 1)

	err := r.RegisterErrorHandler(scheduler.ErrorHandlerFunc(func(error) {}))
	if !rxerrors.IsStateError(err) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestLogErrorHandler(t *testing.T) {
	w := testutil.NewMockWriter()
	prev := log.Logger
	log.Logger = zerolog.New(w)
	defer func() { log.Logger = prev }()

	LogErrorHandler{}.HandleError(rxerrors.NewFatalError("fatal", "boom", nil))

	out := w.String()
	if !strings.Contains(out, "unhandled error in scheduled action") || !strings.Contains(out, `"fatal":true`) {
		t.Errorf("log output = %q", out)
	}
}

func TestDefaultRegistry(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default returned different registries")
	}
}

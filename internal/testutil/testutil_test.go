package testutil

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventually(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		called := false
		Eventually(t, func() bool {
			called = true
			return true
		}, 100*time.Millisecond, 10*time.Millisecond)

		if !called {
			t.Error("condition function should be called")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var counter int32
		go func() {
			time.Sleep(50 * time.Millisecond)
			atomic.StoreInt32(&counter, 1)
		}()

		Eventually(t, func() bool {
			return atomic.LoadInt32(&counter) == 1
		}, 200*time.Millisecond, 10*time.Millisecond)
	})
}

func TestWaitForInt32(t *testing.T) {
	var value int32

	go func() {
		time.Sleep(30 * time.Millisecond)
		atomic.StoreInt32(&value, 42)
	}()

	WaitForInt32(t, &value, 42, 200*time.Millisecond)
}

func TestWaitForInt64(t *testing.T) {
	var value int64

	go func() {
		time.Sleep(30 * time.Millisecond)
		atomic.StoreInt64(&value, 100)
	}()

	WaitForInt64(t, &value, 100, 200*time.Millisecond)
}

func TestEventuallyWithContext(t *testing.T) {
	var flag atomic.Bool
	ctx, cancel := WithTimeout(t)
	defer cancel()

	go func() {
		time.Sleep(30 * time.Millisecond)
		flag.Store(true)
	}()

	EventuallyWithContext(t, ctx, flag.Load, 10*time.Millisecond)
}

func TestWaitClosed(t *testing.T) {
	ch := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(ch)
	}()
	WaitClosed(t, ch, time.Second)
}

func TestCallbackTracker(t *testing.T) {
	t.Run("value tracking", func(t *testing.T) {
		tracker := NewCallbackTracker()
		tracker.AssertNotCalled(t)

		tracker.Mark("first")
		tracker.Mark("second")

		tracker.AssertCalled(t)
		tracker.AssertCallCount(t, 2)
		AssertEqual(t, tracker.Value(), interface{}("second"))
	})

	t.Run("reset", func(t *testing.T) {
		tracker := NewCallbackTracker()
		tracker.Mark("test")
		tracker.Reset()

		AssertEqual(t, tracker.Called(), false)
		AssertNil(t, tracker.Value())
	})

	t.Run("concurrent access", func(t *testing.T) {
		tracker := NewCallbackTracker()

		const goroutines = 10
		const callsPerGoroutine = 100

		done := make(chan bool, goroutines)
		for i := 0; i < goroutines; i++ {
			go func() {
				for j := 0; j < callsPerGoroutine; j++ {
					tracker.Mark()
				}
				done <- true
			}()
		}
		for i := 0; i < goroutines; i++ {
			<-done
		}

		tracker.AssertCallCount(t, goroutines*callsPerGoroutine)
	})
}

func TestMocks(t *testing.T) {
	var w io.Writer = NewMockWriter()
	_, _ = w.Write([]byte("hello"))
	AssertEqual(t, w.(*MockWriter).String(), "hello")
	AssertEqual(t, w.(*MockWriter).WriteCount(), 1)

	var hooked int32
	h := NewCountingHandle(func() { atomic.AddInt32(&hooked, 1) })
	h.Cancel()
	h.Cancel()
	AssertEqual(t, h.Cancels(), 2)
	AssertEqual(t, h.IsCancelled(), true)
	AssertEqual(t, atomic.LoadInt32(&hooked), int32(2))

	rec := &ErrorRecorder{}
	rec.HandleError(errors.New("x"))
	AssertEqual(t, rec.Len(), 1)
}

func TestAssertions(t *testing.T) {
	AssertNoError(t, nil)
	AssertError(t, context.Canceled)
	AssertEqual(t, 42, 42)
	AssertNotEqual(t, 1, 2)
	AssertNil(t, nil)
	AssertNil(t, (*int)(nil))
}

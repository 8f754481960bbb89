package context

import (
	"context"
	"testing"
	"time"

	"github.com/lucamtudor/rxiosmoe/internal/testutil"
)

func TestIsInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	testutil.AssertEqual(t, IsInterrupted(ctx), false)
	cancel()
	testutil.AssertEqual(t, IsInterrupted(ctx), true)
}

func TestSleep(t *testing.T) {
	t.Run("completes", func(t *testing.T) {
		testutil.AssertEqual(t, Sleep(context.Background(), time.Millisecond), true)
		testutil.AssertEqual(t, Sleep(context.Background(), 0), true)
	})

	t.Run("interrupted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		start := time.Now()
		testutil.AssertEqual(t, Sleep(ctx, time.Minute), false)
		if time.Since(start) > time.Second {
			t.Error("Sleep was not interrupted promptly")
		}
	})
}

func TestIsTimedOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	testutil.AssertEqual(t, IsTimedOut(ctx), true)

	ctx2, cancel2 := context.WithCancel(context.Background())
	cancel2()
	testutil.AssertEqual(t, IsTimedOut(ctx2), false)
}

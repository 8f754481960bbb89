// Package context holds helpers for actions that cooperate with
// cancellation through their context.
package context

import (
	"context"
	"time"
)

// IsInterrupted reports whether ctx has been cancelled. Scheduled actions
// call it to notice that another goroutine cancelled them.
func IsInterrupted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Sleep pauses for d or until ctx is cancelled. It returns false if it was
// interrupted.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return !IsInterrupted(ctx)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// IsTimedOut reports whether ctx ended because its deadline passed.
func IsTimedOut(ctx context.Context) bool {
	return ctx.Err() == context.DeadlineExceeded
}

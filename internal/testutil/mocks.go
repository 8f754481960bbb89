package testutil

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// MockWriter is a concurrency-safe io.Writer used to capture log output.
type MockWriter struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	writeCount int
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeCount++
	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// Reset clears the buffer and counters.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.buf.Reset()
	mw.writeCount = 0
}

// CountingHandle is a cancellable handle that counts Cancel calls. It
// satisfies cancel.Handle structurally.
type CountingHandle struct {
	cancels  atomic.Int32
	OnCancel func()
}

// NewCountingHandle creates a handle with an optional cancel hook.
func NewCountingHandle(onCancel func()) *CountingHandle {
	return &CountingHandle{OnCancel: onCancel}
}

// Cancel records the call and runs OnCancel.
func (h *CountingHandle) Cancel() {
	h.cancels.Add(1)
	if h.OnCancel != nil {
		h.OnCancel()
	}
}

// IsCancelled reports whether Cancel was called at least once.
func (h *CountingHandle) IsCancelled() bool {
	return h.cancels.Load() > 0
}

// Cancels returns how many times Cancel was called.
func (h *CountingHandle) Cancels() int {
	return int(h.cancels.Load())
}

// ErrorRecorder collects errors passed to HandleError. It satisfies the
// scheduler and plugins error handler interfaces structurally.
type ErrorRecorder struct {
	mu   sync.Mutex
	errs []error
}

// HandleError records err.
func (r *ErrorRecorder) HandleError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Errors returns a copy of the recorded errors.
func (r *ErrorRecorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

// Len returns the number of recorded errors.
func (r *ErrorRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

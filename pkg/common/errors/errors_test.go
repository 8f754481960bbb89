package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrClosed", ErrClosed, "resource is closed"},
		{"ErrTimeout", ErrTimeout, "operation timed out"},
		{"ErrCapacityExceeded", ErrCapacityExceeded, "capacity exceeded"},
		{"ErrInvalidConfiguration", ErrInvalidConfiguration, "invalid configuration"},
		{"ErrRejected", ErrRejected, "execution rejected"},
		{"ErrAlreadyRegistered", ErrAlreadyRegistered, "already registered"},
		{"ErrOnErrorNotImplemented", ErrOnErrorNotImplemented, "no error handler implemented"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("error should not be nil")
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without hint",
			err: &ValidationError{
				Module: "opqueue",
				Field:  "MaxConcurrent",
				Value:  -1,
				Reason: "must be positive",
			},
			want: "opqueue: invalid MaxConcurrent=-1 (must be positive)",
		},
		{
			name: "with hint",
			err: &ValidationError{
				Module: "opqueue",
				Field:  "QueueSize",
				Value:  -2,
				Reason: "cannot be negative",
				Hint:   "use 0 for an unbounded queue",
			},
			want: "opqueue: invalid QueueSize=-2 (cannot be negative) - use 0 for an unbounded queue",
		},
		{
			name: "string value",
			err: &ValidationError{
				Module: "scheduler",
				Field:  "cron",
				Value:  "",
				Reason: "cannot be empty",
			},
			want: "scheduler: invalid cron= (cannot be empty)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	verr := NewValidationError("test", "field", 0, "test")

	if verr.Unwrap() != ErrInvalidConfiguration {
		t.Errorf("Unwrap() = %v, want ErrInvalidConfiguration", verr.Unwrap())
	}
	if !errors.Is(verr, ErrInvalidConfiguration) {
		t.Error("ValidationError should wrap ErrInvalidConfiguration")
	}
}

func TestValidationError_WithHint(t *testing.T) {
	err := NewValidationError("test", "field", 0, "invalid").
		WithHint("try using a positive value")

	if err.Hint != "try using a positive value" {
		t.Errorf("Hint = %q, want %q", err.Hint, "try using a positive value")
	}

	result := err.WithHint("new hint")
	if result != err {
		t.Error("WithHint should return the same instance")
	}
}

func TestOperationError(t *testing.T) {
	cause := errors.New("queue closed")
	err := NewOperationError("delay", "Submit", cause).WithContext("executor shut down")

	want := "delay.Submit failed: queue closed (executor shut down)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("OperationError should wrap the cause error")
	}

	plain := NewOperationError("opqueue", "Enqueue", ErrClosed)
	if got := plain.Error(); got != "opqueue.Enqueue failed: resource is closed" {
		t.Errorf("Error() = %q", got)
	}
}

func TestStateError(t *testing.T) {
	err := NewStateError("another strategy was already registered: %s", "hook")
	if got := err.Error(); got != "illegal state: another strategy was already registered: hook" {
		t.Errorf("Error() = %q", got)
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() should be nil without a cause")
	}

	err.WithCause(ErrAlreadyRegistered)
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Error("StateError should wrap its cause")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("Error() = %q should mention the cause", err.Error())
	}
}

func TestFatalError(t *testing.T) {
	t.Run("error value", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewFatalError("fatal", cause, []byte("stack"))

		if !errors.Is(err, cause) {
			t.Error("FatalError should wrap a recovered error")
		}
		if !IsStateError(err) {
			t.Error("FatalError should be a StateError")
		}
		if !IsFatal(err) {
			t.Error("IsFatal should match")
		}
		if err.Recovered != cause {
			t.Errorf("Recovered = %v, want %v", err.Recovered, cause)
		}
	})

	t.Run("non-error value", func(t *testing.T) {
		err := NewFatalError("fatal", "oops", nil)
		if !strings.Contains(err.Error(), "panic: oops") {
			t.Errorf("Error() = %q should contain the panic value", err.Error())
		}
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout error", ErrTimeout, true},
		{"capacity exceeded", ErrCapacityExceeded, true},
		{"closed error", ErrClosed, false},
		{"rejected error", ErrRejected, false},
		{"random error", errors.New("random"), false},
		{"wrapped timeout", &OperationError{Cause: ErrTimeout}, true},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rejected", ErrRejected, true},
		{"closed", ErrClosed, true},
		{"wrapped rejected", NewOperationError("delay", "Submit", ErrRejected), true},
		{"timeout", ErrTimeout, false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRejected(tt.err); got != tt.want {
				t.Errorf("IsRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"validation error",
			&ValidationError{Module: "test", Field: "field", Value: 0, Reason: "test"},
			true,
		},
		{
			"wrapped validation error",
			&OperationError{Cause: &ValidationError{Module: "test", Field: "field", Value: 0, Reason: "test"}},
			true,
		},
		{"operation error", &OperationError{Cause: errors.New("test")}, false},
		{"state error", NewStateError("bad"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.want {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

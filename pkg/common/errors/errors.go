package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the rxiosmoe library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCapacityExceeded indicates that a capacity limit was exceeded
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRejected indicates that an executor or queue refused to accept work,
	// typically because it has been shut down
	ErrRejected = errors.New("execution rejected")

	// ErrAlreadyRegistered indicates that a one-shot slot was already assigned
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrOnErrorNotImplemented is raised (or wrapped) by actions whose
	// downstream has no error handler attached. Scheduled actions that fail
	// with it are reported with a hint to add OnError handling.
	ErrOnErrorNotImplemented = errors.New("no error handler implemented")
)

// ValidationError describes an invalid configuration parameter.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError wraps a failure of a named operation.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// StateError reports programmer misuse: calling an operation while the
// receiver is in a state that does not allow it.
type StateError struct {
	Message string
	Cause   error
}

// NewStateError creates a StateError with a formatted message.
func NewStateError(format string, args ...interface{}) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}

// WithCause attaches the underlying error and returns the same error for chaining.
func (e *StateError) WithCause(cause error) *StateError {
	e.Cause = cause
	return e
}

func (e *StateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("illegal state: %s: %v", e.Message, e.Cause)
	}
	return "illegal state: " + e.Message
}

func (e *StateError) Unwrap() error {
	return e.Cause
}

// FatalError wraps a panic that escaped a scheduled action. There is no
// caller left to return it to, so it is reported to the error hook and
// re-raised on the goroutine that ran the action.
type FatalError struct {
	*StateError
	Recovered interface{}
	Stack     []byte
}

// NewFatalError wraps a recovered panic value.
func NewFatalError(message string, recovered interface{}, stack []byte) *FatalError {
	se := &StateError{Message: message}
	if err, ok := recovered.(error); ok {
		se.Cause = err
	} else {
		se.Cause = fmt.Errorf("panic: %v", recovered)
	}
	return &FatalError{StateError: se, Recovered: recovered, Stack: stack}
}

func (e *FatalError) Unwrap() error {
	return e.StateError
}

// IsRetryable returns true if the error indicates a condition that might
// be resolved by scheduling a fresh action later. Nothing in this module
// retries on its own.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrCapacityExceeded)
}

// IsRejected reports whether err means the work was refused outright.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected) || errors.Is(err, ErrClosed)
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsStateError reports whether err is or wraps a StateError.
func IsStateError(err error) bool {
	var serr *StateError
	return errors.As(err, &serr)
}

// IsFatal reports whether err is or wraps a FatalError.
func IsFatal(err error) bool {
	var ferr *FatalError
	return errors.As(err, &ferr)
}

package errors

import (
	"errors"
	"fmt"
)

// RuntimeError is the base interface for all runtime errors.
type RuntimeError interface {
	error
	IsRuntimeError() bool
}

// Compile-time verification that every error type implements RuntimeError.
var (
	_ RuntimeError = (*InvariantError)(nil)
	_ RuntimeError = (*ExecError)(nil)
	_ RuntimeError = (*CancelTimeoutError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNoActiveCommand indicates a Cancel named a handle with no active entry.
	// Per spec.md §4.4, this is not a failure — Cancel of a finished or
	// never-dispatched handle is a no-op, so it never escapes as a Go error —
	// but internal/activecmd.Table logs this sentinel at debug level on that
	// path, so it is still observable.
	ErrNoActiveCommand = errors.New("no active command for handle")

	// ErrAlreadyExiting indicates a command was dispatched after the
	// dispatcher's Shutdown has already run. The runtime loop itself never
	// triggers this path — Shutdown is deferred until Run returns — but a
	// Dispatcher reused past Shutdown logs this sentinel and drops the
	// command rather than starting new work.
	ErrAlreadyExiting = errors.New("runtime is shutting down")

	// ErrEmptyView indicates View returned a nil widget.
	ErrEmptyView = errors.New("view returned no widget: use the explicit clear widget")
)

// InvariantError indicates a fatal invariant violation (spec.md §7): debug-mode
// model/payload validation failure, a nil view result, or a malformed router
// guard registration. It is never recoverable and always propagates out of Run.
type InvariantError struct {
	Reason string
	Err    error
}

func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invariant violation: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

func (e *InvariantError) Unwrap() error { return e.Err }

// IsRuntimeError implements RuntimeError.
func (e *InvariantError) IsRuntimeError() bool { return true }

// ExecError indicates a System command could not be spawned. Per spec.md
// §4.4, this never escapes as a Go error — internal/shellexec wraps the
// spawn failure in one of these and the dispatcher carries it in the
// resulting StreamError.Err — but the type is exported so message payloads
// can carry a real error value through %w-chains.
type ExecError struct {
	CommandLine string
	Err         error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec %q: %v", e.CommandLine, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// IsRuntimeError implements RuntimeError.
func (e *ExecError) IsRuntimeError() bool { return true }

// CancelTimeoutError indicates a Custom worker outlived its grace period and
// was force-terminated. Never fatal; reported to the diagnostic sink only.
type CancelTimeoutError struct {
	Grace float64 // seconds
}

func (e *CancelTimeoutError) Error() string {
	return fmt.Sprintf("worker did not stop within %.3fs grace period, force-terminated", e.Grace)
}

// IsRuntimeError implements RuntimeError.
func (e *CancelTimeoutError) IsRuntimeError() bool { return true }

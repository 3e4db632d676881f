package fractal

import "github.com/tuirun/fractal/internal/errors"

// Re-export error types from the internal package.

// InvariantError indicates a fatal invariant violation (spec.md §7): debug-mode
// model/payload validation failure, a nil view result, or a malformed router
// guard registration. Never recoverable; always propagates out of Run.
type InvariantError = errors.InvariantError

// ExecError indicates a System command could not be spawned.
type ExecError = errors.ExecError

// CancelTimeoutError indicates a Custom worker outlived its grace period
// and was force-terminated. Reported only to the diagnostic sink, never
// returned as an error.
type CancelTimeoutError = errors.CancelTimeoutError

// RuntimeError is the base interface every error type above implements.
type RuntimeError = errors.RuntimeError

// Re-export sentinel errors from the internal package.
var (
	// ErrNoActiveCommand indicates a Cancel named a handle with no active
	// entry. Not a failure on its own — spec.md §4.4 treats this as a
	// documented no-op — but callers that want to observe it can compare
	// against this sentinel.
	ErrNoActiveCommand = errors.ErrNoActiveCommand

	// ErrAlreadyExiting indicates a command was dispatched after the
	// dispatcher's Shutdown had already run.
	ErrAlreadyExiting = errors.ErrAlreadyExiting

	// ErrEmptyView indicates View returned a nil widget.
	ErrEmptyView = errors.ErrEmptyView
)

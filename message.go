package fractal

import "fmt"

// Msg is an application-defined message (spec.md §3). The runtime itself
// never inspects a Msg's shape except for the concrete wrapper types below
// and the input events in package term; application code type-switches on
// its own message types inside Update, the same way a Bubble Tea Update
// method type-switches on tea.Msg.
type Msg any

// Model is an application-defined immutable value (spec.md §3), replaced —
// never mutated — by every Update return.
type Model any

// Tagged is the concrete Go encoding of the inbox message tuple
// `(tag, …payload)` spec.md §3 describes for Custom commands: Go has no
// runtime tuples, so Outlet.Put constructs one of these instead.
type Tagged struct {
	Tag     string
	Payload []any
}

func (t Tagged) String() string {
	return fmt.Sprintf("Tagged{%s, %v}", t.Tag, t.Payload)
}

// StreamKind distinguishes stdout from stderr for a streaming System command.
type StreamKind int

const (
	// StreamStdout marks a line read from the child's standard output.
	StreamStdout StreamKind = iota
	// StreamStderr marks a line read from the child's standard error.
	StreamStderr
)

func (k StreamKind) String() string {
	if k == StreamStderr {
		return "stderr"
	}

	return "stdout"
}

// SystemResult is the single message a batch (non-streaming) System command
// produces (spec.md §4.4, §6). Status is the process exit code; a process
// that could not be spawned at all produces a StreamError instead, never a
// SystemResult with a sentinel status — see SPEC_FULL.md §4.4.
type SystemResult struct {
	Tag    string
	Stdout string
	Stderr string
	Status int
}

// StreamLine is emitted once per line read from a streaming System command's
// stdout or stderr, in emission order within that stream (spec.md §4.4).
// Line retains its trailing newline, per spec.md §4.4.
type StreamLine struct {
	Tag    string
	Stream StreamKind
	Line   string
}

// StreamComplete is emitted exactly once, after a streaming System command's
// process exits and strictly after all of that command's StreamLine messages
// (spec.md §4.4, §5).
type StreamComplete struct {
	Tag    string
	Status int
}

// StreamError is emitted when a System command (batch or streaming) could
// not be spawned at all. No StreamComplete follows it for the same command.
// Err is the *internal/errors.ExecError internal/shellexec produced;
// Message is its formatted text, kept for callers that only want a string.
type StreamError struct {
	Tag     string
	Message string
	Err     error
}

// Routed is the concrete encoding of "a sequence whose head equals prefix"
// (spec.md §4.6): the typed-Go rendering of tagged routing, used by Route
// and Delegate instead of slice-head inspection. See SPEC_FULL.md §3.
type Routed struct {
	Prefix string
	Inner  Msg
}

// PanicNotice is the diagnostic message emitted when a Custom callable
// panics (spec.md §4.4, §7). The entry is removed from the active-command
// table before this is enqueued.
type PanicNotice struct {
	Handle    Handle
	Recovered any
	Stack     string
}

// ForceTerminationNotice is sent to the diagnostic sink (not the inbox, see
// WithDiagnosticSink) when a Cancel's grace period elapses and the worker
// had to be force-terminated (spec.md §4.4, §5). Err is the
// *internal/errors.CancelTimeoutError the dispatcher constructed for this
// timeout.
type ForceTerminationNotice struct {
	Handle Handle
	Grace  float64 // seconds; a GraceForever wait is never reported since it never elapses
	Err    error
}

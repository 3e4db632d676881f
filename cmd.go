package fractal

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Cmd is the closed command algebra from spec.md §3: a sum type of every
// side-effect descriptor the runtime knows how to dispatch. It is modeled
// as an exported interface with an unexported marker method, plus
// compile-time `var _ Cmd = T{}` assertions — rather than a tagged
// union or reflection-based switch.
type Cmd interface {
	isCmd()
}

var (
	_ Cmd = ExitCmd{}
	_ Cmd = SystemCmd{}
	_ Cmd = MappedCmd{}
	_ Cmd = CustomCmd{}
	_ Cmd = CancelCmd{}
)

// ExitCmd terminates the runtime loop. It never reaches the dispatcher —
// Run short-circuits on it (spec.md §4.4).
type ExitCmd struct{}

func (ExitCmd) isCmd() {}

// Exit builds the command that terminates Run's loop.
func Exit() Cmd { return ExitCmd{} }

// SystemCmd executes a subprocess (spec.md §3, §4.4). CommandLine is a
// single string interpreted by the host shell (spec.md §6) — there is no
// managed binary discovery step because a System command is an opaque
// shell invocation, not an SDK-owned tool.
type SystemCmd struct {
	CommandLine string
	Tag         string
	Stream      bool
}

func (SystemCmd) isCmd() {}

// System builds a batch SystemCmd: the dispatcher collects full stdout,
// stderr, and the exit status, then emits exactly one SystemResult.
func System(commandLine, tag string) Cmd {
	return SystemCmd{CommandLine: commandLine, Tag: tag}
}

// StreamingSystem builds a streaming SystemCmd: the dispatcher emits one
// StreamLine per output line as it is produced, then one StreamComplete
// after the child exits (spec.md §4.4).
func StreamingSystem(commandLine, tag string) Cmd {
	return SystemCmd{CommandLine: commandLine, Tag: tag, Stream: true}
}

// MappedCmd wraps inner so that every message it produces passes through
// Mapper before reaching the outer inbox (spec.md §3, §4.4).
type MappedCmd struct {
	Inner  Cmd
	Mapper func(Msg) Msg
}

func (MappedCmd) isCmd() {}

// Map builds a MappedCmd. Map(Map(c, f), g) composes: the dispatcher
// recurses into inner commands (see dispatch.go), so dispatching the result
// applies f then g to every message inner produces, without any special
// casing for nested Mapped values (spec.md §8, §9).
func Map(inner Cmd, mapper func(Msg) Msg) Cmd {
	return MappedCmd{Inner: inner, Mapper: mapper}
}

// GraceForever tells Cancel to wait indefinitely for a cooperative stop and
// never force-terminate the worker (spec.md §4.4 step (d)).
const GraceForever time.Duration = -1

// DefaultGrace is the grace period a Custom command falls back to when
// neither WithGrace nor the runtime's configured default grace
// (RunOption WithDefaultGrace / FRACTAL_DEFAULT_GRACE_SECONDS) applies —
// matching spec.md §4.3's `custom(callable, grace=2.0)` default. The
// dispatcher substitutes this only when a Dispatcher was built with no
// configured default of its own (see dispatch.go NewDispatcher).
const DefaultGrace = 2 * time.Second

// Handle is the unique identity of a dispatched Custom command (spec.md
// glossary). Two Custom calls wrapping the same callable produce distinct,
// non-equal handles: handle is a pointer type, so Go's built-in pointer
// identity provides the uniqueness guarantee directly; the embedded ULID is
// there only to make a handle printable and sortable in logs.
type Handle = *handle

type handle struct {
	id ulid.ULID
}

// String renders the handle's log-friendly identity. Two handles are equal
// only by pointer identity (==), never by this string.
func (h *handle) String() string {
	if h == nil {
		return "<nil>"
	}

	return h.id.String()
}

func newHandle() Handle {
	return &handle{id: ulid.Make()}
}

// CustomCmd runs a user-supplied effect on a worker goroutine, given an
// Outlet to publish messages and a CancellationToken to observe (spec.md
// §3, §4.4). A zero Grace means "use the runtime's configured default
// grace" — the dispatcher resolves it at dispatch time (see dispatch.go
// dispatchCustom) — rather than baking a fixed constant into every command
// built before Run even applies WithDefaultGrace/FRACTAL_DEFAULT_GRACE_SECONDS.
type CustomCmd struct {
	Handle Handle
	Fn     func(Outlet, CancellationToken)
	Grace  time.Duration
}

func (CustomCmd) isCmd() {}

// CustomOption configures a CustomCmd at construction time.
type CustomOption func(*CustomCmd)

// WithGrace overrides the grace period for a Cancel of this specific
// command, taking precedence over the runtime's configured default grace.
func WithGrace(d time.Duration) CustomOption {
	return func(c *CustomCmd) { c.Grace = d }
}

// Custom builds a CustomCmd with a fresh Handle, even when fn is shared
// across calls (spec.md §3 invariant). Grace is left unset (0) unless
// WithGrace is given, so the runtime's configured default grace applies.
func Custom(fn func(Outlet, CancellationToken), opts ...CustomOption) Cmd {
	c := CustomCmd{Handle: newHandle(), Fn: fn}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// CancelCmd requests cancellation of the Custom command identified by
// Handle. Cancellation is itself a command — spec.md §4.3 invariant — never
// a side channel.
type CancelCmd struct {
	Handle Handle
}

func (CancelCmd) isCmd() {}

// Cancel builds the command that requests cancellation of h.
func Cancel(h Handle) Cmd {
	return CancelCmd{Handle: h}
}

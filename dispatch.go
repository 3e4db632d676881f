package fractal

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	rterrors "github.com/tuirun/fractal/internal/errors"

	"github.com/tuirun/fractal/internal/activecmd"
	"github.com/tuirun/fractal/internal/shellexec"
)

// Dispatcher translates a Cmd value into concurrent work and inbox
// messages (spec.md §4.4, C4). It owns the active-command table and the
// worker set; the runtime loop owns everything else.
type Dispatcher struct {
	push          func(Msg)
	diagnostic    func(Msg)
	validate      bool
	active        *activecmd.Table
	eg            *errgroup.Group
	shutdownGrace time.Duration
	defaultGrace  time.Duration
	log           *slog.Logger
	shellLog      *slog.Logger
	closed        atomic.Bool
}

// NewDispatcher builds a Dispatcher. push enqueues a message onto the
// runtime inbox; diagnostic reports force-termination warnings, which go
// to a separate diagnostic sink, never the inbox itself. A Custom callable
// panic is not sent to diagnostic: it is pushed to the inbox as a
// PanicNotice (see dispatchCustom). defaultGrace is the grace a Custom command uses
// when it was built with no explicit WithGrace (CustomCmd.Grace == 0); a
// zero defaultGrace falls back to the package constant DefaultGrace. log
// is tagged "component"="dispatcher"; a nil log is treated as discard.
func NewDispatcher(push func(Msg), diagnostic func(Msg), validate bool, shutdownGrace, defaultGrace time.Duration, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if defaultGrace == 0 {
		defaultGrace = DefaultGrace
	}

	log = log.With("component", "dispatcher")

	return &Dispatcher{
		push:          push,
		diagnostic:    diagnostic,
		validate:      validate,
		active:        activecmd.NewTable(log.With("component", "activecmd")),
		eg:            &errgroup.Group{},
		shutdownGrace: shutdownGrace,
		defaultGrace:  defaultGrace,
		log:           log,
		shellLog:      log.With("component", "shellexec"),
	}
}

// Dispatch runs cmd's side effect. ExitCmd is handled by the loop before it
// ever reaches here (spec.md §4.4). A Dispatch after Shutdown has already
// run logs internal/errors.ErrAlreadyExiting and drops cmd rather than
// starting new work.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Cmd) {
	if d.closed.Load() {
		d.log.Warn("dispatch after shutdown, dropping command", "error", rterrors.ErrAlreadyExiting)

		return
	}

	switch c := cmd.(type) {
	case nil:
		return
	case ExitCmd:
		return
	case SystemCmd:
		d.dispatchSystem(ctx, c)
	case MappedCmd:
		d.dispatchMapped(ctx, c)
	case CustomCmd:
		d.dispatchCustom(c)
	case CancelCmd:
		d.dispatchCancel(c)
	}
}

func (d *Dispatcher) dispatchSystem(ctx context.Context, c SystemCmd) {
	d.eg.Go(func() error {
		if c.Stream {
			d.runStreaming(ctx, c)
		} else {
			d.runBatch(ctx, c)
		}

		return nil
	})
}

func (d *Dispatcher) runBatch(ctx context.Context, c SystemCmd) {
	res, err := shellexec.RunBatch(ctx, d.shellLog, c.CommandLine)
	if err != nil {
		d.push(StreamError{Tag: c.Tag, Message: err.Error(), Err: err})

		return
	}

	d.push(SystemResult{Tag: c.Tag, Stdout: res.Stdout, Stderr: res.Stderr, Status: res.Status})
}

func (d *Dispatcher) runStreaming(ctx context.Context, c SystemCmd) {
	status, err := shellexec.RunStreaming(ctx, d.shellLog, c.CommandLine, func(stream shellexec.Stream, line string) {
		kind := StreamStdout
		if stream == shellexec.Stderr {
			kind = StreamStderr
		}

		d.push(StreamLine{Tag: c.Tag, Stream: kind, Line: line})
	})
	if err != nil {
		d.push(StreamError{Tag: c.Tag, Message: err.Error(), Err: err})

		return
	}

	d.push(StreamComplete{Tag: c.Tag, Status: status})
}

// dispatchMapped dispatches inner into a private sub-inbox and forwards
// each message it produces through mapper, preserving inner's ordering
// (spec.md §4.4, §5, design note 9). Mapped(Mapped(c, f), g) needs no
// special case: dispatching the inner MappedCmd recursively already
// applies f before this forwarder applies g, yielding g∘f.
func (d *Dispatcher) dispatchMapped(ctx context.Context, c MappedCmd) {
	inner := &Dispatcher{
		push:          func(m Msg) { d.push(c.Mapper(m)) },
		diagnostic:    d.diagnostic,
		validate:      d.validate,
		active:        d.active,
		eg:            d.eg,
		shutdownGrace: d.shutdownGrace,
		defaultGrace:  d.defaultGrace,
		log:           d.log,
		shellLog:      d.shellLog,
	}
	inner.Dispatch(ctx, c.Inner)
}

// dispatchCustom spawns c.Fn on a tracked worker, recording it in the
// active-command table under c.Handle so a later Cancel can find it
// (spec.md §4.4). A zero c.Grace resolves to d.defaultGrace.
func (d *Dispatcher) dispatchCustom(c CustomCmd) {
	grace := c.Grace
	if grace == 0 {
		grace = d.defaultGrace
	}

	token := NewCancellationToken()
	outlet := NewOutlet(d.push, d.validate)
	done := make(chan struct{})

	d.active.Register(c.Handle, token.Cancel, done, grace)

	d.eg.Go(func() (err error) {
		defer func() {
			d.active.Remove(c.Handle)

			if r := recover(); r != nil {
				d.log.Error("custom command panicked", "handle", c.Handle, "recovered", r)
				d.push(PanicNotice{Handle: c.Handle, Recovered: r, Stack: string(debug.Stack())})
			}

			close(done)
		}()

		c.Fn(outlet, token)

		return nil
	})
}

// dispatchCancel requests cooperative cancellation of c.Handle's worker.
// An unknown handle is a documented no-op (spec.md §4.4, §8 "Cancellation
// safety") — internal/activecmd.Table logs internal/errors.ErrNoActiveCommand
// for that case itself. A worker that outlives its grace period is
// abandoned: the table forgets it immediately so it is no longer
// addressable, and a ForceTerminationNotice carrying a CancelTimeoutError
// reaches the diagnostic sink, never the inbox.
func (d *Dispatcher) dispatchCancel(c CancelCmd) {
	grace, _ := d.active.GraceOf(c.Handle)

	ok, timedOut := d.active.Cancel(c.Handle)
	if !ok {
		return
	}

	if timedOut {
		d.active.Remove(c.Handle)
		d.reportTimeout(c.Handle, grace)
	}
}

func (d *Dispatcher) reportTimeout(h Handle, grace time.Duration) {
	err := &rterrors.CancelTimeoutError{Grace: grace.Seconds()}
	d.log.Warn("worker outlived grace period, abandoning", "handle", h, "error", err)

	if d.diagnostic != nil {
		d.diagnostic(ForceTerminationNotice{Handle: h, Grace: grace.Seconds(), Err: err})
	}
}

// Sync joins every worker spawned by this dispatcher so far (spec.md §4.5
// step 3.d, §5). It is the Go rendering of "join every pending worker":
// errgroup.Group.Wait blocks until all Go calls made up to this point have
// returned.
func (d *Dispatcher) Sync() error {
	return d.eg.Wait()
}

// Shutdown signals every active Custom worker, waits up to the configured
// shutdown grace window for cooperative stops, and clears the table
// (spec.md §4.4 "Shutdown discipline"). Every survivor gets the same
// shutdown window, not its own per-command grace. It does not wait for
// System commands in flight; those are not addressable through the
// active-command table and spec.md names no shutdown contract for them.
// Once Shutdown has run, further Dispatch calls are rejected (see Dispatch).
func (d *Dispatcher) Shutdown() {
	defer d.closed.Store(true)

	for _, h := range d.active.Handles() {
		ok, timedOut := d.active.CancelWithGrace(h, d.shutdownGrace)
		if ok && timedOut {
			d.reportTimeout(h.(Handle), d.shutdownGrace)
		}

		d.active.Remove(h)
	}
}

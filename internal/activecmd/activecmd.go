package activecmd

import (
	"log/slog"
	"sync"
	"time"

	rterrors "github.com/tuirun/fractal/internal/errors"
)

// entry is one in-flight Custom worker.
type entry struct {
	cancel func()
	done   <-chan struct{}
	grace  time.Duration
}

// Table is the mutex-guarded handle -> entry map. The zero value is ready
// to use, logging nothing; NewTable attaches a component logger.
type Table struct {
	mu      sync.Mutex
	entries map[any]entry
	log     *slog.Logger
}

// NewTable builds a Table that logs through log (component "activecmd").
// A nil log is treated as discard, same as the zero value.
func NewTable(log *slog.Logger) *Table {
	return &Table{log: log}
}

func (t *Table) logger() *slog.Logger {
	if t.log == nil {
		return slog.New(slog.DiscardHandler)
	}

	return t.log
}

// Register records a running worker under handle. cancel requests its
// cooperative stop; done must close when the worker returns; grace is the
// window Cancel waits before giving up on this worker specifically (it
// travels with the Custom command that spawned the worker, not with the
// later Cancel call — spec.md §4.3/§4.4). handle is typically a
// fractal.Handle (itself a pointer), used only as a comparable map key — this
// package never dereferences it.
func (t *Table) Register(handle any, cancel func(), done <-chan struct{}, grace time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entries == nil {
		t.entries = make(map[any]entry)
	}

	t.entries[handle] = entry{cancel: cancel, done: done, grace: grace}
}

// Remove drops handle's entry, if any. Safe to call after the worker has
// already finished or never existed.
func (t *Table) Remove(handle any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, handle)
}

// Cancel requests cooperative cancellation of handle's worker and waits up
// to its registered grace period for it to finish. It reports:
//
//   - ok=false when handle names no active entry (spec.md §4.4: a no-op,
//     not an error);
//   - timedOut=true when grace elapsed before the worker signaled done.
//
// A negative grace (fractal.GraceForever) waits indefinitely and never
// reports a timeout. Cancel does not remove the entry on timeout; the
// caller decides whether to abandon it (see dispatch.go), and the worker's
// own completion path removes it once it actually returns.
func (t *Table) Cancel(handle any) (ok bool, timedOut bool) {
	return t.cancelWith(handle, nil)
}

// CancelWithGrace behaves like Cancel but waits up to grace regardless of
// the value the worker was registered with. The runtime loop's shutdown
// discipline uses this: every survivor gets the same shutdown window,
// not its own per-command grace (spec.md §4.4 "Shutdown discipline").
func (t *Table) CancelWithGrace(handle any, grace time.Duration) (ok bool, timedOut bool) {
	return t.cancelWith(handle, &grace)
}

func (t *Table) cancelWith(handle any, override *time.Duration) (ok bool, timedOut bool) {
	t.mu.Lock()
	e, found := t.entries[handle]
	t.mu.Unlock()

	if !found {
		t.logger().Debug("cancel: no active command for handle", "error", rterrors.ErrNoActiveCommand)

		return false, false
	}

	e.cancel()

	grace := e.grace
	if override != nil {
		grace = *override
	}

	if grace < 0 {
		<-e.done

		return true, false
	}

	select {
	case <-e.done:
		return true, false
	case <-time.After(grace):
		t.logger().Warn("worker outlived grace period, force-terminating",
			"error", &rterrors.CancelTimeoutError{Grace: grace.Seconds()})

		return true, true
	}
}

// GraceOf reports the grace period handle was registered with, if it is
// still active.
func (t *Table) GraceOf(handle any) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, found := t.entries[handle]
	if !found {
		return 0, false
	}

	return e.grace, true
}

// Handles returns a snapshot of every currently registered handle.
func (t *Table) Handles() []any {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]any, 0, len(t.entries))
	for h := range t.entries {
		out = append(out, h)
	}

	return out
}

// Len reports the number of currently registered workers.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

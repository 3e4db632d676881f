// Package activecmd tracks in-flight Custom command workers so Cancel can
// find them by handle, request cooperative cancellation, and wait out a
// grace period before giving up on a worker that will not stop (spec.md
// §4.3, §4.4, §5): a mutex-guarded map keyed by an opaque identity, with a
// per-entry done channel signaling completion. NewTable attaches a
// *slog.Logger, tagged "component"="activecmd", that reports both named
// non-fatal conditions: Cancel of an unknown handle logs
// internal/errors.ErrNoActiveCommand at debug level, and a worker that
// outlives its grace logs an internal/errors.CancelTimeoutError at warn
// level.
//
// Go cannot forcibly kill a goroutine. "Force-terminate" here means the
// table stops waiting on the worker and reports it abandoned; the goroutine
// itself keeps running until it next checks its CancellationToken. This is
// the honest Go rendering of spec.md §4.4 step (d): the promised behavior
// is only that the runtime proceeds, never that the underlying process
// dies.
package activecmd

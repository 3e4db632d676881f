package fractal

import (
	"log/slog"
	"time"

	"github.com/tuirun/fractal/internal/config"
)

// RunOption configures Run, in the standard functional-options style.
type RunOption func(*config.Options)

// WithLogger sets the logger every internal component tags with
// `.With("component", ...)`. A nil logger is treated as silent operation.
func WithLogger(l *slog.Logger) RunOption {
	return func(o *config.Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithPollInterval overrides the bounded-timeout poll window for input
// events (spec.md §4.5 step 3.b). Overridable at runtime via
// FRACTAL_POLL_INTERVAL_MS.
func WithPollInterval(d time.Duration) RunOption {
	return func(o *config.Options) { o.PollInterval = d }
}

// WithDefaultGrace overrides the grace period the dispatcher resolves a
// Custom command to when it was built with no explicit WithGrace (spec.md
// §4.3). Overridable at runtime via FRACTAL_DEFAULT_GRACE_SECONDS.
func WithDefaultGrace(d time.Duration) RunOption {
	return func(o *config.Options) { o.DefaultGrace = d }
}

// WithShutdownGrace overrides the window Exit's shutdown discipline waits
// for active Custom workers before force-terminating survivors (spec.md
// §4.4).
func WithShutdownGrace(d time.Duration) RunOption {
	return func(o *config.Options) { o.ShutdownGrace = d }
}

// WithValidateImmutability turns on deep immutability validation for the
// model and every Outlet payload (spec.md §4.2, §4.5). Off by default for
// performance.
func WithValidateImmutability(on bool) RunOption {
	return func(o *config.Options) { o.ValidateImmutability = on }
}

// WithDiagnosticSink overrides the callback that receives force-termination
// warnings (spec.md §6 "Error sink"). sink receives a ForceTerminationNotice
// value. A Custom callable panic is not routed here: it is enqueued into the
// application's own inbox as a PanicNotice, since it is application-visible
// state rather than an operational diagnostic. When no WithDiagnosticSink is
// given, Run defaults the sink to an adapter that logs through the configured
// logger instead of dropping force-termination warnings on the floor.
func WithDiagnosticSink(sink func(msg any)) RunOption {
	return func(o *config.Options) { o.DiagnosticSink = sink }
}

// WithInit supplies a message produced once, before Run ever polls the
// terminal, and fed through update just like any other message (spec.md
// §4.5 step 2). Useful for kicking off an initial Custom or System command.
func WithInit(fn func() Msg) RunOption {
	return func(o *config.Options) {
		o.Init = func() any { return fn() }
	}
}

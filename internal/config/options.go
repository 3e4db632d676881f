// Package config holds the runtime's resolved configuration: the
// functional-options target assembled by the public Option values in
// options.go, and the environment-variable overrides read once at Run
// start.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultPollInterval is the bounded-timeout poll window for input
	// events (spec.md §4.5 step 3.b, design target ≈16ms for ~60Hz).
	DefaultPollInterval = 16 * time.Millisecond

	// DefaultGrace is the grace period a Custom command waits for
	// cooperative cancellation when none is requested explicitly
	// (spec.md §4.3 `custom(callable, grace=2.0)`).
	DefaultGrace = 2 * time.Second

	// DefaultShutdownGrace is the window Exit's shutdown discipline waits
	// for every active Custom worker to stop cooperatively before
	// force-terminating survivors (spec.md §4.4 "e.g. 100ms").
	DefaultShutdownGrace = 100 * time.Millisecond
)

// Options is the resolved runtime configuration, assembled by applying
// every Option in order and then layering environment overrides on top.
type Options struct {
	Logger               *slog.Logger
	PollInterval         time.Duration
	DefaultGrace         time.Duration
	ShutdownGrace        time.Duration
	ValidateImmutability bool
	DiagnosticSink       func(msg any)

	// Init, if set, produces the first message Run feeds through update
	// before ever polling the terminal (spec.md §4.5 step 2, "optional
	// init"). Nil means no init message.
	Init func() any
}

// New returns the defaults every Run starts from, before Option values and
// environment overrides are applied.
func New() *Options {
	return &Options{
		Logger:        slog.New(slog.DiscardHandler),
		PollInterval:  DefaultPollInterval,
		DefaultGrace:  DefaultGrace,
		ShutdownGrace: DefaultShutdownGrace,
	}
}

// ApplyEnv layers environment-variable overrides on top of o using an
// env-override-with-fallback idiom: a present, valid, positive value wins;
// anything else is ignored rather than rejected.
func (o *Options) ApplyEnv() {
	if ms, ok := envInt("FRACTAL_POLL_INTERVAL_MS"); ok {
		o.PollInterval = time.Duration(ms) * time.Millisecond
	}

	if secs, ok := envFloat("FRACTAL_DEFAULT_GRACE_SECONDS"); ok {
		o.DefaultGrace = time.Duration(secs * float64(time.Second))
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

func envFloat(name string) (float64, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}

	return f, true
}

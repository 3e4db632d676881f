package fractal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tuirun/fractal/internal/config"
)

func TestRunOptions_ApplyOverConfigDefaults(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	sinkCalls := 0

	o := config.New()
	for _, opt := range []RunOption{
		WithLogger(logger),
		WithPollInterval(5 * time.Millisecond),
		WithDefaultGrace(time.Second),
		WithShutdownGrace(10 * time.Millisecond),
		WithValidateImmutability(true),
		WithDiagnosticSink(func(any) { sinkCalls++ }),
		WithInit(func() Msg { return "boot" }),
	} {
		opt(o)
	}

	require.Same(t, logger, o.Logger)
	require.Equal(t, 5*time.Millisecond, o.PollInterval)
	require.Equal(t, time.Second, o.DefaultGrace)
	require.Equal(t, 10*time.Millisecond, o.ShutdownGrace)
	require.True(t, o.ValidateImmutability)

	o.DiagnosticSink(nil)
	require.Equal(t, 1, sinkCalls)

	require.Equal(t, "boot", o.Init())
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	o := config.New()
	original := o.Logger

	WithLogger(nil)(o)
	require.Same(t, original, o.Logger)
}

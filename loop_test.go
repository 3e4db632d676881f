package fractal

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tuirun/fractal/internal/testterm"
	"github.com/tuirun/fractal/term"
)

// echoModel and its update/view implement spec.md §8 scenario 1.
type echoModel struct {
	n int
}

func echoUpdate(msg Msg, model Model) (Model, Cmd) {
	m := model.(echoModel)

	key, ok := msg.(term.KeyEvent)
	if !ok {
		return m, nil
	}

	switch {
	case key.Key == term.KeyRune && key.Rune == 'a':
		return echoModel{n: m.n + 1}, nil
	case key.Q():
		return m, Exit()
	default:
		return m, nil
	}
}

func echoView(model Model) term.Widget {
	return model.(echoModel)
}

func TestRun_EchoScenario(t *testing.T) {
	fake := testterm.New(80, 24)
	fake.Inject(
		term.KeyEvent{Key: term.KeyRune, Rune: 'a'},
		term.KeyEvent{Key: term.KeyRune, Rune: 'a'},
		term.KeyEvent{Key: term.KeyRune, Rune: 'a'},
		term.KeyEvent{Key: term.KeyRune, Rune: 'q'},
	)

	final, err := Run(echoModel{n: 0}, echoView, echoUpdate, fake)
	require.NoError(t, err)
	require.Equal(t, echoModel{n: 3}, final)
}

// start is the sentinel init message used below to kick off a command
// before the loop ever polls the terminal, so dispatch never races against
// injected key events.
type start struct{}

func TestRun_BatchSubprocess(t *testing.T) {
	type model struct {
		result *SystemResult
	}

	view := func(m Model) term.Widget { return "view" }

	update := func(msg Msg, mdl Model) (Model, Cmd) {
		m := mdl.(model)

		switch v := msg.(type) {
		case start:
			return m, System("echo hi", "out")
		case SystemResult:
			m.result = &v
			return m, Exit()
		}

		return m, nil
	}

	fake := testterm.New(80, 24)

	final, err := Run(model{}, view, update, fake, WithInit(func() Msg { return start{} }))
	require.NoError(t, err)

	got := final.(model)
	require.NotNil(t, got.result)
	require.Equal(t, SystemResult{Tag: "out", Stdout: "hi\n", Stderr: "", Status: 0}, *got.result)
}

func TestRun_StreamingSubprocess(t *testing.T) {
	type model struct {
		stdout   []string
		stderr   []string
		complete *StreamComplete
	}

	view := func(m Model) term.Widget { return "view" }

	update := func(msg Msg, mdl Model) (Model, Cmd) {
		m := mdl.(model)

		switch v := msg.(type) {
		case start:
			return m, StreamingSystem(`printf 'a\nb\n'; printf 'x\n' 1>&2`, "s")
		case StreamLine:
			if v.Stream == StreamStdout {
				m.stdout = append(m.stdout, v.Line)
			} else {
				m.stderr = append(m.stderr, v.Line)
			}
			return m, nil
		case StreamComplete:
			m.complete = &v
			return m, Exit()
		}

		return m, nil
	}

	fake := testterm.New(80, 24)

	final, err := Run(model{}, view, update, fake, WithInit(func() Msg { return start{} }))
	require.NoError(t, err)

	got := final.(model)
	require.Equal(t, []string{"a\n", "b\n"}, got.stdout)
	require.Equal(t, []string{"x\n"}, got.stderr)
	require.NotNil(t, got.complete)
	require.Equal(t, 0, got.complete.Status)
}

func TestRun_MappedRouting(t *testing.T) {
	type model struct {
		routed *Routed
	}

	view := func(m Model) term.Widget { return "view" }

	update := func(msg Msg, mdl Model) (Model, Cmd) {
		m := mdl.(model)

		switch v := msg.(type) {
		case start:
			return m, Map(System("echo ok", "done"), func(inner Msg) Msg {
				return Routed{Prefix: "child", Inner: inner}
			})
		case Routed:
			m.routed = &v
			return m, Exit()
		}

		return m, nil
	}

	fake := testterm.New(80, 24)

	final, err := Run(model{}, view, update, fake, WithInit(func() Msg { return start{} }))
	require.NoError(t, err)

	got := final.(model)
	require.NotNil(t, got.routed)
	require.Equal(t, "child", got.routed.Prefix)
	require.Equal(t, SystemResult{Tag: "done", Stdout: "ok\n", Stderr: "", Status: 0}, got.routed.Inner)
}

func TestRun_CooperativeCancellation(t *testing.T) {
	type model struct {
		handle    Handle
		ticks     int
		cancelled bool
	}

	view := func(m Model) term.Widget { return "view" }

	var fake *testterm.Fake

	update := func(msg Msg, mdl Model) (Model, Cmd) {
		m := mdl.(model)

		switch v := msg.(type) {
		case start:
			cmd := Custom(func(o Outlet, tok CancellationToken) {
				for !tok.Cancelled() {
					_ = o.Put("tick")
					time.Sleep(2 * time.Millisecond)
				}
			}, WithGrace(200*time.Millisecond))
			m.handle = cmd.(CustomCmd).Handle

			return m, cmd
		case Tagged:
			if v.Tag != "tick" {
				return m, nil
			}

			m.ticks++
			if m.ticks == 2 && !m.cancelled {
				m.cancelled = true

				go func() {
					time.Sleep(50 * time.Millisecond)
					fake.Inject(term.KeyEvent{Key: term.KeyRune, Rune: 'q'})
				}()

				return m, Cancel(m.handle)
			}

			return m, nil
		case term.KeyEvent:
			if v.Q() {
				return m, Exit()
			}
		}

		return m, nil
	}

	fake = testterm.New(80, 24)

	final, err := Run(model{}, view, update, fake, WithInit(func() Msg { return start{} }))
	require.NoError(t, err)

	got := final.(model)
	require.True(t, got.cancelled)
	require.GreaterOrEqual(t, got.ticks, 2)
}

// captureHandler is a minimal slog.Handler that records every call, used to
// assert on the default diagnostic sink's log output without a real writer.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, r)

	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(_ string) slog.Handler      { return h }

func (h *captureHandler) snapshot() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]slog.Record, len(h.records))
	copy(out, h.records)

	return out
}

// TestRun_DefaultDiagnosticSinkLogsForceTermination covers SPEC_FULL.md §7's
// claim that, absent WithDiagnosticSink, force-termination is logged through
// the configured logger rather than silently dropped.
func TestRun_DefaultDiagnosticSinkLogsForceTermination(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	var fake *testterm.Fake

	view := func(m Model) term.Widget { return "view" }
	update := func(msg Msg, mdl Model) (Model, Cmd) {
		switch v := msg.(type) {
		case start:
			go func() {
				time.Sleep(20 * time.Millisecond)
				fake.Inject(term.KeyEvent{Key: term.KeyRune, Rune: 'q'})
			}()

			return mdl, Custom(func(_ Outlet, _ CancellationToken) {
				<-make(chan struct{}) // never observes cancellation
			})
		case term.KeyEvent:
			if v.Q() {
				return mdl, Exit()
			}
		}

		return mdl, nil
	}

	fake = testterm.New(80, 24)

	_, err := Run(struct{}{}, view, update, fake,
		WithInit(func() Msg { return start{} }),
		WithLogger(logger),
		WithShutdownGrace(5*time.Millisecond),
	)
	require.NoError(t, err)

	var found bool
	for _, r := range handler.snapshot() {
		if r.Level == slog.LevelWarn && r.Message == "custom command force-terminated" {
			found = true
		}
	}
	require.True(t, found, "expected a force-termination warning through the default diagnostic sink")
}

func TestRun_EmptyViewIsInvariantViolation(t *testing.T) {
	fake := testterm.New(80, 24)

	view := func(m Model) term.Widget { return nil }
	update := func(msg Msg, mdl Model) (Model, Cmd) { return mdl, nil }

	_, err := Run(struct{}{}, view, update, fake)
	require.Error(t, err)
}

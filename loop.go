package fractal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuirun/fractal/internal/config"
	rterrors "github.com/tuirun/fractal/internal/errors"
	"github.com/tuirun/fractal/internal/inbox"
	"github.com/tuirun/fractal/internal/validate"
	"github.com/tuirun/fractal/term"
)

// ViewFunc renders model into a widget tree. It is a pure function — spec.md
// §1 calls it "a pure view function" — so it takes no tui capability:
// Run itself owns the term.Tui.Draw call and hands the
// returned widget to the frame (spec.md §4.5 step 3.a).
type ViewFunc func(model Model) term.Widget

// UpdateFunc advances model given one message, returning the replacement
// model and an optional command (spec.md §3, §4.5). Go's static return
// type is the typed rendering of spec.md §4.5's "normalization rule": a
// dynamic source must sniff whether an update returned a bare command, a
// bare model, or a pair, but a Go signature fixes the shape at the type
// level, so there is nothing left to normalize (see DESIGN.md, C5).
type UpdateFunc func(msg Msg, model Model) (Model, Cmd)

// Run is the C5 entry point (spec.md §4.5): `run(model, view, update,
// init=None)`. It drives the render/poll/update/dispatch/drain loop until
// update returns ExitCmd, then runs the dispatcher's shutdown discipline
// and returns the final model.
func Run(initialModel Model, view ViewFunc, update UpdateFunc, terminal term.Terminal, opts ...RunOption) (Model, error) {
	cfg := config.New()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.ApplyEnv()

	if cfg.DiagnosticSink == nil {
		cfg.DiagnosticSink = defaultDiagnosticSink(cfg.Logger)
	}

	r := &runner{
		cfg:    cfg,
		update: update,
		view:   view,
		queue:  inbox.New[Msg](),
	}
	r.disp = NewDispatcher(r.push, r.diagnostic, cfg.ValidateImmutability, cfg.ShutdownGrace, cfg.DefaultGrace, cfg.Logger)
	defer r.disp.Shutdown()

	if err := r.validateModel(initialModel); err != nil {
		return initialModel, err
	}
	r.model = initialModel

	if cfg.Init != nil {
		exited, err := r.step(context.Background(), cfg.Init())
		if err != nil {
			return r.model, err
		}
		if exited {
			return r.model, nil
		}
	}

	runErr := terminal.Run(func(tui term.Tui) error {
		return r.mainLoop(tui)
	})

	return r.model, runErr
}

// runner holds everything the loop needs across iterations. It exists
// purely to give mainLoop and its helpers a receiver instead of threading
// half a dozen parameters through every call.
type runner struct {
	cfg    *config.Options
	model  Model
	view   ViewFunc
	update UpdateFunc
	queue  *inbox.Queue[Msg]
	disp   *Dispatcher
}

func (r *runner) push(m Msg) { r.queue.Push(m) }

func (r *runner) diagnostic(m Msg) {
	if r.cfg.DiagnosticSink != nil {
		r.cfg.DiagnosticSink(m)
	}
}

// defaultDiagnosticSink adapts log into the diagnostic sink RunOption
// WithDiagnosticSink otherwise overrides (spec.md §6 "Error sink", SPEC_FULL
// §7 "a thin adapter over the configured logger"): a force-termination
// warning is logged at warn level rather than silently dropped when the
// host injects no sink of its own. A Custom callable panic is reported
// separately, as a PanicNotice enqueued into the inbox (see dispatch.go
// dispatchCustom) rather than sent here, since it is application-visible
// state, not an operational diagnostic.
func defaultDiagnosticSink(log *slog.Logger) func(msg any) {
	log = log.With("component", "diagnostics")

	return func(msg any) {
		notice, ok := msg.(ForceTerminationNotice)
		if !ok {
			log.Warn("unrecognized diagnostic message", "message", msg)

			return
		}

		log.Warn("custom command force-terminated", "handle", notice.Handle, "error", notice.Err)
	}
}

func (r *runner) validateModel(m Model) error {
	if !r.cfg.ValidateImmutability {
		return nil
	}

	if err := validate.Immutable(m); err != nil {
		return &rterrors.InvariantError{Reason: "model is not deeply immutable", Err: err}
	}

	return nil
}

// step runs one update/validate/dispatch cycle for msg (spec.md §4.5 steps
// 3.c and 3.e share this exact shape, so both reuse it). It reports whether
// the update requested Exit.
func (r *runner) step(ctx context.Context, msg Msg) (exited bool, err error) {
	model, cmd := r.update(msg, r.model)
	if err := r.validateModel(model); err != nil {
		return false, err
	}
	r.model = model

	if _, ok := cmd.(ExitCmd); ok {
		return true, nil
	}

	r.disp.Dispatch(ctx, cmd)

	return false, nil
}

// mainLoop implements spec.md §4.5 step 3: the absorbing-terminal-state
// machine Rendering → Polling → Updating → Dispatching → Draining →
// Rendering, reachable to Exiting from any non-rendering state.
func (r *runner) mainLoop(tui term.Tui) error {
	ctx := context.Background()

	for {
		if err := r.render(tui); err != nil {
			return err
		}

		event, err := tui.PollEvent(r.cfg.PollInterval)
		if err != nil {
			return err
		}

		if event != term.NoEvent {
			exited, err := r.step(ctx, event)
			if err != nil {
				return err
			}
			if exited {
				return nil
			}
		}

		exited, err := r.handleSynthetic(ctx, tui)
		if err != nil {
			return err
		}
		if exited {
			return nil
		}

		exited, err = r.drainOnce(ctx)
		if err != nil {
			return err
		}
		if exited {
			return nil
		}
	}
}

// render invokes view and hands the returned widget to the frame (spec.md
// §4.5 step 3.a). A nil widget is an invariant violation, not a render
// no-op — the Draw closure has no return value of its own, so the
// violation is captured in viewErr and surfaced once Draw returns.
func (r *runner) render(tui term.Tui) error {
	var viewErr error

	drawErr := tui.Draw(func(fr term.Frame) {
		widget := r.view(r.model)
		if widget == nil {
			viewErr = &rterrors.InvariantError{
				Reason: "view returned no widget: use the explicit clear widget",
				Err:    rterrors.ErrEmptyView,
			}

			return
		}

		fr.RenderWidget(widget, fr.Area())
	})
	if viewErr != nil {
		return viewErr
	}

	return drawErr
}

// handleSynthetic consumes at most one pending synthetic event per loop
// iteration (spec.md §4.5 step 3.d). A Sync marker joins every pending
// worker and fully drains the inbox, repeating the update/dispatch cycle
// for every message that surfaces, before returning control to render.
func (r *runner) handleSynthetic(ctx context.Context, tui term.Tui) (exited bool, err error) {
	sq := tui.Synthetic()
	if !sq.Pending() {
		return false, nil
	}

	switch sq.Pop().(type) {
	case term.Sync:
		return r.drainFully(ctx)
	default:
		// Application-defined synthetic events are not this runtime's
		// concern (spec.md §9 "keep as a first-class synthetic event");
		// only Sync has meaning here.
		return false, nil
	}
}

// drainFully joins the dispatcher's worker set, then non-blockingly pops
// and processes every message that arrived as a result, repeating until the
// inbox is empty — spec.md §4.5 step 3.d's "join every pending worker and
// fully drain the inbox (repeating the update/dispatch cycle for every
// message)".
func (r *runner) drainFully(ctx context.Context) (exited bool, err error) {
	if err := r.disp.Sync(); err != nil {
		return false, fmt.Errorf("sync: %w", err)
	}

	for {
		batch := r.queue.Drain()
		if batch == nil {
			return false, nil
		}

		for _, msg := range batch {
			exited, err := r.step(ctx, msg)
			if err != nil {
				return false, err
			}
			if exited {
				return true, nil
			}
		}
	}
}

// drainOnce non-blockingly pops every message currently available exactly
// once, without re-checking after dispatching new commands (spec.md §4.5
// step 3.e). Unlike drainFully it does not join workers first and does not
// loop back around for messages a just-dispatched command might itself
// produce — those surface on the next iteration's render/poll/drain pass.
func (r *runner) drainOnce(ctx context.Context) (exited bool, err error) {
	batch := r.queue.Drain()
	for _, msg := range batch {
		exited, err := r.step(ctx, msg)
		if err != nil {
			return false, err
		}
		if exited {
			return true, nil
		}
	}

	return false, nil
}

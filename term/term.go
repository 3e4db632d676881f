package term

import "time"

// Widget is an opaque renderable value produced by a view function. The
// runtime never inspects its shape — only a host terminal backend and a
// host widget library understand it.
type Widget any

// Area is an opaque placement capability a Frame hands to render calls;
// like Widget, its shape is entirely host-defined.
type Area any

// Frame is the per-draw-call capability a Tui hands to the view (spec.md
// §6 "tui.draw(closure) ... frame exposing render_widget(widget, area) and
// area").
type Frame interface {
	// RenderWidget places widget within area on this frame.
	RenderWidget(widget Widget, area Area)

	// Area is the frame's full drawable area.
	Area() Area
}

// Tui is the per-frame capability a Terminal hands to the closure passed
// to Run (spec.md §6).
type Tui interface {
	// Draw invokes fn with a Frame, then presents whatever it rendered.
	Draw(fn func(Frame)) error

	// PollEvent waits up to deadline for one input event, returning
	// NoEvent if none arrived in time (spec.md §4.5 step 3.b). A non-nil
	// error is fatal and propagates out of Run (spec.md §7 "Poll error").
	PollEvent(deadline time.Duration) (Event, error)

	// Clear returns the explicit empty-screen widget (spec.md §4.5 step
	// 3.a: a view may return this instead of nil to clear the screen).
	Clear() Widget

	// Synthetic exposes the synthetic-event channel used for deterministic
	// testing (spec.md §6, §9 "Sync").
	Synthetic() SyntheticQueue
}

// Terminal opens the terminal session and drives fn with a live Tui
// (spec.md §6 "terminal.run(closure)").
type Terminal interface {
	Run(fn func(Tui) error) error
}

package testterm

import (
	"sync"
	"time"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"

	"github.com/tuirun/fractal/term"
)

// Area is testterm's concrete term.Area: a fixed-size rectangle.
type Area struct {
	Width, Height int
}

// PlacedWidget records one RenderWidget call within a single Draw.
type PlacedWidget struct {
	Widget term.Widget
	Area   term.Area
	// CellWidth is the visible cell width of Widget when it is a string,
	// measured with go-runewidth so wide (e.g. CJK) runes count as two
	// cells instead of one. Zero for non-string widgets.
	CellWidth int
}

// Render is one complete Draw call's output.
type Render struct {
	Placed []PlacedWidget
}

// Fake is an in-memory term.Terminal and term.Tui. The zero value is not
// usable; construct with New.
type Fake struct {
	mu      sync.Mutex
	area    Area
	events  []term.Event
	synth   []term.Synthetic
	renders []Render
}

// New builds a Fake with the given fixed drawable area.
func New(width, height int) *Fake {
	return &Fake{area: Area{Width: width, Height: height}}
}

// Run implements term.Terminal: it invokes fn with itself as the Tui and
// returns whatever fn returns.
func (f *Fake) Run(fn func(term.Tui) error) error {
	return fn(f)
}

// Inject enqueues events to be returned by future PollEvent calls, in
// order.
func (f *Fake) Inject(events ...term.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, events...)
}

// InjectPaste splits text into grapheme clusters (not naive runes) and
// enqueues one KeyEvent per cluster, exercising the same multi-byte-rune
// input path a real terminal's bracketed paste would produce. A cluster
// spanning more than one rune is represented by its first rune — Go's
// KeyEvent carries a single rune, the same simplification a terminal's key
// event model makes for combining characters.
func (f *Fake) InjectPaste(text string) {
	var events []term.Event

	seg := graphemes.FromString(text)
	for seg.Next() {
		cluster := seg.Value()
		if cluster == "" {
			continue
		}

		r := []rune(cluster)[0]
		events = append(events, term.KeyEvent{Key: term.KeyRune, Rune: r})
	}

	f.Inject(events...)
}

// PushSync enqueues a Sync synthetic event.
func (f *Fake) PushSync() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.synth = append(f.synth, term.Sync{})
}

// PollEvent implements term.Tui.
func (f *Fake) PollEvent(_ time.Duration) (term.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.events) == 0 {
		return term.NoEvent, nil
	}

	e := f.events[0]
	f.events = f.events[1:]

	return e, nil
}

// Clear implements term.Tui.
func (f *Fake) Clear() term.Widget {
	return clearWidget{}
}

type clearWidget struct{}

// Synthetic implements term.Tui.
func (f *Fake) Synthetic() term.SyntheticQueue {
	return (*syntheticQueue)(f)
}

type syntheticQueue Fake

func (q *syntheticQueue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.synth) > 0
}

func (q *syntheticQueue) Pop() term.Synthetic {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := q.synth[0]
	q.synth = q.synth[1:]

	return s
}

// Draw implements term.Tui: it hands fn a frame scoped to the fixed area
// and records everything placed on it for later inspection.
func (f *Fake) Draw(fn func(term.Frame)) error {
	fr := &frame{area: f.area}
	fn(fr)

	f.mu.Lock()
	f.renders = append(f.renders, Render{Placed: fr.placed})
	f.mu.Unlock()

	return nil
}

// Renders returns every completed Draw call's output, in order.
func (f *Fake) Renders() []Render {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Render, len(f.renders))
	copy(out, f.renders)

	return out
}

// LastRender returns the most recent Draw call's output, or the zero
// Render if Draw was never called.
func (f *Fake) LastRender() Render {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.renders) == 0 {
		return Render{}
	}

	return f.renders[len(f.renders)-1]
}

type frame struct {
	area   Area
	placed []PlacedWidget
}

func (fr *frame) RenderWidget(widget term.Widget, area term.Area) {
	cellWidth := 0
	if s, ok := widget.(string); ok {
		cellWidth = runewidth.StringWidth(s)
	}

	fr.placed = append(fr.placed, PlacedWidget{Widget: widget, Area: area, CellWidth: cellWidth})
}

func (fr *frame) Area() term.Area {
	return fr.area
}

package term

// Event is the closed sum of values PollEvent can return (spec.md §6): a
// key event, a mouse event, a paste event, a resize event, or the no-event
// sentinel. Modeled with the same marker-method idiom as fractal.Cmd.
type Event interface {
	isEvent()
}

var (
	_ Event = KeyEvent{}
	_ Event = MouseEvent{}
	_ Event = PasteEvent{}
	_ Event = ResizeEvent{}
	_ Event = noEvent{}
)

// noEvent is PollEvent's sentinel for "no input arrived before the
// deadline" (spec.md §4.5 step 3.b).
type noEvent struct{}

func (noEvent) isEvent() {}

// NoEvent is the shared no-event sentinel.
var NoEvent Event = noEvent{}

// Key identifies a non-printable key press.
type Key int

const (
	KeyRune Key = iota // Rune carries the printed character
	KeyEnter
	KeyEsc
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDown
	KeyDelete
)

// KeyEvent is a single key press (spec.md §6). Handlers may use the named
// predicate methods or read Key/Rune/Ctrl/Alt directly for anything not
// covered by a predicate.
type KeyEvent struct {
	Key  Key
	Rune rune
	Ctrl bool
	Alt  bool
}

func (KeyEvent) isEvent() {}

// Q reports whether this is the unmodified rune 'q'.
func (k KeyEvent) Q() bool { return k.Key == KeyRune && k.Rune == 'q' && !k.Ctrl && !k.Alt }

// CtrlC reports whether this is Ctrl-C.
func (k KeyEvent) CtrlC() bool { return k.Key == KeyRune && k.Rune == 'c' && k.Ctrl }

// Enter reports whether this is the Enter key.
func (k KeyEvent) Enter() bool { return k.Key == KeyEnter }

// Esc reports whether this is the Escape key.
func (k KeyEvent) Esc() bool { return k.Key == KeyEsc }

// MouseButton identifies which mouse button or wheel direction an event
// describes.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseWheelUp
	MouseWheelDown
)

// MouseEvent is a single mouse action (spec.md §6).
type MouseEvent struct {
	Button MouseButton
	X, Y   int
}

func (MouseEvent) isEvent() {}

// Click reports whether this is a left-button click.
func (m MouseEvent) Click() bool { return m.Button == MouseLeft }

// ScrollUp reports whether this is an upward wheel scroll.
func (m MouseEvent) ScrollUp() bool { return m.Button == MouseWheelUp }

// ScrollDown reports whether this is a downward wheel scroll.
func (m MouseEvent) ScrollDown() bool { return m.Button == MouseWheelDown }

// PasteEvent is a bracketed-paste delivery, possibly spanning multiple
// grapheme clusters (spec.md §6).
type PasteEvent struct {
	Text string
}

func (PasteEvent) isEvent() {}

// ResizeEvent reports the terminal's new dimensions.
type ResizeEvent struct {
	Width, Height int
}

func (ResizeEvent) isEvent() {}

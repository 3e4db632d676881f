package term

// Synthetic is the closed sum of values a SyntheticQueue can hand back.
// Sync is the only variant the runtime itself understands (spec.md §9);
// a host may define others for its own use, handled entirely in
// application code.
type Synthetic interface {
	isSynthetic()
}

// Sync asks the runtime to join every pending worker and fully drain the
// inbox before rendering again (spec.md §4.5 step 3.d, glossary). It is
// needed only for deterministic tests.
type Sync struct{}

func (Sync) isSynthetic() {}

// SyntheticQueue exposes the synthetic-event channel named in spec.md §6.
type SyntheticQueue interface {
	// Pending reports whether a synthetic event is waiting.
	Pending() bool

	// Pop removes and returns the next pending synthetic event. Pop must
	// not be called when Pending reports false.
	Pop() Synthetic
}

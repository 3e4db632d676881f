// Package testterm implements an in-memory term.Terminal used only by this
// module's own tests (spec.md §1 names a real terminal backend out of
// scope; §6 names "test-harness event injection" as an external
// collaborator). Grounded on haricheung-agentic-shell's terminal-facing
// concerns for the width-aware pieces: internal/ui/display.go's ANSI
// rendering and its vendored readline fork's rune-width-aware input
// handling, which is why this package reaches for go-runewidth and uax29
// rather than counting bytes or naive runes.
package testterm

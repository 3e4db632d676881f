// Package term declares the external terminal collaborator's interfaces
// (spec.md §6): the real terminal rendering backend, input polling, and
// widget construction are explicitly out of scope for this module (spec.md
// §1) — a host application supplies its own implementation. The runtime
// loop (package fractal) depends only on these interfaces.
package term

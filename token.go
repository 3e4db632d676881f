package fractal

import "sync/atomic"

// CancellationToken is the C1 cancellation latch (spec.md §4.1). Cancel is
// idempotent and safe from any goroutine; Cancelled is cheap enough for a
// Custom callable to poll in a tight loop.
type CancellationToken interface {
	// Cancelled reports whether Cancel has been called. Once true, it is
	// true for the token's remaining lifetime.
	Cancelled() bool

	// Cancel requests cooperative cancellation. Safe to call more than
	// once, and from more than one goroutine at once.
	Cancel()
}

// token is the default CancellationToken, backed by an atomic.Bool rather
// than a mutex-guarded boolean — a token is read far more often than it is
// written, so a lock-free flag fits better here.
type token struct {
	cancelled atomic.Bool
}

// NewCancellationToken creates a fresh, non-cancelled token.
func NewCancellationToken() CancellationToken {
	return &token{}
}

func (t *token) Cancelled() bool { return t.cancelled.Load() }
func (t *token) Cancel()         { t.cancelled.Store(true) }

// noneToken is the NONE singleton (spec.md §4.1): always non-cancelled,
// ignores Cancel, so callables indifferent to cancellation can be invoked
// uniformly with every other Custom command.
type noneToken struct{}

func (noneToken) Cancelled() bool { return false }
func (noneToken) Cancel()         {}

// NoneToken is the shared singleton returned where no real cancellation is
// needed.
var NoneToken CancellationToken = noneToken{}

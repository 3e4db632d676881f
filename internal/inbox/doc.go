// Package inbox implements the unbounded multi-producer/single-consumer
// queue the runtime loop drains every tick (spec.md design note 9). Go
// channels are a natural fit for MPSC but are bounded by construction; an
// unbounded channel would need a background goroutine shuffling a slice
// into a channel anyway, so this package cuts out the middle goroutine and
// guards a growable slice directly with a mutex and sync.Cond.
package inbox

package walker

import (
	"sync/atomic"

	"github.com/dlpsolve/kangaroo/internal/curve"
)

// Counter is a monotonically-increasing atomic counter shared across
// workers. The progress totals it backs (jumps, distinguished points,
// collisions) are advisory and tolerate no stronger ordering guarantee
// than sync/atomic already gives.
type Counter struct {
	v atomic.Uint64
}

// Add adds delta and returns the new value.
func (c *Counter) Add(delta uint64) uint64 {
	return c.v.Add(delta)
}

// Load returns the current value.
func (c *Counter) Load() uint64 {
	return c.v.Load()
}

// Store sets the value directly (used when restoring from a checkpoint).
func (c *Counter) Store(v uint64) {
	c.v.Store(v)
}

// Flag is an atomic boolean used for the engine's running/solved
// lifecycle signals.
type Flag struct {
	v atomic.Bool
}

// Load returns the current value.
func (f *Flag) Load() bool {
	return f.v.Load()
}

// Store sets the value.
func (f *Flag) Store(v bool) {
	f.v.Store(v)
}

// ScalarBox publishes the solution scalar exactly once. A store into the
// box must happen-before the companion Solved flag is set, so that any
// reader observing Solved == true also observes the solution;
// sync/atomic's sequential consistency guarantees this as long as callers
// always store the solution before setting Solved.
type ScalarBox struct {
	v atomic.Pointer[curve.Scalar]
}

// Store publishes k.
func (b *ScalarBox) Store(k *curve.Scalar) {
	b.v.Store(k)
}

// Load returns the published scalar, or nil if none has been stored.
func (b *ScalarBox) Load() *curve.Scalar {
	return b.v.Load()
}

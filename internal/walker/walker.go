// Package walker implements the per-worker tame/wild kangaroo state
// machine: starting position, the shared walk step, and each herd's
// re-randomisation rule.
//
// Tame and wild are modelled as a tagged variant on Walker (the Herd
// field) sharing a single step/Run loop rather than as separate types,
// since the two differ only in their start state and re-randomisation
// bound.
package walker

import (
	"time"

	"github.com/dlpsolve/kangaroo/internal/curve"
	"github.com/dlpsolve/kangaroo/internal/dpstore"
	"github.com/dlpsolve/kangaroo/internal/jumptable"
)

// flushInterval is the number of local jumps a walker accumulates before
// flushing them into the shared counter, trading counter precision for
// fewer atomic operations on the hot path.
const flushInterval = 10000

// wildDistanceBitCeiling bounds how far a wild walker may wander before
// restarting at the target.
const wildDistanceBitCeiling = 80

// Env holds everything immutable and shared that a walker needs to run:
// the target, range, jump table, distinguished-point store, and the
// lifecycle/counter atomics owned by the orchestrator. It is constructed
// once by the orchestrator and shared by reference with every worker,
// never owned by a walker.
type Env struct {
	Target  *curve.Point
	RangeLo *curve.Scalar
	RangeHi *curve.Scalar
	Jumps   *jumptable.Table
	DPMask  uint64
	Store   *dpstore.Store

	JumpsTotal *Counter
	Running    *Flag
	Solved     *Flag
	Solution   *ScalarBox

	StartedAt time.Time
}

// Elapsed returns whole seconds since the engine started.
func (e *Env) Elapsed() uint64 {
	return uint64(time.Since(e.StartedAt) / time.Second)
}

// Walker is a single tame or wild kangaroo's local, unshared state.
type Walker struct {
	ID   int
	Herd dpstore.Herd

	current    *curve.Point
	distance   *curve.Scalar
	localJumps uint64
}

// New constructs a walker. Even-numbered IDs are tame, odd-numbered are
// wild.
func New(id int) *Walker {
	herd := dpstore.Tame
	if id%2 == 1 {
		herd = dpstore.Wild
	}
	return &Walker{ID: id, Herd: herd}
}

// Run executes the walker's loop until env.Running is cleared or
// env.Solved is set, flushing any residual local jump count on exit.
func (w *Walker) Run(env *Env) error {
	if err := w.start(env); err != nil {
		return err
	}

	for env.Running.Load() && !env.Solved.Load() {
		if err := w.step(env); err != nil {
			return err
		}
	}

	if rem := w.localJumps % flushInterval; rem != 0 {
		env.JumpsTotal.Add(rem)
		w.localJumps = 0
	}
	return nil
}

func (w *Walker) start(env *Env) error {
	if w.Herd == dpstore.Tame {
		k0, err := curve.RandomInRange(env.RangeLo, env.RangeHi)
		if err != nil {
			return err
		}
		w.current = curve.ScalarMult(k0, curve.Generator())
		w.distance = k0
		return nil
	}
	w.current = env.Target
	w.distance = curve.ScalarZero()
	return nil
}

// step performs one walk iteration: check for a distinguished point,
// take the indexed jump, then apply the walker's re-randomisation rule
// if it has wandered out of bounds.
func (w *Walker) step(env *Env) error {
	if dpstore.IsDistinguished(w.current, env.DPMask) {
		if k, found := env.Store.Observe(w.current, w.distance, w.Herd, env.Elapsed()); found {
			env.Solution.Store(k)
			env.Solved.Store(true)
			return nil
		}
	}

	idx := jumptable.Index(w.current)
	entry := env.Jumps.At(idx)
	w.current = curve.Add(w.current, entry.Point)
	w.distance = w.distance.Add(entry.Distance)

	w.localJumps++
	if w.localJumps%flushInterval == 0 {
		env.JumpsTotal.Add(flushInterval)
	}

	switch w.Herd {
	case dpstore.Tame:
		if w.distance.Cmp(env.RangeHi) > 0 {
			k0, err := curve.RandomInRange(env.RangeLo, env.RangeHi)
			if err != nil {
				return err
			}
			w.current = curve.ScalarMult(k0, curve.Generator())
			w.distance = k0
		}
	case dpstore.Wild:
		if w.distance.BitLen() > wildDistanceBitCeiling {
			w.current = env.Target
			w.distance = curve.ScalarZero()
		}
	}
	return nil
}

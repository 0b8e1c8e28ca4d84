package walker

import (
	"testing"
	"time"

	"github.com/dlpsolve/kangaroo/internal/curve"
	"github.com/dlpsolve/kangaroo/internal/dpstore"
	"github.com/dlpsolve/kangaroo/internal/jumptable"
)

func newTestEnv(t *testing.T, secret uint64) *Env {
	t.Helper()
	target := curve.ScalarMult(curve.ScalarFromUint64(secret), curve.Generator())
	lo := curve.ScalarFromUint64(1 << 20)
	hi := curve.ScalarFromUint64(1 << 21)
	env := &Env{
		Target:     target,
		RangeLo:    lo,
		RangeHi:    hi,
		Jumps:      jumptable.Build(hi.Sub(lo)),
		DPMask:     0x3, // very coarse mask, generous for a short test loop
		Store:      dpstore.New(target),
		JumpsTotal: &Counter{},
		Running:    &Flag{},
		Solved:     &Flag{},
		Solution:   &ScalarBox{},
		StartedAt:  time.Now(),
	}
	env.Running.Store(true)
	return env
}

func TestTameWalkerStartsInRange(t *testing.T) {
	env := newTestEnv(t, 0x1337C0)
	w := New(0)
	if w.Herd != dpstore.Tame {
		t.Fatalf("walker 0 should be tame")
	}
	if err := w.start(env); err != nil {
		t.Fatalf("start: %v", err)
	}
	if w.distance.Cmp(env.RangeLo) < 0 || w.distance.Cmp(env.RangeHi) >= 0 {
		t.Fatalf("tame start distance %s outside range", w.distance.Hex())
	}
	if !w.current.Equal(curve.ScalarMult(w.distance, curve.Generator())) {
		t.Fatalf("tame start point does not match distance*G")
	}
}

func TestWildWalkerStartsAtTarget(t *testing.T) {
	env := newTestEnv(t, 0x1337C0)
	w := New(1)
	if w.Herd != dpstore.Wild {
		t.Fatalf("walker 1 should be wild")
	}
	if err := w.start(env); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !w.current.Equal(env.Target) {
		t.Fatalf("wild start point should equal target")
	}
	if !w.distance.IsZero() {
		t.Fatalf("wild start distance should be zero, got %s", w.distance.Hex())
	}
}

func TestStepAdvancesPointAndDistance(t *testing.T) {
	env := newTestEnv(t, 0x1337C0)
	w := New(1)
	if err := w.start(env); err != nil {
		t.Fatalf("start: %v", err)
	}
	before := w.current
	beforeDist := w.distance
	if err := w.step(env); err != nil {
		t.Fatalf("step: %v", err)
	}
	if w.current.Equal(before) {
		t.Fatalf("step did not move the walker")
	}
	if w.distance.Cmp(beforeDist) <= 0 {
		t.Fatalf("step did not advance distance")
	}
}

func TestRunTerminatesWhenRunningCleared(t *testing.T) {
	env := newTestEnv(t, 0x1337C0)
	env.DPMask = 0 // every point counts as distinguished, so each step also calls Observe
	w := New(1)

	done := make(chan error, 1)
	go func() { done <- w.Run(env) }()

	time.Sleep(5 * time.Millisecond)
	env.Running.Store(false)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not terminate after Running was cleared")
	}
}

func TestRunStopsBothHerdsUnderLoad(t *testing.T) {
	secret := uint64(5)
	target := curve.ScalarMult(curve.ScalarFromUint64(secret), curve.Generator())
	lo := curve.ScalarFromUint64(1)
	hi := curve.ScalarFromUint64(20)
	env := &Env{
		Target:     target,
		RangeLo:    lo,
		RangeHi:    hi,
		Jumps:      jumptable.Build(hi.Sub(lo)),
		DPMask:     8, // occasional distinguished points, exercising Observe without forcing one every step
		Store:      dpstore.New(target),
		JumpsTotal: &Counter{},
		Running:    &Flag{},
		Solved:     &Flag{},
		Solution:   &ScalarBox{},
		StartedAt:  time.Now(),
	}
	env.Running.Store(true)

	tame := New(0)
	wild := New(1)

	doneTame := make(chan error, 1)
	doneWild := make(chan error, 1)
	go func() { doneTame <- tame.Run(env) }()
	go func() { doneWild <- wild.Run(env) }()

	time.Sleep(20 * time.Millisecond)
	env.Running.Store(false)

	for _, done := range []chan error{doneTame, doneWild} {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("walker did not terminate after Running was cleared")
		}
	}

	if env.JumpsTotal.Load() == 0 {
		t.Fatalf("expected JumpsTotal to have advanced past zero")
	}

	if env.Solved.Load() {
		if env.Solution.Load() == nil {
			t.Fatalf("Solved is true but Solution is nil")
		}
	}
}

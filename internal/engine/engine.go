// Package engine implements the solver's orchestrator: spawning and
// joining tame/wild workers, owning the shared lifecycle flags and
// counters, and exposing the stats and checkpoint operations.
//
// The concurrency skeleton — shared Running/Solved flags that every worker
// checks on each step, a sync.WaitGroup joined in Stop, atomic counters
// updated from each worker's hot loop — distributes no shared work queue
// over a channel: each walker runs its own unbounded pseudo-random walk,
// so only a cancellation/join/counter skeleton is needed, not job
// distribution. A watcher goroutine polls the solved flag on a 5ms ticker
// and cancels the engine's context once it flips; that context is not
// handed to the workers, which exit on their own Solved check.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dlpsolve/kangaroo/internal/curve"
	"github.com/dlpsolve/kangaroo/internal/dpstore"
	"github.com/dlpsolve/kangaroo/internal/jumptable"
	"github.com/dlpsolve/kangaroo/internal/walker"
)

// Config is the engine's immutable-once-initialized configuration.
type Config struct {
	Target  *curve.Point
	RangeLo *curve.Scalar
	RangeHi *curve.Scalar
	Workers int
	DPBits  int
}

// DPMask derives the distinguished-point mask from DPBits.
func (c Config) DPMask() uint64 {
	return (uint64(1) << uint(c.DPBits)) - 1
}

// Validate checks that the target is a valid on-curve point, the range
// bounds are sane and within the curve order, and the worker/DP-bits
// parameters are within operable limits.
func (c Config) Validate() error {
	if c.Target == nil || c.Target.Infinity {
		return errors.New("engine: target must be a non-infinity point")
	}
	if !c.Target.IsOnCurve() {
		return errors.New("engine: target is not on-curve")
	}
	if c.RangeLo == nil || c.RangeHi == nil {
		return errors.New("engine: range bounds must be set")
	}
	if c.RangeLo.Sign() <= 0 {
		return errors.New("engine: range_lo must be positive")
	}
	if c.RangeLo.Cmp(c.RangeHi) >= 0 {
		return errors.New("engine: range_lo must be less than range_hi")
	}
	if c.RangeHi.Cmp(curve.NewScalar(curve.CurveOrder)) >= 0 {
		return errors.New("engine: range_hi must be less than the curve order")
	}
	if c.Workers < 1 || c.Workers > 64 {
		return errors.New("engine: workers must be in [1, 64]")
	}
	if c.DPBits < 8 || c.DPBits > 32 {
		return errors.New("engine: dp_bits must be in [8, 32]")
	}
	return nil
}

// Stats is the external, read-only snapshot of the engine's progress and
// lifecycle state.
type Stats struct {
	JumpsTotal       uint64
	DPsTotal         uint64
	CollisionsTotal  uint64
	ElapsedSeconds   uint64
	ThreadsActive    int32
	RangeStartHex    string
	RangeEndHex      string
	FoundKeyHex      string
	IsSolved         bool
}

// Engine is the orchestrator. The zero value is not usable; construct
// with New.
type Engine struct {
	mu      sync.Mutex // guards lifecycle transitions and wg
	cfg     Config
	jumps   *jumptable.Table
	store   *dpstore.Store
	running *walker.Flag
	solved  *walker.Flag
	sol     *walker.ScalarBox
	jumpsC  *walker.Counter

	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New validates cfg and builds the jump table: it fails on any invalid
// parameter and succeeds only once the table is ready.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	width := cfg.RangeHi.Sub(cfg.RangeLo)
	return &Engine{
		cfg:     cfg,
		jumps:   jumptable.Build(width),
		store:   dpstore.New(cfg.Target),
		running: &walker.Flag{},
		solved:  &walker.Flag{},
		sol:     &walker.ScalarBox{},
		jumpsC:  &walker.Counter{},
	}, nil
}

// Start spawns cfg.Workers workers. It fails if the engine is already
// running.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running.Load() {
		return errors.New("engine: already running")
	}

	e.store.Reset()
	e.jumpsC.Store(0)
	e.solved.Store(false)
	e.sol.Store(nil)
	e.startedAt = time.Now()
	e.running.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	env := &walker.Env{
		Target:     e.cfg.Target,
		RangeLo:    e.cfg.RangeLo,
		RangeHi:    e.cfg.RangeHi,
		Jumps:      e.jumps,
		DPMask:     e.cfg.DPMask(),
		Store:      e.store,
		JumpsTotal: e.jumpsC,
		Running:    e.running,
		Solved:     e.solved,
		Solution:   e.sol,
		StartedAt:  e.startedAt,
	}

	e.wg.Add(e.cfg.Workers)
	for i := 0; i < e.cfg.Workers; i++ {
		w := walker.New(i)
		go func() {
			defer e.wg.Done()
			w.Run(env)
		}()
	}

	// Poll the shared solved flag every 5ms and cancel the context once it
	// flips. The context only bounds this watcher's lifetime (Stop cancels
	// it too); workers exit through their own Running/Solved check.
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if e.solved.Load() {
					cancel()
					return
				}
			}
		}
	}()

	return nil
}

// Stop is idempotent: it clears Running and blocks until every worker has
// exited.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running.Load() {
		e.mu.Unlock()
		return
	}
	e.running.Store(false)
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()

	e.wg.Wait()
}

// IsRunning reports whether the engine has been started and not yet
// stopped. After a solve the workers exit, but IsRunning stays true until
// Stop is called.
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// IsSolved reports whether a solution has been found.
func (e *Engine) IsSolved() bool {
	return e.solved.Load()
}

// Stats returns a snapshot of the engine's counters and lifecycle state.
// It never blocks on a walker.
func (e *Engine) Stats() Stats {
	var elapsed uint64
	if !e.startedAt.IsZero() {
		elapsed = uint64(time.Since(e.startedAt) / time.Second)
	}
	threads := int32(0)
	if e.running.Load() {
		threads = int32(e.cfg.Workers)
	}
	s := Stats{
		JumpsTotal:      e.jumpsC.Load(),
		DPsTotal:        e.store.DPsTotal(),
		CollisionsTotal: e.store.CollisionsTotal(),
		ElapsedSeconds:  elapsed,
		ThreadsActive:   threads,
		RangeStartHex:   e.cfg.RangeLo.HexPadded64(),
		RangeEndHex:     e.cfg.RangeHi.HexPadded64(),
		IsSolved:        e.solved.Load(),
	}
	if s.IsSolved {
		if sol := e.sol.Load(); sol != nil {
			s.FoundKeyHex = sol.HexPadded64()
		}
	}
	return s
}

// Solution returns the recovered scalar and true if the engine has
// solved the target.
func (e *Engine) Solution() (*curve.Scalar, bool) {
	if !e.solved.Load() {
		return nil, false
	}
	return e.sol.Load(), true
}

// Store exposes the distinguished-point store for checkpoint
// serialization.
func (e *Engine) Store() *dpstore.Store {
	return e.store
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// JumpsTotal returns the raw jump counter, for checkpoint serialization.
func (e *Engine) JumpsTotal() uint64 {
	return e.jumpsC.Load()
}

// RestoreCounters replaces the jump counter, for checkpoint load. The
// caller must ensure the engine is stopped first (LoadCheckpoint in
// pkg/kangaroo enforces this).
func (e *Engine) RestoreCounters(jumpsTotal uint64) error {
	if e.running.Load() {
		return fmt.Errorf("engine: cannot restore counters while running")
	}
	e.jumpsC.Store(jumpsTotal)
	return nil
}

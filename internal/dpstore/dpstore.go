// Package dpstore implements the shared, concurrent distinguished-point
// map: a mapping from point fingerprint to (herd, accumulated distance),
// the collision detection protocol, and solution verification.
package dpstore

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/dlpsolve/kangaroo/internal/curve"
)

// Herd identifies which kangaroo population produced an observation.
type Herd uint8

const (
	Tame Herd = iota
	Wild
)

func (h Herd) String() string {
	if h == Tame {
		return "tame"
	}
	return "wild"
}

// Record is a single distinguished-point observation.
type Record struct {
	Distance  *curve.Scalar
	Herd      Herd
	TObserved uint64
}

// Fingerprint is the canonical 32-byte big-endian x-coordinate used as the
// store's map key.
type Fingerprint [32]byte

// Store is the shared distinguished-point table. The zero value is not
// usable; construct with New.
type Store struct {
	mu     sync.Mutex
	byFP   map[Fingerprint]Record
	target *curve.Point

	dpsTotal        uint64
	collisionsTotal uint64
}

// New creates an empty store that verifies collisions against target.
func New(target *curve.Point) *Store {
	return &Store{
		byFP:   make(map[Fingerprint]Record),
		target: target,
	}
}

// Reset clears all stored points and counters. Called by the orchestrator
// on every start.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byFP = make(map[Fingerprint]Record)
	atomic.StoreUint64(&s.dpsTotal, 0)
	atomic.StoreUint64(&s.collisionsTotal, 0)
}

// DPsTotal returns the number of distinct distinguished points observed.
func (s *Store) DPsTotal() uint64 {
	return atomic.LoadUint64(&s.dpsTotal)
}

// CollisionsTotal returns the number of cross-herd collisions confirmed.
func (s *Store) CollisionsTotal() uint64 {
	return atomic.LoadUint64(&s.collisionsTotal)
}

// Len returns the number of distinct distinguished points currently
// stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byFP)
}

// FingerprintOf computes the canonical fingerprint of a point's
// x-coordinate.
func FingerprintOf(p *curve.Point) Fingerprint {
	var fp Fingerprint
	copy(fp[:], p.X.Bytes())
	return fp
}

// IsDistinguished reports whether p is a distinguished point: the low
// dpBits bits of the point's x-coordinate, read as an integer from the
// fixed-width 32-byte encoding, must all be zero. O is never
// distinguished.
func IsDistinguished(p *curve.Point, dpMask uint64) bool {
	if p.Infinity {
		return false
	}
	fp := FingerprintOf(p)
	low := binary.BigEndian.Uint64(fp[24:])
	return low&dpMask == 0
}

// Observe records an observation of a distinguished point: a fresh
// fingerprint is inserted, a same-herd repeat is a no-op, and a
// cross-herd collision computes and verifies a candidate solution scalar.
// It returns the verified solution and true only when a genuine collision
// resolves to a scalar that multiplies the generator to the target.
func (s *Store) Observe(p *curve.Point, distance *curve.Scalar, herd Herd, tObserved uint64) (*curve.Scalar, bool) {
	fp := FingerprintOf(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.byFP[fp]
	if !exists {
		s.byFP[fp] = Record{Distance: distance, Herd: herd, TObserved: tObserved}
		atomic.AddUint64(&s.dpsTotal, 1)
		return nil, false
	}

	if prev.Herd == herd {
		// Same-herd re-visit: the walk merged with itself or another
		// member of the same herd. Not informative; a walker's own
		// re-randomisation bound is what breaks the cycle.
		return nil, false
	}

	var k *curve.Scalar
	if herd == Tame {
		k = distance.Sub(prev.Distance)
	} else {
		k = prev.Distance.Sub(distance)
	}
	k = k.Mod(curve.NewScalar(curve.CurveOrder))

	if !s.verify(k) {
		// x-only fingerprint aliasing (P and -P share a fingerprint):
		// leave prev in place and keep walking.
		return nil, false
	}

	atomic.AddUint64(&s.collisionsTotal, 1)
	return k, true
}

// Entry pairs a fingerprint with its stored record, used for checkpoint
// serialization.
type Entry struct {
	Fingerprint Fingerprint
	Record      Record
}

// Snapshot returns every stored record. The caller must not mutate the
// returned Scalars; they are shared with the store.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.byFP))
	for fp, rec := range s.byFP {
		out = append(out, Entry{Fingerprint: fp, Record: rec})
	}
	return out
}

// Load replaces the store's contents and counters atomically, fully
// reconstructing the map a checkpoint was saved from rather than just its
// counters. Callers must only call Load while the engine is stopped.
func (s *Store) Load(entries []Entry, dpsTotal, collisionsTotal uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byFP = make(map[Fingerprint]Record, len(entries))
	for _, e := range entries {
		s.byFP[e.Fingerprint] = e.Record
	}
	atomic.StoreUint64(&s.dpsTotal, dpsTotal)
	atomic.StoreUint64(&s.collisionsTotal, collisionsTotal)
}

// verify checks k*G == target against a real secp256k1 implementation
// rather than this module's own point arithmetic, so a bug shared between
// the walk and the check cannot silently confirm a wrong collision.
func (s *Store) verify(k *curve.Scalar) bool {
	if k.Sign() <= 0 || k.Cmp(curve.NewScalar(curve.CurveOrder)) >= 0 {
		return false
	}
	priv := secp256k1.PrivKeyFromBytes(k.Bytes32())
	got := priv.PubKey().SerializeCompressed()
	want := s.target.Encode(true)
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

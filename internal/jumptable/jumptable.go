// Package jumptable builds the deterministic set of jump distances and
// their curve images that tame and wild walkers use to take pseudo-random
// steps, and provides the index function that selects a jump from a
// point's x-coordinate.
package jumptable

import (
	"github.com/dlpsolve/kangaroo/internal/curve"
)

// Size is the fixed number of entries in the jump table.
const Size = 256

// Entry pairs a jump distance d_i with its precomputed curve image d_i*G.
type Entry struct {
	Distance *curve.Scalar
	Point    *curve.Point
}

// Table is the immutable, precomputed set of jump entries for a given
// search range width.
type Table struct {
	entries [Size]Entry
}

// Build constructs the jump table sized to a search range of the given
// width (range_hi - range_lo): d_i = 2^e + (i+1) for i in [0, Size), where
// e is half the range width's bit length minus 8, clamped to a minimum of 1,
// and P_i = d_i*G.
func Build(rangeWidth *curve.Scalar) *Table {
	w := rangeWidth.BitLen()
	e := w/2 - 8
	if e < 1 {
		e = 1
	}

	base := curve.ScalarOne().Lsh(uint(e))
	g := curve.Generator()

	t := &Table{}
	for i := 0; i < Size; i++ {
		d := base.Add(curve.ScalarFromUint64(uint64(i + 1)))
		t.entries[i] = Entry{
			Distance: d,
			Point:    curve.ScalarMult(d, g),
		}
	}
	return t
}

// Len returns the number of entries (always Size).
func (t *Table) Len() int {
	return len(t.entries)
}

// At returns the entry at index i.
func (t *Table) At(i int) Entry {
	return t.entries[i]
}

// Index selects a jump for point p: the low byte of p's canonical 32-byte
// big-endian x-coordinate. It depends only on p.X, so tame and wild
// walkers visiting the same point always select the same jump, which is
// what lets their walks merge. The point at infinity indexes to 0 (it
// never arises on a live walk: a curve of prime order with a nonzero jump
// distance never steps through infinity).
func Index(p *curve.Point) int {
	if p.Infinity {
		return 0
	}
	b := p.X.Bytes()
	return int(b[len(b)-1])
}

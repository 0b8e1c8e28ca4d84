package curve

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// CurveOrder is the order n of the secp256k1 generator subgroup.
var CurveOrder, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// Scalar is an unbounded nonnegative integer, semantically reduced mod
// CurveOrder when used as a private-key component or an accumulated walk
// distance. Unlike FieldElement it is not eagerly reduced on every
// operation, since a walker's accumulated distance is not itself a field
// or curve-order residue until it is actually used as one — callers call
// Mod or ModN when they need the canonical residue.
type Scalar struct {
	v *big.Int
}

// ScalarZero returns the scalar 0.
func ScalarZero() *Scalar {
	return &Scalar{v: new(big.Int)}
}

// ScalarOne returns the scalar 1.
func ScalarOne() *Scalar {
	return &Scalar{v: big.NewInt(1)}
}

// NewScalar wraps v (copied) as a Scalar without reducing it.
func NewScalar(v *big.Int) *Scalar {
	return &Scalar{v: new(big.Int).Set(v)}
}

// ScalarFromUint64 wraps a uint64 as a Scalar.
func ScalarFromUint64(v uint64) *Scalar {
	return &Scalar{v: new(big.Int).SetUint64(v)}
}

// ScalarFromBytes interprets b as a big-endian unsigned integer.
func ScalarFromBytes(b []byte) *Scalar {
	return &Scalar{v: new(big.Int).SetBytes(b)}
}

// ScalarFromHex parses a hex string (optional 0x/0X prefix,
// case-insensitive, rejecting non-hex characters) into a Scalar. The value
// is not reduced mod n.
func ScalarFromHex(s string) (*Scalar, error) {
	v, err := parseHexScalar(s)
	if err != nil {
		return nil, err
	}
	return &Scalar{v: v}, nil
}

// Bytes returns the minimal big-endian encoding of s (no padding).
func (s *Scalar) Bytes() []byte {
	return s.v.Bytes()
}

// Bytes32 returns s as a 32-byte big-endian slice, truncating from the
// left if s does not fit (callers reduce mod n first if that matters).
func (s *Scalar) Bytes32() []byte {
	return padTo32(s.v.Bytes())
}

// Hex returns s as uppercase hex with no leading zero padding and no
// prefix. The zero value renders as "0".
func (s *Scalar) Hex() string {
	return strings.ToUpper(s.v.Text(16))
}

// HexPadded64 returns s as 64 uppercase hex characters, zero-padded to a
// fixed width suitable for display fields and checkpoint records.
func (s *Scalar) HexPadded64() string {
	h := strings.ToUpper(s.v.Text(16))
	if len(h) >= 64 {
		return h[len(h)-64:]
	}
	return strings.Repeat("0", 64-len(h)) + h
}

// BigInt returns a copy of the underlying integer.
func (s *Scalar) BigInt() *big.Int {
	return new(big.Int).Set(s.v)
}

// IsZero reports whether s is exactly zero (not reduced).
func (s *Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

// Sign returns -1, 0, or 1.
func (s *Scalar) Sign() int {
	return s.v.Sign()
}

// Cmp compares s and t as unsigned integers.
func (s *Scalar) Cmp(t *Scalar) int {
	return s.v.Cmp(t.v)
}

// BitLen returns the number of bits required to represent s.
func (s *Scalar) BitLen() int {
	return s.v.BitLen()
}

// Bit returns the i-th bit of s (0 or 1), 0-indexed from the LSB.
func (s *Scalar) Bit(i int) uint {
	return s.v.Bit(i)
}

// Add returns s + t, unreduced.
func (s *Scalar) Add(t *Scalar) *Scalar {
	return &Scalar{v: new(big.Int).Add(s.v, t.v)}
}

// Sub returns s - t, unreduced (may be negative).
func (s *Scalar) Sub(t *Scalar) *Scalar {
	return &Scalar{v: new(big.Int).Sub(s.v, t.v)}
}

// Mul returns s * t, unreduced.
func (s *Scalar) Mul(t *Scalar) *Scalar {
	return &Scalar{v: new(big.Int).Mul(s.v, t.v)}
}

// Mod returns s mod m as a nonnegative residue.
func (s *Scalar) Mod(m *Scalar) *Scalar {
	r := new(big.Int).Mod(s.v, m.v)
	return &Scalar{v: r}
}

// ModN returns s reduced modulo the curve order.
func (s *Scalar) ModN() *Scalar {
	return s.Mod(&Scalar{v: CurveOrder})
}

// Lsh returns s shifted left by n bits.
func (s *Scalar) Lsh(n uint) *Scalar {
	return &Scalar{v: new(big.Int).Lsh(s.v, n)}
}

// Rsh returns s shifted right by n bits.
func (s *Scalar) Rsh(n uint) *Scalar {
	return &Scalar{v: new(big.Int).Rsh(s.v, n)}
}

// ModInverse returns the inverse of s modulo m via the extended Euclidean
// algorithm, or the zero scalar if gcd(s, m) != 1. Callers must treat a
// zero result as "no inverse exists", since zero is never a legitimate
// inverse.
func (s *Scalar) ModInverse(m *Scalar) *Scalar {
	r := new(big.Int).ModInverse(s.v, m.v)
	if r == nil {
		return ScalarZero()
	}
	return &Scalar{v: r}
}

// RandomInRange draws a scalar uniformly distributed over [lo, hi) from
// crypto/rand. It draws enough random bytes to cover the range width plus
// 64 extra bits of slack and reduces modulo the width, which keeps the
// reduction bias below one part in 2^64 without needing a rejection loop.
func RandomInRange(lo, hi *Scalar) (*Scalar, error) {
	return randomInRange(lo, hi, rand.Reader)
}

func randomInRange(lo, hi *Scalar, r io.Reader) (*Scalar, error) {
	width := new(big.Int).Sub(hi.v, lo.v)
	if width.Sign() <= 0 {
		return nil, fmt.Errorf("curve: invalid range [%s, %s)", lo.Hex(), hi.Hex())
	}
	// Draw bit_length(width) + 64 extra bits of entropy so that reducing
	// modulo width introduces bias of at most 2^-64.
	nbits := width.BitLen() + 64
	nbytes := (nbits + 7) / 8
	buf := make([]byte, nbytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("curve: reading randomness: %w", err)
	}
	draw := new(big.Int).SetBytes(buf)
	offset := new(big.Int).Mod(draw, width)
	return &Scalar{v: new(big.Int).Add(lo.v, offset)}, nil
}


// Package curve implements secp256k1 field, scalar, and point arithmetic.
//
// Field elements are integers modulo the field prime p = 2^256 - 2^32 - 977.
// Scalars are integers modulo the curve order n. The two moduli are kept as
// distinct Go types so a caller cannot accidentally mix them.
package curve

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// FieldPrime is the secp256k1 field prime p = 2^256 - 2^32 - 977.
var FieldPrime, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)

// FieldElement is an integer reduced modulo FieldPrime.
type FieldElement struct {
	v *big.Int
}

// FieldZero returns the additive identity.
func FieldZero() *FieldElement {
	return &FieldElement{v: new(big.Int)}
}

// FieldOne returns the multiplicative identity.
func FieldOne() *FieldElement {
	return &FieldElement{v: big.NewInt(1)}
}

// NewFieldElement reduces v modulo FieldPrime and returns the result.
func NewFieldElement(v *big.Int) *FieldElement {
	f := FieldZero()
	f.v.Mod(v, FieldPrime)
	return f
}

// FieldFromBytes interprets b as a 32-byte big-endian integer and reduces it
// modulo FieldPrime. It returns an error if b is not exactly 32 bytes.
func FieldFromBytes(b []byte) (*FieldElement, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("curve: field element must be 32 bytes, got %d", len(b))
	}
	return NewFieldElement(new(big.Int).SetBytes(b)), nil
}

// FieldFromHex parses a hex string (optional 0x/0X prefix, case-insensitive)
// into a field element reduced modulo FieldPrime.
func FieldFromHex(s string) (*FieldElement, error) {
	v, err := parseHexScalar(s)
	if err != nil {
		return nil, err
	}
	return NewFieldElement(v), nil
}

// Bytes returns f as a 32-byte big-endian slice.
func (f *FieldElement) Bytes() []byte {
	return padTo32(f.v.Bytes())
}

// Hex returns f as uppercase hex with no leading zero padding and no prefix.
// The zero value renders as "0".
func (f *FieldElement) Hex() string {
	return strings.ToUpper(f.v.Text(16))
}

// IsZero reports whether f is the additive identity.
func (f *FieldElement) IsZero() bool {
	return f.v.Sign() == 0
}

// Equal reports whether f and g represent the same field element.
func (f *FieldElement) Equal(g *FieldElement) bool {
	return f.v.Cmp(g.v) == 0
}

// Cmp compares f and g as unsigned integers (not modular residues).
func (f *FieldElement) Cmp(g *FieldElement) int {
	return f.v.Cmp(g.v)
}

// Add returns f + g mod p.
func (f *FieldElement) Add(g *FieldElement) *FieldElement {
	r := new(big.Int).Add(f.v, g.v)
	return NewFieldElement(r)
}

// Sub returns f - g mod p.
func (f *FieldElement) Sub(g *FieldElement) *FieldElement {
	r := new(big.Int).Sub(f.v, g.v)
	r.Mod(r, FieldPrime)
	return &FieldElement{v: r}
}

// Mul returns f * g mod p.
func (f *FieldElement) Mul(g *FieldElement) *FieldElement {
	r := new(big.Int).Mul(f.v, g.v)
	return NewFieldElement(r)
}

// Square returns f * f mod p.
func (f *FieldElement) Square() *FieldElement {
	return f.Mul(f)
}

// Negate returns -f mod p.
func (f *FieldElement) Negate() *FieldElement {
	if f.IsZero() {
		return FieldZero()
	}
	r := new(big.Int).Neg(f.v)
	r.Mod(r, FieldPrime)
	return &FieldElement{v: r}
}

// Inverse returns the multiplicative inverse of f mod p, or the zero
// element if f is zero (zero has no inverse; callers must treat a zero
// result as "no inverse").
func (f *FieldElement) Inverse() *FieldElement {
	if f.IsZero() {
		return FieldZero()
	}
	r := new(big.Int).ModInverse(f.v, FieldPrime)
	if r == nil {
		return FieldZero()
	}
	return &FieldElement{v: r}
}

// sqrtExponent is (p+1)/4, valid because p ≡ 3 (mod 4).
var sqrtExponent = func() *big.Int {
	e := new(big.Int).Add(FieldPrime, big.NewInt(1))
	return e.Rsh(e, 2)
}()

// Sqrt returns a square root of f modulo p using the p ≡ 3 (mod 4)
// shortcut y = f^((p+1)/4) mod p, and reports whether the result actually
// squares back to f (i.e. whether f is a quadratic residue).
func (f *FieldElement) Sqrt() (*FieldElement, bool) {
	root := &FieldElement{v: new(big.Int).Exp(f.v, sqrtExponent, FieldPrime)}
	if !root.Square().Equal(f) {
		return nil, false
	}
	return root, true
}

// IsOdd reports whether the canonical representative of f is odd.
func (f *FieldElement) IsOdd() bool {
	return f.v.Bit(0) == 1
}

func padTo32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// parseHexScalar parses a hex string with optional 0x/0X prefix into a
// nonnegative big.Int. It rejects non-hex characters.
func parseHexScalar(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		s = "0"
	}
	if _, err := hex.DecodeString(padEvenHex(s)); err != nil {
		return nil, fmt.Errorf("curve: invalid hex string %q: %w", s, err)
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, errors.New("curve: invalid hex string")
	}
	return v, nil
}

func padEvenHex(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}

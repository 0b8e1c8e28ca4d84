package curve

import (
	"fmt"
	"math/big"
)

// B is the secp256k1 curve parameter b in y^2 = x^3 + a*x + b (a = 0).
var B = big.NewInt(7)

// Point is either the point at infinity or an affine pair (x, y) on the
// curve y^2 = x^3 + 7 over F_p.
type Point struct {
	X, Y     *FieldElement
	Infinity bool
}

// Infinity returns the point at infinity O.
func Infinity() *Point {
	return &Point{Infinity: true}
}

// NewPoint constructs an affine point without checking it is on-curve.
// Callers that need the invariant enforced should call IsOnCurve.
func NewPoint(x, y *FieldElement) *Point {
	return &Point{X: x, Y: y}
}

var generator = func() *Point {
	gx, _ := new(big.Int).SetString("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798", 16)
	gy, _ := new(big.Int).SetString("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8", 16)
	return &Point{X: NewFieldElement(gx), Y: NewFieldElement(gy)}
}()

// Generator returns the secp256k1 base point G.
func Generator() *Point {
	g := *generator
	return &g
}

// IsOnCurve reports whether p satisfies y^2 = x^3 + 7 (mod p). The point
// at infinity is considered on-curve.
func (p *Point) IsOnCurve() bool {
	if p.Infinity {
		return true
	}
	lhs := p.Y.Square()
	rhs := p.X.Square().Mul(p.X).Add(NewFieldElement(B))
	return lhs.Equal(rhs)
}

// Equal reports whether p and q denote the same point.
func (p *Point) Equal(q *Point) bool {
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

// Negate returns -p (reflection across the x-axis).
func (p *Point) Negate() *Point {
	if p.Infinity {
		return Infinity()
	}
	return NewPoint(p.X, p.Y.Negate())
}

// Add returns p + q: the identity laws when either operand is infinity,
// Double when p and q coincide, infinity for the vertical-line case
// (p == -q), and the standard secant-line formula otherwise.
func Add(p, q *Point) *Point {
	if p.Infinity {
		return clone(q)
	}
	if q.Infinity {
		return clone(p)
	}
	if p.X.Equal(q.X) {
		if p.Y.Equal(q.Y) {
			return Double(p)
		}
		return Infinity()
	}

	// s = (q.y - p.y) * (q.x - p.x)^-1
	num := q.Y.Sub(p.Y)
	den := q.X.Sub(p.X)
	s := num.Mul(den.Inverse())

	xr := s.Square().Sub(p.X).Sub(q.X)
	yr := s.Mul(p.X.Sub(xr)).Sub(p.Y)
	return NewPoint(xr, yr)
}

// Double returns 2*p using the tangent-line formula. O doubles to O; a
// point with y = 0 doubles to O (the tangent there is vertical).
func Double(p *Point) *Point {
	if p.Infinity || p.Y.IsZero() {
		return Infinity()
	}

	two := NewFieldElement(big.NewInt(2))
	three := NewFieldElement(big.NewInt(3))

	// s = (3*x^2) * (2*y)^-1
	num := three.Mul(p.X.Square())
	den := two.Mul(p.Y)
	s := num.Mul(den.Inverse())

	xr := s.Square().Sub(two.Mul(p.X))
	yr := s.Mul(p.X.Sub(xr)).Sub(p.Y)
	return NewPoint(xr, yr)
}

// ScalarMult returns k*p using left-to-right double-and-add. k must be
// nonnegative; k = 0 returns the point at infinity.
func ScalarMult(k *Scalar, p *Point) *Point {
	if k.Sign() == 0 {
		return Infinity()
	}
	result := Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		result = Double(result)
		if k.Bit(i) == 1 {
			result = Add(result, p)
		}
	}
	return result
}

// Encode serializes p as 65-byte uncompressed (04‖x‖y) when compressed is
// false, or 33-byte compressed ((02|03)‖x) when true.
func (p *Point) Encode(compressed bool) []byte {
	if p.Infinity {
		if compressed {
			return make([]byte, 33)
		}
		return make([]byte, 65)
	}
	if compressed {
		out := make([]byte, 33)
		if p.Y.IsOdd() {
			out[0] = 0x03
		} else {
			out[0] = 0x02
		}
		copy(out[1:], p.X.Bytes())
		return out
	}
	out := make([]byte, 65)
	out[0] = 0x04
	copy(out[1:33], p.X.Bytes())
	copy(out[33:], p.Y.Bytes())
	return out
}

// Decode parses a 33-byte compressed point, a 65-byte uncompressed point
// (04‖x‖y), or a bare 64-byte x‖y pair with no prefix byte, strictly
// checking the prefix against the supplied length and rejecting points
// that are not on-curve. For compressed input, y is recovered with the
// full modular square root, never a placeholder.
func Decode(b []byte) (*Point, error) {
	switch len(b) {
	case 33:
		switch b[0] {
		case 0x02, 0x03:
			x, err := FieldFromBytes(b[1:])
			if err != nil {
				return nil, err
			}
			rhs := x.Square().Mul(x).Add(NewFieldElement(B))
			y, ok := rhs.Sqrt()
			if !ok {
				return nil, fmt.Errorf("curve: x-coordinate %s is not a quadratic residue", x.Hex())
			}
			wantOdd := b[0] == 0x03
			if y.IsOdd() != wantOdd {
				y = y.Negate()
			}
			p := NewPoint(x, y)
			if !p.IsOnCurve() {
				return nil, fmt.Errorf("curve: decoded point is not on-curve")
			}
			return p, nil
		default:
			return nil, fmt.Errorf("curve: invalid compressed prefix 0x%02x", b[0])
		}
	case 65:
		if b[0] != 0x04 {
			return nil, fmt.Errorf("curve: invalid uncompressed prefix 0x%02x", b[0])
		}
		return decodeXY(b[1:33], b[33:65])
	case 64:
		return decodeXY(b[0:32], b[32:64])
	default:
		return nil, fmt.Errorf("curve: point encoding must be 33, 64, or 65 bytes, got %d", len(b))
	}
}

func decodeXY(xb, yb []byte) (*Point, error) {
	x, err := FieldFromBytes(xb)
	if err != nil {
		return nil, err
	}
	y, err := FieldFromBytes(yb)
	if err != nil {
		return nil, err
	}
	p := NewPoint(x, y)
	if !p.IsOnCurve() {
		return nil, fmt.Errorf("curve: decoded point is not on-curve")
	}
	return p, nil
}

func clone(p *Point) *Point {
	if p.Infinity {
		return Infinity()
	}
	return NewPoint(p.X, p.Y)
}

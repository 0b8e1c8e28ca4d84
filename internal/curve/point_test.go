package curve

import (
	"math/big"
	"testing"
)

func TestGeneratorIsOnCurve(t *testing.T) {
	if !Generator().IsOnCurve() {
		t.Fatalf("generator is not reported on-curve")
	}
}

func TestAddIdentity(t *testing.T) {
	g := Generator()
	if got := Add(g, Infinity()); !got.Equal(g) {
		t.Fatalf("G + O != G")
	}
	if got := Add(Infinity(), g); !got.Equal(g) {
		t.Fatalf("O + G != G")
	}
}

func TestAddCommutative(t *testing.T) {
	g := Generator()
	g2 := Double(g)
	g3 := Add(g, g2)
	if !Add(g, g2).Equal(Add(g2, g)) {
		t.Fatalf("add is not commutative")
	}
	if !g3.IsOnCurve() {
		t.Fatalf("g+g2 not on curve")
	}
}

func TestAddAssociative(t *testing.T) {
	g := Generator()
	p := ScalarMult(ScalarFromUint64(2), g)
	q := ScalarMult(ScalarFromUint64(3), g)
	r := ScalarMult(ScalarFromUint64(5), g)

	lhs := Add(Add(p, q), r)
	rhs := Add(p, Add(q, r))
	if !lhs.Equal(rhs) {
		t.Fatalf("add is not associative: (p+q)+r = (%s,%s), p+(q+r) = (%s,%s)",
			lhs.X.Hex(), lhs.Y.Hex(), rhs.X.Hex(), rhs.Y.Hex())
	}
}

func TestAddInverse(t *testing.T) {
	g := Generator()
	neg := g.Negate()
	if got := Add(g, neg); !got.Infinity {
		t.Fatalf("P + (-P) != O")
	}
}

func TestDoubleVsAdd(t *testing.T) {
	g := Generator()
	if !Double(g).Equal(Add(g, g)) {
		t.Fatalf("double(G) != G+G")
	}
}

func TestScalarMultZeroIsInfinity(t *testing.T) {
	if got := ScalarMult(ScalarZero(), Generator()); !got.Infinity {
		t.Fatalf("0*G != O")
	}
}

func TestScalarMultOrderIsInfinity(t *testing.T) {
	n := NewScalar(CurveOrder)
	if got := ScalarMult(n, Generator()); !got.Infinity {
		t.Fatalf("n*G != O")
	}
}

func TestScalarMultDistributive(t *testing.T) {
	a := ScalarFromUint64(11)
	b := ScalarFromUint64(23)
	g := Generator()

	lhs := ScalarMult(a.Add(b), g)
	rhs := Add(ScalarMult(a, g), ScalarMult(b, g))
	if !lhs.Equal(rhs) {
		t.Fatalf("(a+b)*G != a*G + b*G")
	}
}

func TestScalarMultProducesOnCurvePoints(t *testing.T) {
	g := Generator()
	for _, k := range []uint64{1, 2, 3, 4, 1000, 0xABCDEF} {
		p := ScalarMult(ScalarFromUint64(k), g)
		if !p.IsOnCurve() {
			t.Fatalf("%d*G is not on-curve", k)
		}
	}
}

func TestEncodeDecodeUncompressedRoundTrip(t *testing.T) {
	p := ScalarMult(ScalarFromUint64(4), Generator())
	enc := p.Encode(false)
	if len(enc) != 65 || enc[0] != 0x04 {
		t.Fatalf("uncompressed encoding malformed: len=%d prefix=%x", len(enc), enc[0])
	}
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !dec.Equal(p) {
		t.Fatalf("decode(encode(P)) != P")
	}
}

func TestEncodeDecodeCompressedRoundTrip(t *testing.T) {
	p := ScalarMult(ScalarFromUint64(4), Generator())
	enc := p.Encode(true)
	if len(enc) != 33 {
		t.Fatalf("compressed encoding length = %d, want 33", len(enc))
	}
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !dec.Equal(p) {
		t.Fatalf("decode(encode(P)) != P")
	}
}

func TestCompressedDecodeFlippedPrefixYieldsNegation(t *testing.T) {
	p := ScalarMult(ScalarFromUint64(4), Generator())
	enc := p.Encode(true)
	flipped := append([]byte{}, enc...)
	if flipped[0] == 0x02 {
		flipped[0] = 0x03
	} else {
		flipped[0] = 0x02
	}
	dec, err := Decode(flipped)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !dec.Equal(p.Negate()) {
		t.Fatalf("decoding with flipped prefix did not yield -P")
	}
}

func TestDecodeRejectsNonResidueX(t *testing.T) {
	// Search small x values for one whose x^3+7 is not a quadratic
	// residue mod p; roughly half of all x should qualify.
	for x := int64(1); x < 64; x++ {
		fe := NewFieldElement(big.NewInt(x))
		rhs := fe.Square().Mul(fe).Add(NewFieldElement(B))
		if _, ok := rhs.Sqrt(); ok {
			continue
		}
		enc := make([]byte, 33)
		enc[0] = 0x02
		copy(enc[1:], fe.Bytes())
		if _, err := Decode(enc); err == nil {
			t.Fatalf("expected decode of non-residue x=%d to fail", x)
		}
		return
	}
	t.Fatalf("could not find a non-residue x in the probed range")
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	if _, err := Decode(make([]byte, 10)); err == nil {
		t.Fatalf("expected error for 10-byte input")
	}
}

func TestDecodeRejectsBadPrefix(t *testing.T) {
	enc := make([]byte, 33)
	enc[0] = 0x05
	if _, err := Decode(enc); err == nil {
		t.Fatalf("expected error for invalid compressed prefix")
	}
	enc65 := make([]byte, 65)
	enc65[0] = 0x02
	if _, err := Decode(enc65); err == nil {
		t.Fatalf("expected error for invalid uncompressed prefix")
	}
}

func TestOnCurveRejectsBadPoint(t *testing.T) {
	p := NewPoint(FieldOne(), FieldOne())
	if p.IsOnCurve() {
		t.Fatalf("(1,1) should not be on-curve")
	}
}

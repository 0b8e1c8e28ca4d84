package kangaroo

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dlpsolve/kangaroo/internal/curve"
	"github.com/dlpsolve/kangaroo/internal/engine"
)

// Params is the human-facing input to Init: a public key (compressed,
// uncompressed, or bare x‖y, hex-encoded, optional 0x prefix) and a range
// as hex scalars, plus worker count and distinguished-point bit width.
type Params struct {
	PublicKeyHex string
	RangeLoHex   string
	RangeHiHex   string
	Workers      int
	DPBits       int
}

// ParseConfig decodes p into an engine.Config, rejecting malformed hex or
// an off-curve public key before any worker is spawned.
func ParseConfig(p Params) (engine.Config, error) {
	target, err := parsePublicKeyHex(p.PublicKeyHex)
	if err != nil {
		return engine.Config{}, err
	}

	lo, err := curve.ScalarFromHex(p.RangeLoHex)
	if err != nil {
		return engine.Config{}, fmt.Errorf("kangaroo: invalid range_lo: %w", err)
	}
	hi, err := curve.ScalarFromHex(p.RangeHiHex)
	if err != nil {
		return engine.Config{}, fmt.Errorf("kangaroo: invalid range_hi: %w", err)
	}

	cfg := engine.Config{
		Target:  target,
		RangeLo: lo,
		RangeHi: hi,
		Workers: p.Workers,
		DPBits:  p.DPBits,
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// parsePublicKeyHex decodes a hex-encoded public key (compressed,
// uncompressed, or bare x‖y, with an optional 0x/0X prefix) into a Point,
// rejecting malformed hex, a length curve.Decode does not recognize, or a
// point that is not on-curve.
func parsePublicKeyHex(s string) (*curve.Point, error) {
	b, err := decodeHexBytes(s)
	if err != nil {
		return nil, fmt.Errorf("kangaroo: invalid public key: %w", err)
	}
	p, err := curve.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("kangaroo: invalid public key: %w", err)
	}
	return p, nil
}

// decodeHexBytes decodes a hex-encoded string, with an optional 0x/0X
// prefix, into raw bytes.
func decodeHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

package kangaroo

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/dlpsolve/kangaroo/internal/curve"
)

// VerifySolution reports whether solutionHex times the generator equals
// the public key publicKeyHex, checking the claim against the real
// secp256k1 implementation rather than this module's own point
// arithmetic. Callers use it to re-check a solved engine's result, or a
// checkpointed one, without re-running the walkers.
func VerifySolution(solutionHex, publicKeyHex string) (bool, error) {
	k, err := curve.ScalarFromHex(solutionHex)
	if err != nil {
		return false, fmt.Errorf("kangaroo: invalid solution: %w", err)
	}
	target, err := parsePublicKeyHex(publicKeyHex)
	if err != nil {
		return false, err
	}
	if target.Infinity {
		return false, fmt.Errorf("kangaroo: public key must not be the point at infinity")
	}
	if k.Sign() <= 0 || k.Cmp(curve.NewScalar(curve.CurveOrder)) >= 0 {
		return false, nil
	}

	priv := secp256k1.PrivKeyFromBytes(k.Bytes32())
	got := priv.PubKey().SerializeCompressed()
	want := target.Encode(true)
	if len(got) != len(want) {
		return false, nil
	}
	for i := range want {
		if got[i] != want[i] {
			return false, nil
		}
	}
	return true, nil
}

// pedersen.go - Pedersen commitments C = amount·G + mask·H.
//
// The commitment hides the amount behind the mask and binds the sender to
// both values as long as log_G(H) stays unknown.

package commitment

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"

	"stealthcoin/internal/curve"
)

// ErrScalarRange is returned when an amount or mask is not in [0, n).
var ErrScalarRange = errors.New("scalar out of range")

// Commit computes amount·G + mask·H.
func Commit(params *curve.Params, amount, mask *big.Int) (secp256k1.G1Affine, error) {
	if !params.InScalarRange(amount) || !params.InScalarRange(mask) {
		return secp256k1.G1Affine{}, ErrScalarRange
	}
	aG := params.ScalarBaseMult(amount)
	mH := params.ScalarMult(&params.H, mask)
	return params.Add(&aG, &mH), nil
}

// Verify reports whether (amount, mask) opens the commitment published as
// an X coordinate and Y parity.
func Verify(params *curve.Params, amount, mask, x *big.Int, odd bool) bool {
	c, err := curve.Decompress(x, odd)
	if err != nil {
		return false
	}
	return VerifyPoint(params, amount, mask, &c)
}

// VerifyPoint reports whether (amount, mask) opens c.
func VerifyPoint(params *curve.Params, amount, mask *big.Int, c *secp256k1.G1Affine) bool {
	expected, err := Commit(params, amount, mask)
	if err != nil {
		return false
	}
	return curve.Equal(&expected, c)
}

// codec.go - Point codec between on-chain and in-memory forms.
//
// On chain a point travels as its X coordinate plus one parity bit for Y.
// Generated proofs carry the SEC1 uncompressed form 0x04 || X || Y.

package curve

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fp"
)

// UncompressedSize is the length of 0x04 || X || Y.
const UncompressedSize = 1 + secp256k1.SizeOfG1AffineUncompressed

const uncompressedPrefix = 0x04

// ErrInvalidPoint is returned when bytes or coordinates do not describe a point on the curve.
var ErrInvalidPoint = errors.New("invalid point")

// Decompress recovers the point with the given X whose Y has the requested parity.
func Decompress(x *big.Int, odd bool) (secp256k1.G1Affine, error) {
	var p secp256k1.G1Affine
	if x == nil || x.Sign() < 0 || x.Cmp(fp.Modulus()) >= 0 {
		return p, fmt.Errorf("%w: x coordinate out of field range", ErrInvalidPoint)
	}
	p.X.SetBigInt(x)

	// y² = x³ + ax + b
	a, b := secp256k1.CurveCoefficients()
	var rhs, ax fp.Element
	rhs.Square(&p.X).Mul(&rhs, &p.X)
	ax.Mul(&a, &p.X)
	rhs.Add(&rhs, &ax).Add(&rhs, &b)

	if p.Y.Sqrt(&rhs) == nil {
		return secp256k1.G1Affine{}, fmt.Errorf("%w: no square root for x=%s", ErrInvalidPoint, x.Text(16))
	}
	if isOdd(&p.Y) != odd {
		p.Y.Neg(&p.Y)
	}
	return p, nil
}

// Compress returns the X coordinate and Y parity of p.
func Compress(p *secp256k1.G1Affine) (*big.Int, bool) {
	return p.X.BigInt(new(big.Int)), isOdd(&p.Y)
}

// ToUncompressed encodes p as 0x04 || X || Y.
func ToUncompressed(p *secp256k1.G1Affine) [UncompressedSize]byte {
	var out [UncompressedSize]byte
	out[0] = uncompressedPrefix
	raw := p.RawBytes()
	copy(out[1:], raw[:])
	return out
}

// FromUncompressed decodes 0x04 || X || Y.
func FromUncompressed(buf []byte) (secp256k1.G1Affine, error) {
	var p secp256k1.G1Affine
	if len(buf) != UncompressedSize {
		return p, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, UncompressedSize, len(buf))
	}
	if buf[0] != uncompressedPrefix {
		return p, fmt.Errorf("%w: unexpected prefix 0x%02x", ErrInvalidPoint, buf[0])
	}
	if _, err := p.SetBytes(buf[1:]); err != nil {
		return secp256k1.G1Affine{}, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	if p.IsInfinity() || !p.IsOnCurve() {
		return secp256k1.G1Affine{}, fmt.Errorf("%w: not on curve", ErrInvalidPoint)
	}
	return p, nil
}

// Equal compares the encoded coordinates of a and b in constant time.
func Equal(a, b *secp256k1.G1Affine) bool {
	ra, rb := a.RawBytes(), b.RawBytes()
	return subtle.ConstantTimeCompare(ra[:], rb[:]) == 1
}

func isOdd(e *fp.Element) bool {
	raw := e.Bytes()
	return raw[fp.Bytes-1]&1 == 1
}

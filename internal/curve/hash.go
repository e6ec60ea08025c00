// hash.go - Keccak-256 helpers and hash-to-scalar.
//
// Generation and ownership checks must derive the shared secret through the
// same function, so both sides go through Params.HashToScalar.

package curve

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes the concatenation of data with legacy Keccak-256.
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HashToScalar computes keccak256(scalarDST || data...) mod n.
func (p *Params) HashToScalar(data ...[]byte) *big.Int {
	h := p.newHash()
	h.Write(p.scalarDST)
	for _, d := range data {
		h.Write(d)
	}
	s := new(big.Int).SetBytes(h.Sum(nil))
	return s.Mod(s, p.order)
}

// HashPoint hashes the 64-byte X||Y encoding of a point to a scalar.
func (p *Params) HashPoint(point *secp256k1.G1Affine) *big.Int {
	raw := point.RawBytes()
	return p.HashToScalar(raw[:])
}

// ScalarBytes encodes s as a 32-byte big-endian value. s must fit in 256 bits.
func ScalarBytes(s *big.Int) [32]byte {
	var out [32]byte
	s.FillBytes(out[:])
	return out
}

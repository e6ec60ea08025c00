// keys.go - Spend/view key material and public stealth addresses.
//
// A wallet holds a spend key s and a view key v. The view key is derived
// from the spend key so a single secret restores both. Senders only ever
// see the public pair (S, V).

package stealth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"

	"stealthcoin/internal/curve"
)

const viewKeyLabel = "view"

// PublicAddressSize is the encoded size of a PublicAddress.
const PublicAddressSize = 2 * curve.UncompressedSize

// ErrInvalidKey is returned for private scalars outside [1, n).
var ErrInvalidKey = errors.New("invalid private key")

// Keys is the private key material of a wallet.
type Keys struct {
	Spend *big.Int // s
	View  *big.Int // v

	SpendPub secp256k1.G1Affine // S = s·G
	ViewPub  secp256k1.G1Affine // V = v·G
}

// PublicAddress is what a sender needs to pay a wallet.
type PublicAddress struct {
	Spend secp256k1.G1Affine
	View  secp256k1.G1Affine
}

// NewKeys builds key material from explicit spend and view scalars.
func NewKeys(params *curve.Params, spend, view *big.Int) (*Keys, error) {
	if !validPrivate(params, spend) {
		return nil, fmt.Errorf("%w: spend key", ErrInvalidKey)
	}
	if !validPrivate(params, view) {
		return nil, fmt.Errorf("%w: view key", ErrInvalidKey)
	}
	return &Keys{
		Spend:    new(big.Int).Set(spend),
		View:     new(big.Int).Set(view),
		SpendPub: params.ScalarBaseMult(spend),
		ViewPub:  params.ScalarBaseMult(view),
	}, nil
}

// DeriveKeys derives the view key v = Hs("view" || s) from the spend key.
func DeriveKeys(params *curve.Params, spend *big.Int) (*Keys, error) {
	if !validPrivate(params, spend) {
		return nil, fmt.Errorf("%w: spend key", ErrInvalidKey)
	}
	sb := curve.ScalarBytes(spend)
	view := params.HashToScalar([]byte(viewKeyLabel), sb[:])
	return NewKeys(params, spend, view)
}

// GenerateKeys draws a fresh spend key from rand and derives the rest.
func GenerateKeys(params *curve.Params, rand io.Reader) (*Keys, error) {
	spend, err := RandomScalar(params, rand)
	if err != nil {
		return nil, err
	}
	return DeriveKeys(params, spend)
}

// RandomScalar returns a uniform scalar in [1, n).
func RandomScalar(params *curve.Params, rand io.Reader) (*big.Int, error) {
	var buf [48]byte
	for {
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return nil, fmt.Errorf("failed to read randomness: %w", err)
		}
		s := params.ReduceScalar(new(big.Int).SetBytes(buf[:]))
		if s.Sign() != 0 {
			return s, nil
		}
	}
}

// PublicAddress returns (S, V).
func (k *Keys) PublicAddress() PublicAddress {
	return PublicAddress{Spend: k.SpendPub, View: k.ViewPub}
}

// Bytes encodes the address as two uncompressed points S || V.
func (a PublicAddress) Bytes() []byte {
	s := curve.ToUncompressed(&a.Spend)
	v := curve.ToUncompressed(&a.View)
	out := make([]byte, 0, PublicAddressSize)
	out = append(out, s[:]...)
	return append(out, v[:]...)
}

// String returns the 0x-prefixed hex form of Bytes.
func (a PublicAddress) String() string {
	return "0x" + hex.EncodeToString(a.Bytes())
}

// ParsePublicAddress decodes the output of PublicAddress.String.
func ParsePublicAddress(s string) (PublicAddress, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return PublicAddress{}, fmt.Errorf("failed to decode public address: %w", err)
	}
	if len(raw) != PublicAddressSize {
		return PublicAddress{}, fmt.Errorf("public address must be %d bytes, got %d", PublicAddressSize, len(raw))
	}
	spend, err := curve.FromUncompressed(raw[:curve.UncompressedSize])
	if err != nil {
		return PublicAddress{}, fmt.Errorf("spend key: %w", err)
	}
	view, err := curve.FromUncompressed(raw[curve.UncompressedSize:])
	if err != nil {
		return PublicAddress{}, fmt.Errorf("view key: %w", err)
	}
	return PublicAddress{Spend: spend, View: view}, nil
}

func validPrivate(params *curve.Params, s *big.Int) bool {
	return params.InScalarRange(s) && s.Sign() != 0
}

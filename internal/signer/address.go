// address.go - 20-byte destination addresses.

package signer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"

	"stealthcoin/internal/curve"
)

// AddressSize is the length of a destination address.
const AddressSize = 20

// ErrInvalidAddress is returned for strings that are not 0x + 40 hex digits.
var ErrInvalidAddress = errors.New("invalid address")

// Address is an account address on the settlement chain.
type Address [AddressSize]byte

// ParseAddress decodes a hex address with optional 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(digits) != 2*AddressSize {
		return a, fmt.Errorf("%w: expected %d hex digits, got %d", ErrInvalidAddress, 2*AddressSize, len(digits))
	}
	if _, err := hex.Decode(a[:], []byte(digits)); err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return a, nil
}

// AddressFromPublicKey returns keccak256(X || Y)[12:].
func AddressFromPublicKey(pub *secp256k1.G1Affine) Address {
	raw := pub.RawBytes()
	h := curve.Keccak256(raw[:])
	var a Address
	copy(a[:], h[32-AddressSize:])
	return a
}

// String returns the lower-case 0x form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

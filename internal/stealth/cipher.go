// cipher.go - Amount and mask encryption under the shared secret.
//
// kA = keccak256(q), kM = keccak256(kA). Both plaintexts are 32-byte
// big-endian values XORed with their key. There is no authentication tag;
// a tampered ciphertext is only caught by the commitment check.

package stealth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"stealthcoin/internal/curve"
)

// CiphertextSize is the length of an encrypted amount or mask.
const CiphertextSize = 32

// ErrMalformedCiphertext is returned for ciphertexts that are not 32 bytes.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// Ciphertext is an encrypted 32-byte value.
type Ciphertext [CiphertextSize]byte

// ParseCiphertext decodes a hex ciphertext. Leading zero digits may be
// omitted, as they are when the value comes back as a uint256.
func ParseCiphertext(s string) (Ciphertext, error) {
	var c Ciphertext
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" || len(digits) > 2*CiphertextSize {
		return c, fmt.Errorf("%w: %d hex digits", ErrMalformedCiphertext, len(digits))
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	copy(c[CiphertextSize-len(raw):], raw)
	return c, nil
}

// String returns 0x followed by 64 hex digits.
func (c Ciphertext) String() string {
	return "0x" + hex.EncodeToString(c[:])
}

// keystream derives the amount key and the mask key from q.
func keystream(q *big.Int) (kA, kM [32]byte) {
	qb := curve.ScalarBytes(q)
	kA = curve.Keccak256(qb[:])
	kM = curve.Keccak256(kA[:])
	return kA, kM
}

// Seal encrypts amount and mask for the holder of q.
func Seal(q, amount, mask *big.Int) (encAmount, encMask Ciphertext, err error) {
	if !fits(amount) || !fits(mask) {
		return encAmount, encMask, errors.New("amount and mask must be non-negative 256-bit values")
	}
	kA, kM := keystream(q)
	a := curve.ScalarBytes(amount)
	m := curve.ScalarBytes(mask)
	return xorKey(a, kA), xorKey(m, kM), nil
}

// Unseal reverses Seal.
func Unseal(q *big.Int, encAmount, encMask Ciphertext) (amount, mask *big.Int) {
	kA, kM := keystream(q)
	a := xorKey(encAmount, kA)
	m := xorKey(encMask, kM)
	return new(big.Int).SetBytes(a[:]), new(big.Int).SetBytes(m[:])
}

func xorKey(a, key [32]byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = a[i] ^ key[i]
	}
	return out
}

func fits(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= 8*CiphertextSize
}

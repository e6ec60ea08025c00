// proof.go - Freshly generated coins.
//
// A Proof is what a sender produces before the coin is posted: points in
// uncompressed form plus the plaintext mask the sender keeps.

package coin

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"

	"stealthcoin/internal/commitment"
	"stealthcoin/internal/curve"
	"stealthcoin/internal/stealth"
)

// Point is an uncompressed point 0x04 || X || Y.
type Point [curve.UncompressedSize]byte

// MarshalJSON writes the point as a 0x-prefixed hex string.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(p[:]))
}

// UnmarshalJSON reads a 0x-prefixed hex string.
func (p *Point) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("%w: %v", curve.ErrInvalidPoint, err)
	}
	if len(b) != len(p) {
		return fmt.Errorf("%w: expected %d bytes, got %d", curve.ErrInvalidPoint, len(p), len(b))
	}
	copy(p[:], b)
	return nil
}

// Proof is a generated coin before it is compacted for the chain.
type Proof struct {
	OneTimeAddress  Point
	EphemeralKey    Point
	Commitment      Point
	EncryptedAmount stealth.Ciphertext
	EncryptedMask   stealth.Ciphertext
	Mask            *big.Int
	Index           uint64
}

type proofJSON struct {
	OneTimeAddress  Point  `json:"oneTimeAddress"`
	EphemeralKey    Point  `json:"ephemeralKey"`
	Commitment      Point  `json:"commitment"`
	EncryptedAmount string `json:"encryptedAmount"`
	EncryptedMask   string `json:"encryptedMask"`
	Mask            string `json:"mask"`
	Index           uint64 `json:"index"`
}

// MarshalJSON writes ciphertexts and mask as hex strings.
func (p Proof) MarshalJSON() ([]byte, error) {
	mask := "0x0"
	if p.Mask != nil {
		mask = "0x" + p.Mask.Text(16)
	}
	return json.Marshal(proofJSON{
		OneTimeAddress:  p.OneTimeAddress,
		EphemeralKey:    p.EphemeralKey,
		Commitment:      p.Commitment,
		EncryptedAmount: p.EncryptedAmount.String(),
		EncryptedMask:   p.EncryptedMask.String(),
		Mask:            mask,
		Index:           p.Index,
	})
}

// UnmarshalJSON reverses MarshalJSON.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var raw proofJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	encA, err := stealth.ParseCiphertext(raw.EncryptedAmount)
	if err != nil {
		return fmt.Errorf("encrypted amount: %w", err)
	}
	encM, err := stealth.ParseCiphertext(raw.EncryptedMask)
	if err != nil {
		return fmt.Errorf("encrypted mask: %w", err)
	}
	mask, err := parseWord(raw.Mask)
	if err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	*p = Proof{
		OneTimeAddress:  raw.OneTimeAddress,
		EphemeralKey:    raw.EphemeralKey,
		Commitment:      raw.Commitment,
		EncryptedAmount: encA,
		EncryptedMask:   encM,
		Mask:            mask,
		Index:           raw.Index,
	}
	return nil
}

// Generate builds a coin of amount for addr. The sender picks r, publishes
// R = r·G and P = Hs(r·V)·G + S, commits to amount under a random mask and
// seals both for the recipient.
func Generate(params *curve.Params, rand io.Reader, addr stealth.PublicAddress, amount *big.Int, index uint64) (*Proof, error) {
	if !params.InScalarRange(amount) {
		return nil, fmt.Errorf("amount: %w", commitment.ErrScalarRange)
	}

	r, err := stealth.RandomScalar(params, rand)
	if err != nil {
		return nil, fmt.Errorf("failed to draw transaction key: %w", err)
	}
	mask, err := stealth.RandomScalar(params, rand)
	if err != nil {
		return nil, fmt.Errorf("failed to draw mask: %w", err)
	}

	R := params.ScalarBaseMult(r)
	q := stealth.SharedSecret(params, r, &addr.View)
	P := stealth.OneTimeAddress(params, q, &addr.Spend)

	C, err := commitment.Commit(params, amount, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	encA, encM, err := stealth.Seal(q, amount, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to seal: %w", err)
	}

	return &Proof{
		OneTimeAddress:  pointOf(&P),
		EphemeralKey:    pointOf(&R),
		Commitment:      pointOf(&C),
		EncryptedAmount: encA,
		EncryptedMask:   encM,
		Mask:            mask,
		Index:           index,
	}, nil
}

// FromProof compacts p and decodes it the same way an on-chain record is
// decoded, so both paths yield identical coins.
func FromProof(params *curve.Params, p *Proof) (*FullCoin, error) {
	compact, err := p.Compact()
	if err != nil {
		return nil, err
	}
	return Decode(params, compact)
}

// Compact converts the uncompressed points of p to X and parity.
func (p *Proof) Compact() (*CompactCoin, error) {
	c, err := curve.FromUncompressed(p.Commitment[:])
	if err != nil {
		return nil, fmt.Errorf("commitment: %w", err)
	}
	o, err := curve.FromUncompressed(p.OneTimeAddress[:])
	if err != nil {
		return nil, fmt.Errorf("one-time address: %w", err)
	}
	r, err := curve.FromUncompressed(p.EphemeralKey[:])
	if err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}
	cx, codd := curve.Compress(&c)
	ox, oodd := curve.Compress(&o)
	rx, rodd := curve.Compress(&r)
	return &CompactCoin{
		CommitmentX:     cx,
		OneTimeX:        ox,
		EphemeralX:      rx,
		CommitmentOdd:   codd,
		OneTimeOdd:      oodd,
		EphemeralOdd:    rodd,
		EncryptedAmount: p.EncryptedAmount,
		EncryptedMask:   p.EncryptedMask,
		Index:           p.Index,
	}, nil
}

func pointOf(p *secp256k1.G1Affine) Point {
	return Point(curve.ToUncompressed(p))
}

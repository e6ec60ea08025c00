// coin.go - Decoded coins, ownership checks and spend signatures.
//
// A FullCoin never changes after Decode. Checking ownership returns a
// separate Ownership value, so one coin can be tested against many wallets
// from many goroutines.

package coin

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"

	"stealthcoin/internal/commitment"
	"stealthcoin/internal/curve"
	"stealthcoin/internal/signer"
	"stealthcoin/internal/stealth"
)

// ErrCommitmentMismatch is returned when an owned coin's decrypted amount
// and mask do not open its commitment.
var ErrCommitmentMismatch = errors.New("commitment mismatch")

// FullCoin is a coin with every point decoded.
type FullCoin struct {
	params *curve.Params

	commitment secp256k1.G1Affine // C
	oneTime    secp256k1.G1Affine // P
	ephemeral  secp256k1.G1Affine // R

	encAmount stealth.Ciphertext
	encMask   stealth.Ciphertext
	index     uint64
}

// Ownership is the result of a successful ownership check.
type Ownership struct {
	Coin       *FullCoin
	Amount     *big.Int
	Mask       *big.Int
	PrivateKey *big.Int           // one-time key x
	PublicKey  secp256k1.G1Affine // x·G
}

// Decode decompresses every point of c.
func Decode(params *curve.Params, c *CompactCoin) (*FullCoin, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil coin", ErrMalformedRecord)
	}
	cm, err := curve.Decompress(c.CommitmentX, c.CommitmentOdd)
	if err != nil {
		return nil, fmt.Errorf("commitment: %w", err)
	}
	p, err := curve.Decompress(c.OneTimeX, c.OneTimeOdd)
	if err != nil {
		return nil, fmt.Errorf("one-time address: %w", err)
	}
	r, err := curve.Decompress(c.EphemeralX, c.EphemeralOdd)
	if err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}
	return &FullCoin{
		params:     params,
		commitment: cm,
		oneTime:    p,
		ephemeral:  r,
		encAmount:  c.EncryptedAmount,
		encMask:    c.EncryptedMask,
		index:      c.Index,
	}, nil
}

// DecodeRecord parses and decodes an on-chain record.
func DecodeRecord(params *curve.Params, r Record) (*FullCoin, error) {
	c, err := ParseRecord(r)
	if err != nil {
		return nil, err
	}
	return Decode(params, c)
}

// Commitment returns C.
func (c *FullCoin) Commitment() secp256k1.G1Affine { return c.commitment }

// OneTimeAddress returns P.
func (c *FullCoin) OneTimeAddress() secp256k1.G1Affine { return c.oneTime }

// EphemeralKey returns R.
func (c *FullCoin) EphemeralKey() secp256k1.G1Affine { return c.ephemeral }

// EncryptedAmount returns the amount ciphertext.
func (c *FullCoin) EncryptedAmount() stealth.Ciphertext { return c.encAmount }

// EncryptedMask returns the mask ciphertext.
func (c *FullCoin) EncryptedMask() stealth.Ciphertext { return c.encMask }

// Index returns the coin's position in the contract.
func (c *FullCoin) Index() uint64 { return c.index }

// Compact returns the on-chain form of c.
func (c *FullCoin) Compact() *CompactCoin {
	cx, codd := curve.Compress(&c.commitment)
	px, podd := curve.Compress(&c.oneTime)
	rx, rodd := curve.Compress(&c.ephemeral)
	return &CompactCoin{
		CommitmentX:     cx,
		OneTimeX:        px,
		EphemeralX:      rx,
		CommitmentOdd:   codd,
		OneTimeOdd:      podd,
		EphemeralOdd:    rodd,
		EncryptedAmount: c.encAmount,
		EncryptedMask:   c.encMask,
		Index:           c.index,
	}
}

// Equal reports whether both coins carry the same points, ciphertexts and index.
func (c *FullCoin) Equal(other *FullCoin) bool {
	if other == nil {
		return false
	}
	return curve.Equal(&c.commitment, &other.commitment) &&
		curve.Equal(&c.oneTime, &other.oneTime) &&
		curve.Equal(&c.ephemeral, &other.ephemeral) &&
		c.encAmount == other.encAmount &&
		c.encMask == other.encMask &&
		c.index == other.index
}

// CheckOwnership tests whether keys own the coin. The second result is
// false for coins paid to someone else.
func (c *FullCoin) CheckOwnership(keys *stealth.Keys) (*Ownership, bool) {
	opening, ok := stealth.Open(c.params, keys, &c.ephemeral, &c.oneTime, c.encAmount, c.encMask)
	if !ok {
		return nil, false
	}
	return &Ownership{
		Coin:       c,
		Amount:     opening.Amount,
		Mask:       opening.Mask,
		PrivateKey: opening.OneTimeKey,
		PublicKey:  opening.OneTimePub,
	}, true
}

// Claim checks ownership and then the commitment. An owned coin whose
// amount and mask do not open C is reported as ErrCommitmentMismatch.
func (c *FullCoin) Claim(keys *stealth.Keys) (*Ownership, bool, error) {
	o, ok := c.CheckOwnership(keys)
	if !ok {
		return nil, false, nil
	}
	if !o.VerifyCommitment() {
		return nil, true, fmt.Errorf("coin %d: %w", c.index, ErrCommitmentMismatch)
	}
	return o, true, nil
}

// VerifyCommitment reports whether amount and mask open the commitment.
func (c *FullCoin) VerifyCommitment(amount, mask *big.Int) bool {
	return commitment.VerifyPoint(c.params, amount, mask, &c.commitment)
}

// HashForSigning returns the digest binding this coin to dest.
func (c *FullCoin) HashForSigning(dest signer.Address) [32]byte {
	return signer.Digest(&c.commitment, &c.oneTime, dest)
}

// Sign authorizes sending the coin to dest with priv, normally the
// one-time key from an Ownership.
func (c *FullCoin) Sign(priv *big.Int, dest signer.Address) (*signer.Signature, error) {
	return signer.Sign(priv, c.HashForSigning(dest))
}

// VerifySignature checks sig against the one-time address, as the
// contract does before releasing the coin.
func (c *FullCoin) VerifySignature(dest signer.Address, sig *signer.Signature) bool {
	return signer.Verify(&c.oneTime, c.HashForSigning(dest), sig)
}

// VerifyCommitment reports whether the recovered amount and mask open the
// coin's commitment.
func (o *Ownership) VerifyCommitment() bool {
	return o.Coin.VerifyCommitment(o.Amount, o.Mask)
}

// Sign authorizes sending the owned coin to dest.
func (o *Ownership) Sign(dest signer.Address) (*signer.Signature, error) {
	return o.Coin.Sign(o.PrivateKey, dest)
}

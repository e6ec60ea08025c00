// signer.go - Spend authorization signatures.
//
// A spend is authorized by an ECDSA signature, made with the coin's one-time
// private key, over a digest binding the coin to its destination. The digest
// is signed as-is; no second hash is applied.

package signer

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/ecdsa"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"

	"stealthcoin/internal/curve"
)

// SignatureSize is the length of r || s || v.
const SignatureSize = 65

// recoveryOffset is added to v in the encoded form, as ecrecover expects.
const recoveryOffset = 27

var (
	// ErrInvalidPrivateKey is returned for keys outside [1, n).
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrSignatureVerification is returned when a fresh signature does not verify.
	ErrSignatureVerification = errors.New("signature verification failed")
	// ErrInvalidSignature is returned for encodings that are not a valid signature.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signature is an ECDSA signature with its recovery id.
type Signature struct {
	R *big.Int
	S *big.Int
	V uint8 // recovery id, 0 to 3
}

// Digest computes keccak256(C.X || C.Y || P.X || P.Y || dest).
func Digest(commitment, oneTime *secp256k1.G1Affine, dest Address) [32]byte {
	c := commitment.RawBytes()
	p := oneTime.RawBytes()
	return curve.Keccak256(c[:], p[:], dest[:])
}

// PublicKey returns priv·G.
func PublicKey(priv *big.Int) (secp256k1.G1Affine, error) {
	var pub secp256k1.G1Affine
	if !inOrder(priv) {
		return pub, ErrInvalidPrivateKey
	}
	pub.ScalarMultiplicationBase(priv)
	return pub, nil
}

// Sign signs digest with priv and checks the result before returning it.
func Sign(priv *big.Int, digest [32]byte) (*Signature, error) {
	key, err := privateKey(priv)
	if err != nil {
		return nil, err
	}

	v, r, s, err := key.SignForRecover(digest[:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	sig := &Signature{R: r, S: s, V: uint8(v)}

	if !Verify(&key.PublicKey.A, digest, sig) {
		return nil, ErrSignatureVerification
	}
	return sig, nil
}

// Verify reports whether sig is a valid signature of digest under pub.
func Verify(pub *secp256k1.G1Affine, digest [32]byte, sig *Signature) bool {
	if sig == nil || !inOrder(sig.R) || !inOrder(sig.S) {
		return false
	}
	key := ecdsa.PublicKey{A: *pub}
	ok, err := key.Verify(sig.rs(), digest[:], nil)
	return err == nil && ok
}

// Recover returns the public key that produced sig over digest.
func Recover(digest [32]byte, sig *Signature) (secp256k1.G1Affine, error) {
	var key ecdsa.PublicKey
	if sig == nil || sig.V > 3 || !inOrder(sig.R) || !inOrder(sig.S) {
		return key.A, ErrInvalidSignature
	}
	if err := key.RecoverFrom(digest[:], uint(sig.V), sig.R, sig.S); err != nil {
		return key.A, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return key.A, nil
}

// Bytes encodes the signature as r || s || v with v offset by 27.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	copy(out, sig.rs())
	out[SignatureSize-1] = sig.V + recoveryOffset
	return out
}

// ParseSignature decodes r || s || v. v may be the raw recovery id or
// carry the 27 offset.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(b))
	}
	v := b[SignatureSize-1]
	if v >= recoveryOffset {
		v -= recoveryOffset
	}
	if v > 3 {
		return nil, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, v)
	}
	sig := &Signature{
		R: new(big.Int).SetBytes(b[:32]),
		S: new(big.Int).SetBytes(b[32:64]),
		V: v,
	}
	if !inOrder(sig.R) || !inOrder(sig.S) {
		return nil, fmt.Errorf("%w: r or s out of range", ErrInvalidSignature)
	}
	return sig, nil
}

func (sig *Signature) rs() []byte {
	out := make([]byte, 64)
	sig.R.FillBytes(out[:32])
	sig.S.FillBytes(out[32:])
	return out
}

func privateKey(priv *big.Int) (*ecdsa.PrivateKey, error) {
	pub, err := PublicKey(priv)
	if err != nil {
		return nil, err
	}
	raw := pub.RawBytes()
	scalar := curve.ScalarBytes(priv)

	buf := make([]byte, 0, len(raw)+len(scalar))
	buf = append(buf, raw[:]...)
	buf = append(buf, scalar[:]...)

	var key ecdsa.PrivateKey
	if _, err := key.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return &key, nil
}

// inOrder reports whether 0 < s < n.
func inOrder(s *big.Int) bool {
	return s != nil && s.Sign() > 0 && s.Cmp(fr.Modulus()) < 0
}

package main

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/rs/zerolog"

	"stealthcoin/internal/coin"
	"stealthcoin/internal/commitment"
	"stealthcoin/internal/curve"
	"stealthcoin/internal/signer"
	"stealthcoin/internal/stealth"
)

// =============================================================================
// 1. BUILDING BLOCK TESTS
// =============================================================================

func TestSharedSecretAgreement(t *testing.T) {
	params := curve.DefaultParams()
	keys, err := stealth.GenerateKeys(params, rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	r, err := stealth.RandomScalar(params, rand.Reader)
	if err != nil {
		t.Fatalf("random scalar failed: %v", err)
	}

	// Sender uses r·V, receiver uses v·R
	R := params.ScalarBaseMult(r)
	sender := stealth.SharedSecret(params, r, &keys.ViewPub)
	receiver := stealth.SharedSecret(params, keys.View, &R)

	if sender.Cmp(receiver) != 0 {
		t.Error("sender and receiver derived different shared secrets")
	}
}

func TestOneTimeKeyMatchesAddress(t *testing.T) {
	params := curve.DefaultParams()
	keys, _ := stealth.GenerateKeys(params, rand.Reader)
	proof, err := coin.Generate(params, rand.Reader, keys.PublicAddress(), big.NewInt(1), 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	full, err := coin.FromProof(params, proof)
	if err != nil {
		t.Fatalf("FromProof failed: %v", err)
	}

	o, ok := full.CheckOwnership(keys)
	if !ok {
		t.Fatal("owner not recognized")
	}
	// x = q + s must be the discrete log of P
	P := full.OneTimeAddress()
	xG := params.ScalarBaseMult(o.PrivateKey)
	if !curve.Equal(&xG, &P) {
		t.Error("one-time private key does not match one-time address")
	}
}

// =============================================================================
// 2. PROTOCOL TESTS
// =============================================================================

func TestFullProtocolFlow(t *testing.T) {
	if err := run(zerolog.New(io.Discard)); err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
}

func TestRecordBoundary(t *testing.T) {
	params := curve.DefaultParams()
	keys, _ := stealth.GenerateKeys(params, rand.Reader)
	proof, err := coin.Generate(params, rand.Reader, keys.PublicAddress(), big.NewInt(199900000), 12)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	compact, err := proof.Compact()
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	// Contract call results arrive keyed by position
	data, _ := json.Marshal(compact.Record())
	var record coin.Record
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("record decode failed: %v", err)
	}

	fromChain, err := coin.DecodeRecord(params, record)
	if err != nil {
		t.Fatalf("DecodeRecord failed: %v", err)
	}
	fromProof, err := coin.FromProof(params, proof)
	if err != nil {
		t.Fatalf("FromProof failed: %v", err)
	}
	if !fromChain.Equal(fromProof) {
		t.Error("chain and proof paths decoded different coins")
	}
	if fromChain.Index() != 12 {
		t.Errorf("expected index 12, got %d", fromChain.Index())
	}
}

func TestPrivacyProperties(t *testing.T) {
	t.Run("Unlinkable One-Time Addresses", func(t *testing.T) {
		params := curve.DefaultParams()
		keys, _ := stealth.GenerateKeys(params, rand.Reader)

		a, _ := coin.Generate(params, rand.Reader, keys.PublicAddress(), big.NewInt(5), 0)
		b, _ := coin.Generate(params, rand.Reader, keys.PublicAddress(), big.NewInt(5), 1)

		if a.OneTimeAddress == b.OneTimeAddress {
			t.Error("two coins to the same wallet share a one-time address")
		}
		if a.Commitment == b.Commitment {
			t.Error("equal amounts produced equal commitments")
		}
		if a.EncryptedAmount == b.EncryptedAmount {
			t.Error("equal amounts produced equal ciphertexts")
		}
	})
}

func TestSecurityProperties(t *testing.T) {
	params := curve.DefaultParams()
	owner, _ := stealth.GenerateKeys(params, rand.Reader)
	proof, _ := coin.Generate(params, rand.Reader, owner.PublicAddress(), big.NewInt(1000), 0)
	full, err := coin.FromProof(params, proof)
	if err != nil {
		t.Fatalf("FromProof failed: %v", err)
	}

	t.Run("Random Keys Rejected", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			keys, _ := stealth.GenerateKeys(params, rand.Reader)
			if _, ok := full.CheckOwnership(keys); ok {
				t.Fatalf("random wallet %d claimed the coin", i)
			}
		}
	})

	t.Run("Commitment Binding", func(t *testing.T) {
		o, ok, err := full.Claim(owner)
		if err != nil || !ok {
			t.Fatalf("owner claim failed: ok=%v err=%v", ok, err)
		}
		C := full.Commitment()
		more := new(big.Int).Add(o.Amount, big.NewInt(1))
		if commitment.VerifyPoint(params, more, o.Mask, &C) {
			t.Error("commitment opened to amount+1")
		}
	})

	t.Run("Tampered Ciphertext Surfaces As Mismatch", func(t *testing.T) {
		bad := *proof
		bad.EncryptedMask[0] ^= 0x80
		tampered, err := coin.FromProof(params, &bad)
		if err != nil {
			t.Fatalf("FromProof failed: %v", err)
		}
		_, ok, err := tampered.Claim(owner)
		if !ok || !errors.Is(err, coin.ErrCommitmentMismatch) {
			t.Errorf("expected owned coin with commitment mismatch, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Signature Bound To Destination", func(t *testing.T) {
		o, _, _ := full.Claim(owner)
		a, _ := signer.ParseAddress("0x1111111111111111111111111111111111111111")
		b, _ := signer.ParseAddress("0x2222222222222222222222222222222222222222")

		sig, err := o.Sign(a)
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if !full.VerifySignature(a, sig) {
			t.Error("signature rejected for its own destination")
		}
		if full.VerifySignature(b, sig) {
			t.Error("signature accepted for another destination")
		}
	})
}

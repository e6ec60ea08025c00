// ownership.go - Stealth ownership test and one-time key recovery.
//
// For a coin with ephemeral key R and one-time address P, a wallet (s, v)
// computes q = Hs(v·R) and owns the coin iff P == q·G + S. The sender
// reaches the same q through r·V since v·R = v·r·G = r·V.

package stealth

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"

	"stealthcoin/internal/curve"
)

// Opening is what an owner learns from a coin.
type Opening struct {
	SharedSecret *big.Int           // q
	OneTimeKey   *big.Int           // x = q + s mod n
	OneTimePub   secp256k1.G1Affine // x·G, equal to P
	Amount       *big.Int
	Mask         *big.Int
}

// SharedSecret computes q = Hs(secret·point).
func SharedSecret(params *curve.Params, secret *big.Int, point *secp256k1.G1Affine) *big.Int {
	shared := params.ScalarMult(point, secret)
	return params.HashPoint(&shared)
}

// OneTimeAddress computes P = q·G + S.
func OneTimeAddress(params *curve.Params, q *big.Int, spendPub *secp256k1.G1Affine) secp256k1.G1Affine {
	qG := params.ScalarBaseMult(q)
	return params.Add(&qG, spendPub)
}

// Open checks whether keys own the coin (R, P) and, if so, derives the
// one-time private key and decrypts amount and mask. A false result is
// the ordinary outcome for a coin paid to someone else.
func Open(params *curve.Params, keys *Keys, ephemeral, oneTime *secp256k1.G1Affine, encAmount, encMask Ciphertext) (*Opening, bool) {
	q := SharedSecret(params, keys.View, ephemeral)

	expected := OneTimeAddress(params, q, &keys.SpendPub)
	if !curve.Equal(&expected, oneTime) {
		return nil, false
	}

	x := params.ReduceScalar(new(big.Int).Add(q, keys.Spend))
	if x.Sign() == 0 {
		return nil, false
	}

	amount, mask := Unseal(q, encAmount, encMask)
	return &Opening{
		SharedSecret: q,
		OneTimeKey:   x,
		OneTimePub:   params.ScalarBaseMult(x),
		Amount:       amount,
		Mask:         mask,
	}, true
}

package stealth

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stealthcoin/internal/curve"
)

// pay builds (R, P, encAmount, encMask) for addr the way a sender does.
func pay(t *testing.T, params *curve.Params, addr PublicAddress, amount, mask *big.Int) (secp256k1.G1Affine, secp256k1.G1Affine, Ciphertext, Ciphertext) {
	t.Helper()
	r, err := RandomScalar(params, rand.Reader)
	require.NoError(t, err)

	R := params.ScalarBaseMult(r)
	q := SharedSecret(params, r, &addr.View)
	P := OneTimeAddress(params, q, &addr.Spend)

	encA, encM, err := Seal(q, amount, mask)
	require.NoError(t, err)
	return R, P, encA, encM
}

func TestDeriveKeys(t *testing.T) {
	params := curve.DefaultParams()

	t.Run("deterministic", func(t *testing.T) {
		a, err := DeriveKeys(params, big.NewInt(123456789))
		require.NoError(t, err)
		b, err := DeriveKeys(params, big.NewInt(123456789))
		require.NoError(t, err)

		assert.Equal(t, 0, a.View.Cmp(b.View))
		assert.NotEqual(t, 0, a.View.Cmp(a.Spend))
		assert.True(t, curve.Equal(&a.ViewPub, &b.ViewPub))
	})

	t.Run("rejects zero and out of range", func(t *testing.T) {
		_, err := DeriveKeys(params, big.NewInt(0))
		require.ErrorIs(t, err, ErrInvalidKey)
		_, err = DeriveKeys(params, params.Order())
		require.ErrorIs(t, err, ErrInvalidKey)
		_, err = NewKeys(params, big.NewInt(1), big.NewInt(-3))
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestPublicAddressEncoding(t *testing.T) {
	params := curve.DefaultParams()
	keys, err := GenerateKeys(params, rand.Reader)
	require.NoError(t, err)

	addr := keys.PublicAddress()
	parsed, err := ParsePublicAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, curve.Equal(&addr.Spend, &parsed.Spend))
	assert.True(t, curve.Equal(&addr.View, &parsed.View))

	_, err = ParsePublicAddress("0x1234")
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	params := curve.DefaultParams()
	owner, err := GenerateKeys(params, rand.Reader)
	require.NoError(t, err)
	stranger, err := GenerateKeys(params, rand.Reader)
	require.NoError(t, err)

	amount := big.NewInt(199900000)
	mask, err := RandomScalar(params, rand.Reader)
	require.NoError(t, err)

	R, P, encA, encM := pay(t, params, owner.PublicAddress(), amount, mask)

	t.Run("owner recovers amount and mask", func(t *testing.T) {
		opening, ok := Open(params, owner, &R, &P, encA, encM)
		require.True(t, ok)
		assert.Equal(t, 0, opening.Amount.Cmp(amount))
		assert.Equal(t, 0, opening.Mask.Cmp(mask))
		assert.True(t, curve.Equal(&opening.OneTimePub, &P), "x·G must equal P")
	})

	t.Run("stranger is not the owner", func(t *testing.T) {
		opening, ok := Open(params, stranger, &R, &P, encA, encM)
		assert.False(t, ok)
		assert.Nil(t, opening)
	})

	t.Run("right view key with wrong spend key", func(t *testing.T) {
		mixed, err := NewKeys(params, stranger.Spend, owner.View)
		require.NoError(t, err)
		_, ok := Open(params, mixed, &R, &P, encA, encM)
		assert.False(t, ok)
	})

	t.Run("tampered ciphertext is not detected here", func(t *testing.T) {
		bad := encA
		bad[31] ^= 0x01
		opening, ok := Open(params, owner, &R, &P, bad, encM)
		require.True(t, ok)
		assert.Equal(t, 0, opening.Amount.Cmp(new(big.Int).Xor(amount, big.NewInt(1))))
	})
}

func TestSealUnseal(t *testing.T) {
	q := big.NewInt(42)
	amount := big.NewInt(1000)
	mask := new(big.Int).Lsh(big.NewInt(1), 255)

	encA, encM, err := Seal(q, amount, mask)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(encA[:], encM[:]))

	gotA, gotM := Unseal(q, encA, encM)
	assert.Equal(t, 0, gotA.Cmp(amount))
	assert.Equal(t, 0, gotM.Cmp(mask))

	// kA = keccak256(q), so encrypting zero exposes the key itself
	zeroA, _, err := Seal(q, big.NewInt(0), big.NewInt(0))
	require.NoError(t, err)
	qb := curve.ScalarBytes(q)
	kA := curve.Keccak256(qb[:])
	assert.Equal(t, kA[:], zeroA[:])

	_, _, err = Seal(q, new(big.Int).Lsh(big.NewInt(1), 256), mask)
	require.Error(t, err)
}

func TestParseCiphertext(t *testing.T) {
	t.Run("full width", func(t *testing.T) {
		s := "0x00000000000000000000000000000000000000000000000000000000000000ff"
		c, err := ParseCiphertext(s)
		require.NoError(t, err)
		assert.Equal(t, byte(0xff), c[31])
		assert.Equal(t, s, c.String())
	})

	t.Run("leading zeros omitted", func(t *testing.T) {
		c, err := ParseCiphertext("0xabc")
		require.NoError(t, err)
		assert.Equal(t, byte(0x0a), c[30])
		assert.Equal(t, byte(0xbc), c[31])
	})

	t.Run("too long", func(t *testing.T) {
		_, err := ParseCiphertext("0x" + string(bytes.Repeat([]byte("1"), 65)))
		require.ErrorIs(t, err, ErrMalformedCiphertext)
	})

	t.Run("not hex", func(t *testing.T) {
		_, err := ParseCiphertext("0xzz")
		require.ErrorIs(t, err, ErrMalformedCiphertext)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseCiphertext("0x")
		require.ErrorIs(t, err, ErrMalformedCiphertext)
	})
}

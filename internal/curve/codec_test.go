package curve

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoint(t *testing.T, params *Params) secp256k1.G1Affine {
	t.Helper()
	s, err := rand.Int(rand.Reader, params.Order())
	require.NoError(t, err)
	return params.ScalarBaseMult(s)
}

func TestCompressRoundTrip(t *testing.T) {
	params := DefaultParams()

	for i := 0; i < 16; i++ {
		p := randomPoint(t, params)
		x, odd := Compress(&p)

		got, err := Decompress(x, odd)
		require.NoError(t, err)
		assert.True(t, Equal(&p, &got), "round trip %d changed the point", i)
	}
}

func TestDecompressParity(t *testing.T) {
	params := DefaultParams()
	p := randomPoint(t, params)
	x, odd := Compress(&p)

	flipped, err := Decompress(x, !odd)
	require.NoError(t, err)

	var neg secp256k1.G1Affine
	neg.Neg(&p)
	assert.True(t, Equal(&neg, &flipped))
	assert.False(t, Equal(&p, &flipped))
}

func TestDecompressGenerator(t *testing.T) {
	params := DefaultParams()
	gx, ok := new(big.Int).SetString("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798", 16)
	require.True(t, ok)

	g, err := Decompress(gx, false)
	require.NoError(t, err)
	assert.True(t, Equal(&params.G, &g))
}

func TestDecompressInvalid(t *testing.T) {
	t.Run("no square root", func(t *testing.T) {
		// 5^3 + 7 = 132 is not a quadratic residue mod p
		_, err := Decompress(big.NewInt(5), false)
		require.ErrorIs(t, err, ErrInvalidPoint)
	})

	t.Run("x not below field modulus", func(t *testing.T) {
		params := DefaultParams()
		_, err := Decompress(params.FieldModulus(), false)
		require.ErrorIs(t, err, ErrInvalidPoint)
	})

	t.Run("negative x", func(t *testing.T) {
		_, err := Decompress(big.NewInt(-1), true)
		require.ErrorIs(t, err, ErrInvalidPoint)
	})

	t.Run("nil x", func(t *testing.T) {
		_, err := Decompress(nil, true)
		require.ErrorIs(t, err, ErrInvalidPoint)
	})
}

func TestUncompressedRoundTrip(t *testing.T) {
	params := DefaultParams()
	p := randomPoint(t, params)

	enc := ToUncompressed(&p)
	assert.Equal(t, byte(0x04), enc[0])

	got, err := FromUncompressed(enc[:])
	require.NoError(t, err)
	assert.True(t, Equal(&p, &got))
}

func TestFromUncompressedRejects(t *testing.T) {
	params := DefaultParams()
	p := randomPoint(t, params)
	good := ToUncompressed(&p)

	t.Run("short buffer", func(t *testing.T) {
		_, err := FromUncompressed(good[:64])
		require.ErrorIs(t, err, ErrInvalidPoint)
	})

	t.Run("compressed prefix", func(t *testing.T) {
		bad := good
		bad[0] = 0x02
		_, err := FromUncompressed(bad[:])
		require.ErrorIs(t, err, ErrInvalidPoint)
	})

	t.Run("off curve", func(t *testing.T) {
		bad := good
		bad[UncompressedSize-1] ^= 0x01
		_, err := FromUncompressed(bad[:])
		require.ErrorIs(t, err, ErrInvalidPoint)
	})

	t.Run("infinity", func(t *testing.T) {
		var zero [UncompressedSize]byte
		zero[0] = 0x04
		_, err := FromUncompressed(zero[:])
		require.ErrorIs(t, err, ErrInvalidPoint)
	})
}

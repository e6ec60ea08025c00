package commitment

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stealthcoin/internal/curve"
)

func TestCommitVerify(t *testing.T) {
	params := curve.DefaultParams()
	one := big.NewInt(1)

	for i := 0; i < 8; i++ {
		amount, err := rand.Int(rand.Reader, big.NewInt(1<<40))
		require.NoError(t, err)
		mask, err := rand.Int(rand.Reader, params.Order())
		require.NoError(t, err)

		c, err := Commit(params, amount, mask)
		require.NoError(t, err)
		x, odd := curve.Compress(&c)

		assert.True(t, Verify(params, amount, mask, x, odd))
		assert.True(t, VerifyPoint(params, amount, mask, &c))

		assert.False(t, Verify(params, new(big.Int).Add(amount, one), mask, x, odd), "amount+1 must not verify")
		assert.False(t, Verify(params, amount, new(big.Int).Add(mask, one), x, odd), "mask+1 must not verify")
		assert.False(t, Verify(params, amount, mask, x, !odd), "negated commitment must not verify")
	}
}

func TestCommitRange(t *testing.T) {
	params := curve.DefaultParams()
	n := params.Order()

	t.Run("amount equal to order", func(t *testing.T) {
		_, err := Commit(params, n, big.NewInt(1))
		require.ErrorIs(t, err, ErrScalarRange)
	})

	t.Run("negative mask", func(t *testing.T) {
		_, err := Commit(params, big.NewInt(1), big.NewInt(-1))
		require.ErrorIs(t, err, ErrScalarRange)
	})

	t.Run("verify treats out of range as false", func(t *testing.T) {
		c, err := Commit(params, big.NewInt(5), big.NewInt(9))
		require.NoError(t, err)
		x, odd := curve.Compress(&c)
		// 5+n·G is the same point but not a canonical opening
		assert.False(t, Verify(params, new(big.Int).Add(big.NewInt(5), n), big.NewInt(9), x, odd))
	})
}

func TestVerifyInvalidCommitment(t *testing.T) {
	params := curve.DefaultParams()
	assert.False(t, Verify(params, big.NewInt(1), big.NewInt(1), big.NewInt(5), false))
}

func TestCommitZero(t *testing.T) {
	params := curve.DefaultParams()
	c, err := Commit(params, big.NewInt(0), big.NewInt(0))
	require.NoError(t, err)
	assert.True(t, c.IsInfinity())
}

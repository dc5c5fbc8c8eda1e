package field

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	assert := require.New(t)

	_, err := New(big.NewInt(97))
	assert.NoError(err)

	_, err = New(big.NewInt(96))
	assert.ErrorIs(err, ErrNotPrime)

	_, err = New(nil)
	assert.ErrorIs(err, ErrNotPrime)
}

func TestInverse(t *testing.T) {
	assert := require.New(t)
	f, err := New(big.NewInt(97))
	assert.NoError(err)

	inv, err := f.Inverse(big.NewInt(3))
	assert.NoError(err)
	assert.True(f.IsOne(f.Mul(inv, big.NewInt(3))))

	_, err = f.Inverse(big.NewInt(0))
	assert.ErrorIs(err, ErrDivisionByZero)

	// 97 == 0 mod 97
	_, err = f.Inverse(big.NewInt(97))
	assert.ErrorIs(err, ErrDivisionByZero)
}

func TestReduce(t *testing.T) {
	assert := require.New(t)
	f, err := New(big.NewInt(97))
	assert.NoError(err)

	assert.Equal(int64(96), f.Reduce(big.NewInt(-1)).Int64())
	assert.True(f.IsInField(big.NewInt(96)))
	assert.False(f.IsInField(big.NewInt(97)))
	assert.False(f.IsInField(big.NewInt(-1)))
}

func TestInverseProperty(t *testing.T) {
	f := BN254()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("x * x^-1 == 1 for all nonzero x", prop.ForAll(
		func(x int64) bool {
			v := f.Reduce(big.NewInt(x))
			if v.Sign() == 0 {
				return true
			}
			inv, err := f.Inverse(v)
			if err != nil {
				return false
			}
			return f.IsOne(f.Mul(v, inv))
		},
		gen.Int64(),
	))
	properties.TestingRun(t)
}

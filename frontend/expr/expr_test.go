package expr

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/templar-zk/templar/field"
)

func testField(t *testing.T) field.Field {
	t.Helper()
	f, err := field.New(big.NewInt(97))
	require.NoError(t, err)
	return f
}

func TestDegree(t *testing.T) {
	assert := require.New(t)
	f := testField(t)

	c := NewConstant(f, big.NewInt(5))
	assert.Equal(0, c.Degree())

	x := NewSignal(1)
	y := NewSignal(2)
	assert.Equal(1, x.Degree())

	lin := Add(f, x, MulConst(f, y, big.NewInt(3)))
	assert.Equal(1, lin.Degree())

	xy, err := Mul(f, x, y)
	assert.NoError(err)
	assert.Equal(2, xy.Degree())

	// degree 2 * degree 1 is rejected
	_, err = Mul(f, xy, x)
	assert.ErrorIs(err, ErrDegree)

	// degree 2 * degree 2 is rejected
	_, err = Mul(f, xy, xy)
	assert.ErrorIs(err, ErrDegree)

	// degree 2 * constant is fine
	scaled, err := Mul(f, xy, NewConstant(f, big.NewInt(2)))
	assert.NoError(err)
	assert.Equal(2, scaled.Degree())
}

func TestSumNeverFails(t *testing.T) {
	assert := require.New(t)
	f := testField(t)

	x := NewSignal(1)
	y := NewSignal(2)
	xy, err := Mul(f, x, y)
	assert.NoError(err)

	// sum of two products is representable as an expression; only emission
	// into a single row rejects it
	s := Add(f, xy, xy)
	assert.Equal(2, s.Degree())
	assert.Len(s.Quad, 2)
}

func TestConstantFolding(t *testing.T) {
	assert := require.New(t)
	f := testField(t)

	x := NewSignal(1)

	// x - x == 0
	z := Sub(f, x, x)
	c, ok := z.Constant()
	assert.True(ok)
	assert.Equal(int64(0), c.Int64())

	// 3 + 4 == 7
	s := Add(f, NewConstant(f, big.NewInt(3)), NewConstant(f, big.NewInt(4)))
	c, ok = s.Constant()
	assert.True(ok)
	assert.Equal(int64(7), c.Int64())

	// 96 + 1 wraps to 0 mod 97
	s = Add(f, NewConstant(f, big.NewInt(96)), NewConstant(f, big.NewInt(1)))
	c, ok = s.Constant()
	assert.True(ok)
	assert.Equal(int64(0), c.Int64())
}

func TestDiv(t *testing.T) {
	assert := require.New(t)
	f := testField(t)

	x := NewSignal(1)

	// x / 2 has coefficient inverse(2)
	half, err := Div(f, x, NewConstant(f, big.NewInt(2)))
	assert.NoError(err)
	assert.Len(half.Lin, 1)
	two := f.Mul(half.Lin[0].Coeff, big.NewInt(2))
	assert.True(f.IsOne(two))

	// division by a signal has no translation
	_, err = Div(f, x, NewSignal(2))
	assert.ErrorIs(err, ErrDivision)

	// division by the constant zero is a compile error
	_, err = Div(f, x, NewConstant(f, big.NewInt(0)))
	assert.ErrorIs(err, ErrDivisionByZero)
}

func TestSignals(t *testing.T) {
	assert := require.New(t)
	f := testField(t)

	x := NewSignal(3)
	y := NewSignal(1)
	xy, err := Mul(f, x, y)
	assert.NoError(err)
	e := Add(f, xy, NewConstant(f, big.NewInt(9)))
	assert.Equal([]int{1, 3}, e.Signals())
}

package frontend_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/templar-zk/templar/field"
	"github.com/templar-zk/templar/frontend"
	"github.com/templar-zk/templar/frontend/expr"
)

// isEqualTemplate exposes the equality indicator: out == 1 iff x == y.
var isEqualTemplate = frontend.Template{
	Name: "IsEqual",
	Body: func(api *frontend.API) error {
		x := api.Input("x")
		y := api.Input("y")
		out := api.Output("out")
		api.Assign(out, api.IsEqual(x, y))
		return nil
	},
}

func TestEqualityIndicator(t *testing.T) {
	assert := require.New(t)

	cs, err := frontend.Compile(q, isEqualTemplate, nil)
	assert.NoError(err)
	outWire, ok := cs.WireBySymbol("main.out")
	assert.True(ok)

	qMinusOne := new(big.Int).Sub(q, big.NewInt(1))

	cases := []struct {
		x, y any
		want int64
	}{
		{5, 5, 1},
		{5, 6, 0},
		{0, 0, 1},
		// adjacent under the modulus: q-1 != 0
		{qMinusOne, 0, 0},
		{0, qMinusOne, 0},
		{qMinusOne, qMinusOne, 1},
	}
	for _, tc := range cases {
		w, err := cs.Solve(map[string]any{"x": tc.x, "y": tc.y})
		assert.NoError(err)
		assert.Equal(tc.want, w[outWire].Int64(), "x=%v y=%v", tc.x, tc.y)
	}
}

var inverseTemplate = frontend.Template{
	Name: "MulInv",
	Body: func(api *frontend.API) error {
		in := api.Input("in")
		out := api.Output("out")
		api.Assign(out, api.Inverse(in))
		return nil
	},
}

func TestInverse(t *testing.T) {
	assert := require.New(t)

	cs, err := frontend.Compile(q, inverseTemplate, nil)
	assert.NoError(err)
	outWire, ok := cs.WireBySymbol("main.out")
	assert.True(ok)

	w, err := cs.Solve(map[string]any{"in": 5})
	assert.NoError(err)
	prod := new(big.Int).Mul(w[outWire], big.NewInt(5))
	assert.Equal(int64(1), prod.Mod(prod, q).Int64())

	// inverting zero must fail the solve, not return a filler value
	_, err = cs.Solve(map[string]any{"in": 0})
	assert.ErrorIs(err, field.ErrDivisionByZero)
}

func TestDegreeErrors(t *testing.T) {
	assert := require.New(t)

	cubic := frontend.Template{
		Name: "Cubic",
		Body: func(api *frontend.API) error {
			x := api.Input("x")
			out := api.Output("out")
			api.Assign(out, api.Mul(api.Mul(x, x), x))
			return nil
		},
	}
	_, err := frontend.Compile(q, cubic, nil)
	assert.ErrorIs(err, expr.ErrDegree)

	// sum of two products fits no single row
	twoProducts := frontend.Template{
		Name: "TwoProducts",
		Body: func(api *frontend.API) error {
			x := api.Input("x")
			y := api.Input("y")
			out := api.Output("out")
			api.Assign(out, api.Add(api.Mul(x, y), api.Mul(y, y)))
			return nil
		},
	}
	_, err = frontend.Compile(q, twoProducts, nil)
	assert.ErrorIs(err, expr.ErrDegree)
}

func TestDivisionErrors(t *testing.T) {
	assert := require.New(t)

	bySignal := frontend.Template{
		Name: "DivBySignal",
		Body: func(api *frontend.API) error {
			x := api.Input("x")
			y := api.Input("y")
			out := api.Output("out")
			api.Assign(out, api.Div(x, y))
			return nil
		},
	}
	_, err := frontend.Compile(q, bySignal, nil)
	assert.ErrorIs(err, expr.ErrDivision)

	byZero := frontend.Template{
		Name: "DivByZero",
		Body: func(api *frontend.API) error {
			x := api.Input("x")
			out := api.Output("out")
			api.Assign(out, api.Div(x, 0))
			return nil
		},
	}
	_, err = frontend.Compile(q, byZero, nil)
	assert.ErrorIs(err, expr.ErrDivisionByZero)
}

func TestUnsatisfiableConstant(t *testing.T) {
	assert := require.New(t)

	tmpl := frontend.Template{
		Name: "OneIsTwo",
		Body: func(api *frontend.API) error {
			api.Input("in")
			api.AssertEqual(1, 2)
			return nil
		},
	}
	_, err := frontend.Compile(q, tmpl, nil)
	assert.Error(err)
	assert.Contains(err.Error(), "never be satisfied")
}

func TestConstrainOnlyHasNoRule(t *testing.T) {
	assert := require.New(t)

	// out is computed by a hint; the constraint out*in == 1 only checks it
	tmpl := frontend.Template{
		Name: "HintThenConstrain",
		Body: func(api *frontend.API) error {
			in := api.Input("in")
			out := api.Output("out")
			api.Hint(out, frontend.InvHint, in)
			api.AssertEqual(api.Mul(out, in), 1)
			return nil
		},
	}
	cs, err := frontend.Compile(q, tmpl, nil)
	assert.NoError(err)

	outWire, ok := cs.WireBySymbol("main.out")
	assert.True(ok)

	w, err := cs.Solve(map[string]any{"in": 4})
	assert.NoError(err)
	prod := new(big.Int).Mul(w[outWire], big.NewInt(4))
	assert.Equal(int64(1), prod.Mod(prod, q).Int64())
}

func TestSignalRedeclared(t *testing.T) {
	assert := require.New(t)

	tmpl := frontend.Template{
		Name: "Redeclared",
		Body: func(api *frontend.API) error {
			api.Input("x")
			api.Intermediate("x")
			return nil
		},
	}
	_, err := frontend.Compile(q, tmpl, nil)
	assert.Error(err)
	assert.Contains(err.Error(), "redeclared")
}

package constraint_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/templar-zk/templar/constraint"
	"github.com/templar-zk/templar/frontend"
)

var mulTemplate = frontend.Template{
	Name: "Mul",
	Body: func(api *frontend.API) error {
		a := api.Input("a")
		b := api.Input("b")
		out := api.Output("out")
		api.Assign(out, api.Mul(a, b))
		return nil
	},
}

func TestSerializationRoundTrip(t *testing.T) {
	assert := require.New(t)

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), mulTemplate, nil)
	assert.NoError(err)

	var buf bytes.Buffer
	written, err := cs.WriteTo(&buf)
	assert.NoError(err)
	assert.Equal(int64(buf.Len()), written)

	var got constraint.System
	read, err := got.ReadFrom(&buf)
	assert.NoError(err)
	assert.Equal(written, read)

	bigIntCmp := cmp.Comparer(func(x, y *big.Int) bool { return x.Cmp(y) == 0 })
	assert.Empty(cmp.Diff(cs.Q, got.Q, bigIntCmp))
	assert.Empty(cmp.Diff(cs.Coefficients, got.Coefficients, bigIntCmp))
	assert.Empty(cmp.Diff(cs.Wires, got.Wires))
	assert.Empty(cmp.Diff(cs.Inputs, got.Inputs))
	assert.Empty(cmp.Diff(cs.Constraints, got.Constraints))
	assert.Empty(cmp.Diff(cs.Rules, got.Rules))

	// the read-back system must solve: the rebuilt indices are exercised here
	w, err := got.Solve(map[string]any{"a": 6, "b": 7})
	assert.NoError(err)
	outWire, ok := got.WireBySymbol("main.out")
	assert.True(ok)
	assert.Equal(int64(42), w[outWire].Int64())
}

func TestIncompatibleVersionRejected(t *testing.T) {
	assert := require.New(t)

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), mulTemplate, nil)
	assert.NoError(err)

	var buf bytes.Buffer
	_, err = cs.WriteTo(&buf)
	assert.NoError(err)

	// forge the embedded version to a different major release
	raw := buf.Bytes()
	idx := bytes.Index(raw, []byte("0.1.0"))
	assert.GreaterOrEqual(idx, 0)
	copy(raw[idx:], []byte("9.0.0"))

	var got constraint.System
	_, err = got.ReadFrom(bytes.NewReader(raw))
	assert.ErrorIs(err, constraint.ErrIncompatibleVersion)
}

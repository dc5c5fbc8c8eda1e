package solver

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func idHint(_ *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	outputs[0].Set(inputs[0])
	return nil
}

func negHint(_ *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	outputs[0].Neg(inputs[0])
	return nil
}

func TestHintIDs(t *testing.T) {
	assert := require.New(t)

	// ids derive from the qualified function name: stable and distinct
	assert.Equal(GetHintID(idHint), GetHintID(idHint))
	assert.NotEqual(GetHintID(idHint), GetHintID(negHint))
	assert.Contains(GetHintName(idHint), "idHint")
}

func TestRegistry(t *testing.T) {
	assert := require.New(t)

	RegisterHint(idHint)
	RegisterHint(idHint) // duplicate registration is a no-op
	assert.NotNil(GetRegisteredHint(GetHintID(idHint)))

	cfg, err := NewConfig()
	assert.NoError(err)
	assert.Contains(cfg.HintFunctions, GetHintID(idHint))

	// options add on top of the registry without mutating it
	cfg, err = NewConfig(WithHints(negHint))
	assert.NoError(err)
	assert.Contains(cfg.HintFunctions, GetHintID(negHint))
	assert.Nil(GetRegisteredHint(GetHintID(negHint)))
}

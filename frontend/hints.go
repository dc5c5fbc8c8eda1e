package frontend

import (
	"math/big"

	"github.com/templar-zk/templar/constraint/solver"
	"github.com/templar-zk/templar/field"
)

func init() {
	solver.RegisterHint(InvHint, InvZeroHint)
}

// InvHint computes a^-1 mod q for the single input a. A zero input fails
// the solve with field.ErrDivisionByZero; callers that need a total
// function use InvZeroHint.
func InvHint(q *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	v := new(big.Int).Mod(inputs[0], q)
	if v.Sign() == 0 {
		return field.ErrDivisionByZero
	}
	outputs[0].ModInverse(v, q)
	return nil
}

// InvZeroHint computes a^-1 mod q, or 0 when a == 0. The zero case is the
// conventional filler for equality-indicator constructions, where the
// inverse value is irrelevant whenever the difference is zero.
func InvZeroHint(q *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	v := new(big.Int).Mod(inputs[0], q)
	if v.Sign() == 0 {
		outputs[0].SetUint64(0)
		return nil
	}
	outputs[0].ModInverse(v, q)
	return nil
}

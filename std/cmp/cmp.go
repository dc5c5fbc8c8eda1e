// Package cmp provides bit decomposition and bounded comparisons.
//
// Signals have no native ordering; comparisons are built by decomposing
// values into a fixed number of boolean-constrained bits. All bounds are
// compile-time values.
package cmp

import (
	"fmt"
	"math/big"

	"github.com/templar-zk/templar/constraint/solver"
	"github.com/templar-zk/templar/frontend"
)

func init() {
	solver.RegisterHint(BitsHint)
}

// GetHints returns the hint functions used by this package.
func GetHints() []solver.Hint {
	return []solver.Hint{BitsHint}
}

// BitsHint outputs the little-endian bits of the single input. The number
// of bits is the number of output wires declared in the circuit.
func BitsHint(_ *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	v := inputs[0]
	for i := range outputs {
		outputs[i].SetUint64(uint64(v.Bit(i)))
	}
	return nil
}

// ToBinary decomposes v into nbBits little-endian bits. Each bit is
// constrained boolean and the weighted sum is constrained back to v, so
// the decomposition also proves v < 2^nbBits.
func ToBinary(api *frontend.API, v frontend.Variable, nbBits int) []frontend.Variable {
	if nbBits < 0 {
		panic(fmt.Sprintf("negative bit count %d", nbBits))
	}
	if nbBits+1 >= api.FieldBitLen() {
		panic(fmt.Sprintf("%d bits do not fit the field", nbBits))
	}
	bits := make([]frontend.Variable, nbBits)
	for i := range bits {
		bits[i] = api.Aux("bit")
	}
	if nbBits > 0 {
		api.HintMany(bits, BitsHint, v)
	}
	for _, b := range bits {
		api.AssertEqual(api.Mul(b, api.Sub(b, 1)), 0)
	}
	api.AssertEqual(FromBinary(api, bits), v)
	return bits
}

// FromBinary returns the weighted sum of little-endian bits.
func FromBinary(api *frontend.API, bits []frontend.Variable) frontend.Variable {
	acc := frontend.Variable(0)
	coeff := big.NewInt(1)
	for _, b := range bits {
		acc = api.Add(acc, api.Mul(b, new(big.Int).Set(coeff)))
		coeff.Lsh(coeff, 1)
	}
	return acc
}

// AssertLess constrains v < bound for a compile-time bound >= 1. Both v
// and bound-1-v are decomposed into len(bound-1) bits; over a field large
// enough for twice that width, this pins v to [0, bound) exactly.
func AssertLess(api *frontend.API, v frontend.Variable, bound uint64) {
	if bound == 0 {
		panic("bound must be at least 1")
	}
	nbBits := new(big.Int).SetUint64(bound - 1).BitLen()
	ToBinary(api, v, nbBits)
	ToBinary(api, api.Sub(int64(bound-1), v), nbBits)
}

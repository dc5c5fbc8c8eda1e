// Package solver defines hint functions and the options threaded through
// witness solving.
//
// A hint computes wire values outside of the constraint system, on
// big.Int values instead of signals. The result of a hint is unconstrained
// by default: it is the circuit author's responsibility to bind it with
// explicit constraints, otherwise the witness is free at those wires.
package solver

import (
	"hash/fnv"
	"math/big"
	"reflect"
	"runtime"
)

// HintID is a unique identifier for a hint function used for lookup.
type HintID uint32

// Hint computes values for output wires from input wire values, outside of
// the constraint system. The field modulus is passed so one function can
// serve any field. Inputs are evaluated, reduced values; outputs are
// already-allocated big.Ints to be set with big.Int.Set and friends.
// Returning an error aborts the solve.
type Hint func(field *big.Int, inputs []*big.Int, outputs []*big.Int) error

// GetHintID derives the hint id from the function's fully qualified name.
func GetHintID(fn Hint) HintID {
	hf := fnv.New32a()
	hf.Write([]byte(GetHintName(fn))) // #nosec G104 -- does not err
	return HintID(hf.Sum32())
}

// GetHintName returns the fully qualified name of the hint function.
func GetHintName(fn Hint) string {
	fnptr := reflect.ValueOf(fn).Pointer()
	return runtime.FuncForPC(fnptr).Name()
}

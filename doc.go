// Package templar is a compiler for parameterized, statically-sized
// arithmetic circuit templates. Templates compile to a Rank-1 Constraint
// System (R1CS) over a configurable prime field, together with witness
// computation rules; a solver evaluates concrete inputs into a witness
// vector and re-verifies every constraint row against it.
//
// The circuit authoring model separates "assign and constrain" (a signal is
// both constrained to equal an expression and computed from it at solving
// time), "constrain only" (a relation with no computation rule) and "hint"
// (a computation rule with no constraint). Constraint structure can never
// depend on a signal value: loop bounds, array sizes and conditions are
// resolved at compile time, and the compiler rejects any control decision
// that depends on a signal.
package templar

import (
	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc"
)

// Version of the compiled-artifact format, embedded in serialized systems.
var Version = semver.MustParse("0.1.0")

// Fields returns the scalar fields with built-in constructors. Any other
// prime modulus can be used through field.New.
func Fields() []ecc.ID {
	return []ecc.ID{
		ecc.BN254,
		ecc.BLS12_377,
		ecc.BLS12_381,
		ecc.BW6_761,
	}
}

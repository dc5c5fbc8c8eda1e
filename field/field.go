// Package field implements modular arithmetic over a configurable prime
// modulus. Every signal value, expression coefficient and witness entry
// lives in such a field; the modulus is explicit configuration threaded
// through the compiler and the solver, never an ambient constant.
package field

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
)

var (
	// ErrNotPrime is returned by New when the modulus is not a prime.
	ErrNotPrime = errors.New("field: modulus is not prime")

	// ErrDivisionByZero is returned when inverting or dividing by zero.
	ErrDivisionByZero = errors.New("field: division by zero")
)

// Field performs arithmetic modulo a prime q. The zero value is not usable;
// construct with New or one of the curve helpers.
type Field struct {
	q *big.Int
}

// New returns a Field over the prime modulus q.
func New(q *big.Int) (Field, error) {
	if q == nil || q.Sign() <= 0 || !q.ProbablyPrime(20) {
		return Field{}, fmt.Errorf("%w: %v", ErrNotPrime, q)
	}
	return Field{q: new(big.Int).Set(q)}, nil
}

// BN254 returns the scalar field of the BN254 curve.
func BN254() Field { return Field{q: ecc.BN254.ScalarField()} }

// BLS12377 returns the scalar field of the BLS12-377 curve.
func BLS12377() Field { return Field{q: ecc.BLS12_377.ScalarField()} }

// BLS12381 returns the scalar field of the BLS12-381 curve.
func BLS12381() Field { return Field{q: ecc.BLS12_381.ScalarField()} }

// BW6761 returns the scalar field of the BW6-761 curve.
func BW6761() Field { return Field{q: ecc.BW6_761.ScalarField()} }

// Modulus returns a copy of the field modulus.
func (f Field) Modulus() *big.Int {
	return new(big.Int).Set(f.q)
}

// BitLen returns the bit length of the modulus.
func (f Field) BitLen() int {
	return f.q.BitLen()
}

// IsInField reports whether v is in the canonical range [0, q).
func (f Field) IsInField(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(f.q) < 0
}

// Reduce returns v mod q in [0, q).
func (f Field) Reduce(v *big.Int) *big.Int {
	return new(big.Int).Mod(v, f.q)
}

// Add returns a+b mod q.
func (f Field) Add(a, b *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Add(a, b))
}

// Sub returns a-b mod q.
func (f Field) Sub(a, b *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Sub(a, b))
}

// Mul returns a*b mod q.
func (f Field) Mul(a, b *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Mul(a, b))
}

// Neg returns -a mod q.
func (f Field) Neg(a *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Neg(a))
}

// Inverse returns a^-1 mod q, or ErrDivisionByZero when a == 0 mod q.
func (f Field) Inverse(a *big.Int) (*big.Int, error) {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	return r.ModInverse(r, f.q), nil
}

// IsOne reports whether v == 1 mod q.
func (f Field) IsOne(v *big.Int) bool {
	return f.Reduce(v).Cmp(big.NewInt(1)) == 0
}

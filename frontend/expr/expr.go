// Package expr implements the expression algebra of the compiler. An
// Expression is a sum of quadratic terms (each the product of two linear
// combinations of signals) plus one linear combination. Degree is derived
// from the representation itself, never by evaluating signal values:
// constants have degree 0, linear combinations degree 1, anything carrying
// a signal-by-signal product degree 2. Combinations that would exceed
// degree 2 are rejected when they are formed.
package expr

import (
	"errors"
	"math/big"
	"sort"

	"github.com/templar-zk/templar/field"
)

var (
	// ErrDegree is returned when a combination would exceed degree 2, or
	// when a degree-2 expression carries more than one signal product and
	// therefore cannot land in a single constraint row.
	ErrDegree = errors.New("non-quadratic expression")

	// ErrDivision is returned when dividing by a non-constant expression;
	// signal-by-signal division has no constraint translation.
	ErrDivision = errors.New("division by a non-constant expression")

	// ErrDivisionByZero is returned when dividing by the constant zero.
	// This is a compile error, not an evaluation error.
	ErrDivisionByZero = field.ErrDivisionByZero
)

// ConstantWire is the wire holding the constant 1. Constants are
// represented as coefficients on this wire.
const ConstantWire = 0

// Term is coeff*wire with the coefficient in canonical form.
type Term struct {
	Coeff *big.Int
	Wire  int
}

// LinearExpression is a sum of terms, sorted by wire id, with no zero
// coefficients and at most one term per wire.
type LinearExpression []Term

// Product is the product of two linear expressions, a single quadratic
// term.
type Product struct {
	L, R LinearExpression
}

// Expression is sum(Quad...) + Lin. The zero value is the constant 0.
type Expression struct {
	Quad []Product
	Lin  LinearExpression
}

// NewConstant returns the expression for the constant v.
func NewConstant(f field.Field, v *big.Int) Expression {
	c := f.Reduce(v)
	if c.Sign() == 0 {
		return Expression{}
	}
	return Expression{Lin: LinearExpression{{Coeff: c, Wire: ConstantWire}}}
}

// NewSignal returns the expression 1*wire.
func NewSignal(wire int) Expression {
	return Expression{Lin: LinearExpression{{Coeff: big.NewInt(1), Wire: wire}}}
}

// Degree returns 0, 1 or 2. Any representable expression is at most
// quadratic.
func (e Expression) Degree() int {
	if len(e.Quad) > 0 {
		return 2
	}
	for _, t := range e.Lin {
		if t.Wire != ConstantWire {
			return 1
		}
	}
	return 0
}

// Constant returns the constant value of a degree-0 expression.
func (e Expression) Constant() (*big.Int, bool) {
	if e.Degree() != 0 {
		return nil, false
	}
	if len(e.Lin) == 0 {
		return new(big.Int), true
	}
	return new(big.Int).Set(e.Lin[0].Coeff), true
}

// Signals returns the ids of all wires the expression references, sorted,
// without duplicates. The constant wire is not reported.
func (e Expression) Signals() []int {
	seen := map[int]struct{}{}
	collect := func(l LinearExpression) {
		for _, t := range l {
			if t.Wire != ConstantWire {
				seen[t.Wire] = struct{}{}
			}
		}
	}
	collect(e.Lin)
	for _, p := range e.Quad {
		collect(p.L)
		collect(p.R)
	}
	res := make([]int, 0, len(seen))
	for w := range seen {
		res = append(res, w)
	}
	sort.Ints(res)
	return res
}

// Add returns a+b. Sums never fail: degree is the max of the operand
// degrees. The result may carry several quadratic terms; whether it fits a
// single constraint row is checked at emission.
func Add(f field.Field, a, b Expression) Expression {
	quad := make([]Product, 0, len(a.Quad)+len(b.Quad))
	quad = append(quad, cloneProducts(a.Quad)...)
	quad = append(quad, cloneProducts(b.Quad)...)
	return Expression{Quad: quad, Lin: mergeLE(f, a.Lin, b.Lin)}
}

// Neg returns -a.
func Neg(f field.Field, a Expression) Expression {
	return MulConst(f, a, f.Neg(big.NewInt(1)))
}

// Sub returns a-b.
func Sub(f field.Field, a, b Expression) Expression {
	return Add(f, a, Neg(f, b))
}

// MulConst returns k*a. Scalar products never fail.
func MulConst(f field.Field, a Expression, k *big.Int) Expression {
	kk := f.Reduce(k)
	if kk.Sign() == 0 {
		return Expression{}
	}
	quad := make([]Product, len(a.Quad))
	for i, p := range a.Quad {
		quad[i] = Product{L: scaleLE(f, p.L, kk), R: p.R.clone()}
	}
	return Expression{Quad: quad, Lin: scaleLE(f, a.Lin, kk)}
}

// Mul returns a*b, or ErrDegree when degree(a)+degree(b) exceeds 2.
func Mul(f field.Field, a, b Expression) (Expression, error) {
	if c, ok := a.Constant(); ok {
		return MulConst(f, b, c), nil
	}
	if c, ok := b.Constant(); ok {
		return MulConst(f, a, c), nil
	}
	if a.Degree()+b.Degree() > 2 {
		return Expression{}, ErrDegree
	}
	return Expression{Quad: []Product{{L: a.Lin.clone(), R: b.Lin.clone()}}}, nil
}

// Div returns a/b. b must be a nonzero constant: there is no translation
// to addition and multiplication for division by a signal, and division by
// the constant zero is rejected here, at compile time.
func Div(f field.Field, a, b Expression) (Expression, error) {
	c, ok := b.Constant()
	if !ok {
		return Expression{}, ErrDivision
	}
	inv, err := f.Inverse(c)
	if err != nil {
		return Expression{}, ErrDivisionByZero
	}
	return MulConst(f, a, inv), nil
}

func (l LinearExpression) clone() LinearExpression {
	res := make(LinearExpression, len(l))
	for i, t := range l {
		res[i] = Term{Coeff: new(big.Int).Set(t.Coeff), Wire: t.Wire}
	}
	return res
}

func cloneProducts(ps []Product) []Product {
	res := make([]Product, len(ps))
	for i, p := range ps {
		res[i] = Product{L: p.L.clone(), R: p.R.clone()}
	}
	return res
}

func scaleLE(f field.Field, l LinearExpression, k *big.Int) LinearExpression {
	res := make(LinearExpression, 0, len(l))
	for _, t := range l {
		c := f.Mul(t.Coeff, k)
		if c.Sign() != 0 {
			res = append(res, Term{Coeff: c, Wire: t.Wire})
		}
	}
	return res
}

// mergeLE merges two sorted linear expressions, folding coefficients on
// the same wire and dropping zeros.
func mergeLE(f field.Field, a, b LinearExpression) LinearExpression {
	res := make(LinearExpression, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Wire < b[j].Wire:
			res = append(res, Term{Coeff: new(big.Int).Set(a[i].Coeff), Wire: a[i].Wire})
			i++
		case a[i].Wire > b[j].Wire:
			res = append(res, Term{Coeff: new(big.Int).Set(b[j].Coeff), Wire: b[j].Wire})
			j++
		default:
			c := f.Add(a[i].Coeff, b[j].Coeff)
			if c.Sign() != 0 {
				res = append(res, Term{Coeff: c, Wire: a[i].Wire})
			}
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		res = append(res, Term{Coeff: new(big.Int).Set(a[i].Coeff), Wire: a[i].Wire})
	}
	for ; j < len(b); j++ {
		res = append(res, Term{Coeff: new(big.Int).Set(b[j].Coeff), Wire: b[j].Wire})
	}
	return res
}

package frontend

import (
	"fmt"
	"math/big"

	"github.com/templar-zk/templar/frontend/expr"
)

// Var is a mutable variable. It starts as a plain host integer and may
// steer loops and conditionals; the instant it is assigned a value derived
// (even transitively) from a signal it becomes symbolic. A symbolic Var
// carries an expression instead of a value: host-only operations
// (Cmp, Mod, shifts) fail with ErrUnsupportedOnSignal, and extracting a
// host integer from it fails with ErrStaticity, so no control decision can
// depend on a signal.
type Var struct {
	api *API
	sym bool
	val *big.Int
	e   expr.Expression
}

// NewVar returns a mutable variable initialized to v.
func (api *API) NewVar(v Variable) *Var {
	res := &Var{api: api}
	res.Set(v)
	return res
}

// Set assigns v. Unlike signals, variables may be reassigned freely; a
// constant value clears the symbolic taint.
func (v *Var) Set(x Variable) {
	e := v.api.toExpr(x)
	if c, ok := e.Constant(); ok {
		v.sym = false
		v.val = c
		v.e = expr.Expression{}
		return
	}
	v.sym = true
	v.e = e
	v.val = nil
}

// IsSymbolic reports whether the variable carries signal references.
func (v *Var) IsSymbolic() bool { return v.sym }

// Int returns the host integer value. Extracting a host integer from a
// symbolic variable would let a signal decide structure, so it fails with
// ErrStaticity.
func (v *Var) Int() int {
	b := v.BigInt()
	if !b.IsInt64() {
		raise(fmt.Errorf("%s: variable value %s overflows int", v.api.inst.path, b.String()))
	}
	return int(b.Int64())
}

// BigInt returns a copy of the host integer value, or aborts with
// ErrStaticity when the variable is symbolic.
func (v *Var) BigInt() *big.Int {
	if v.sym {
		raise(fmt.Errorf("%s: %w", v.api.inst.path, ErrStaticity))
	}
	return new(big.Int).Set(v.val)
}

// Cmp compares with a host value, as big.Int.Cmp. Defined only while both
// operands are non-symbolic.
func (v *Var) Cmp(x Variable) int {
	return v.BigIntHost("cmp").Cmp(v.hostOperand("cmp", x))
}

// Mod returns v mod x as a new non-symbolic variable, using host integer
// semantics.
func (v *Var) Mod(x Variable) *Var {
	r := new(big.Int).Mod(v.BigIntHost("mod"), v.hostOperand("mod", x))
	return &Var{api: v.api, val: r}
}

// Lsh returns v << n as a new non-symbolic variable.
func (v *Var) Lsh(n uint) *Var {
	return &Var{api: v.api, val: new(big.Int).Lsh(v.BigIntHost("lsh"), n)}
}

// Rsh returns v >> n as a new non-symbolic variable.
func (v *Var) Rsh(n uint) *Var {
	return &Var{api: v.api, val: new(big.Int).Rsh(v.BigIntHost("rsh"), n)}
}

// BigIntHost is like BigInt but reports which host operation needed the
// value, and fails with ErrUnsupportedOnSignal for symbolic variables.
func (v *Var) BigIntHost(op string) *big.Int {
	if v.sym {
		raise(fmt.Errorf("%s: %s: %w", v.api.inst.path, op, ErrUnsupportedOnSignal))
	}
	return new(big.Int).Set(v.val)
}

func (v *Var) hostOperand(op string, x Variable) *big.Int {
	if xv, ok := x.(*Var); ok {
		return xv.BigIntHost(op)
	}
	b, err := toConst(x)
	if err != nil {
		raise(fmt.Errorf("%s: %s: %w", v.api.inst.path, op, ErrUnsupportedOnSignal))
	}
	return b
}

// expression returns the expression form of the variable.
func (v *Var) expression() expr.Expression {
	if v.sym {
		return v.e
	}
	return expr.NewConstant(v.api.b.f, v.val)
}

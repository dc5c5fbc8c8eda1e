package frontend

import (
	"fmt"
	"math/big"

	"github.com/templar-zk/templar/constraint"
	"github.com/templar-zk/templar/constraint/solver"
	"github.com/templar-zk/templar/frontend/expr"
)

// API is the handle a template body uses to declare signals, emit
// constraints and instantiate sub-components. Each component instance gets
// its own API bound to its private scope.
//
// Methods report misuse (degree violations, double assignment, staticity
// violations, ...) by aborting the compilation; Compile returns the error.
type API struct {
	b    *builder
	inst *Instance
}

// Field returns a copy of the field modulus.
func (api *API) Field() *big.Int { return api.b.f.Modulus() }

// FieldBitLen returns the bit length of the field modulus.
func (api *API) FieldBitLen() int { return api.b.f.BitLen() }

// Param returns the compile-time parameter value. Parameters are plain
// host integers: they may size arrays, bound loops and steer conditionals.
func (api *API) Param(name string) int {
	v, ok := api.inst.params[name]
	if !ok {
		raise(fmt.Errorf("%s (%s): missing parameter %q", api.inst.path, api.inst.template, name))
	}
	return v
}

//
// signal declaration
//

// Input declares a scalar input signal. On the main component the value is
// supplied externally per solve; on a sub-component the instantiator wires
// it with Assign.
func (api *API) Input(name string) Variable {
	w := api.declare(name, 1, true, false)
	return Signal{wire: w[0]}
}

// InputArray declares an input signal array of size n.
func (api *API) InputArray(name string, n int) []Variable {
	return signalsOf(api.declare(name, n, true, false))
}

// Output declares a scalar output signal. Outputs must be assigned inside
// the declaring component and should be constrained by the instantiator.
func (api *API) Output(name string) Variable {
	w := api.declare(name, 1, false, true)
	return Signal{wire: w[0]}
}

// OutputArray declares an output signal array of size n.
func (api *API) OutputArray(name string, n int) []Variable {
	return signalsOf(api.declare(name, n, false, true))
}

// Intermediate declares a scalar intermediate signal, private to this
// component.
func (api *API) Intermediate(name string) Variable {
	w := api.declare(name, 1, false, false)
	return Signal{wire: w[0]}
}

// IntermediateArray declares an intermediate signal array of size n.
func (api *API) IntermediateArray(name string, n int) []Variable {
	return signalsOf(api.declare(name, n, false, false))
}

// Aux declares a fresh, uniquely named intermediate signal. Gadget helpers
// use it for the auxiliary signals of their constructions.
func (api *API) Aux(prefix string) Variable {
	api.b.auxID++
	w := api.declare(fmt.Sprintf("%s#%d", prefix, api.b.auxID), 1, false, false)
	return Signal{wire: w[0]}
}

func (api *API) declare(name string, n int, input, output bool) []int {
	if n <= 0 {
		raise(fmt.Errorf("%s: signal %q has invalid size %d", api.inst.path, name, n))
	}
	if _, ok := api.inst.names[name]; ok {
		raise(fmt.Errorf("%s: %q redeclared", api.inst.path, name))
	}
	api.inst.names[name] = struct{}{}

	wires := make([]int, n)
	for i := range wires {
		symbol := fmt.Sprintf("%s.%s", api.inst.path, name)
		if n > 1 {
			symbol = fmt.Sprintf("%s[%d]", symbol, i)
		}
		switch {
		case input && api.inst.parent == nil:
			wires[i] = api.b.cs.AddInput(symbol)
		case output:
			wires[i] = api.b.cs.AddWire(constraint.WireOutput, symbol)
		default:
			wires[i] = api.b.cs.AddWire(constraint.WireInternal, symbol)
		}
	}
	api.inst.signals[name] = wires
	if input {
		api.inst.inputs[name] = true
	}
	if output {
		api.inst.outputs[name] = true
	}
	return wires
}

func signalsOf(wires []int) []Variable {
	res := make([]Variable, len(wires))
	for i, w := range wires {
		res[i] = Signal{wire: w}
	}
	return res
}

//
// component instantiation
//

// Instance instantiates template t as a named child component and runs its
// body. The instantiating scope exclusively owns the child.
func (api *API) Instance(name string, t Template, params Params) *Instance {
	if _, ok := api.inst.names[name]; ok {
		raise(fmt.Errorf("%s: %q redeclared", api.inst.path, name))
	}
	api.inst.names[name] = struct{}{}
	return api.b.instantiate(api.inst, api.inst.path+"."+name, t, params)
}

// InstanceArray pre-declares n component slots, for instantiating
// components inside unrolled loops.
func (api *API) InstanceArray(name string, n int) *InstanceArray {
	if n <= 0 {
		raise(fmt.Errorf("%s: instance array %q has invalid size %d", api.inst.path, name, n))
	}
	if _, ok := api.inst.names[name]; ok {
		raise(fmt.Errorf("%s: %q redeclared", api.inst.path, name))
	}
	api.inst.names[name] = struct{}{}
	return &InstanceArray{api: api, name: name, slots: make([]*Instance, n)}
}

//
// expression algebra
//

// Add returns a+b (+more).
func (api *API) Add(a, b Variable, more ...Variable) Variable {
	acc := expr.Add(api.b.f, api.toExpr(a), api.toExpr(b))
	for _, m := range more {
		acc = expr.Add(api.b.f, acc, api.toExpr(m))
	}
	return acc
}

// Sub returns a-b.
func (api *API) Sub(a, b Variable) Variable {
	return expr.Sub(api.b.f, api.toExpr(a), api.toExpr(b))
}

// Neg returns -a.
func (api *API) Neg(a Variable) Variable {
	return expr.Neg(api.b.f, api.toExpr(a))
}

// Mul returns a*b. Products that would exceed degree 2 abort compilation
// with expr.ErrDegree.
func (api *API) Mul(a, b Variable) Variable {
	e, err := expr.Mul(api.b.f, api.toExpr(a), api.toExpr(b))
	if err != nil {
		raise(fmt.Errorf("%s: mul: %w", api.inst.path, err))
	}
	return e
}

// Div returns a/b for a constant, nonzero b. Division by a signal aborts
// with expr.ErrDivision; division by the constant zero with
// expr.ErrDivisionByZero. For dividing by a signal, see Inverse.
func (api *API) Div(a, b Variable) Variable {
	e, err := expr.Div(api.b.f, api.toExpr(a), api.toExpr(b))
	if err != nil {
		raise(fmt.Errorf("%s: div: %w", api.inst.path, err))
	}
	return e
}

// Inverse returns a signal out constrained by out*a == 1. The value is
// produced by a hint; solving fails with field.ErrDivisionByZero when a
// evaluates to zero.
func (api *API) Inverse(a Variable) Variable {
	ea := api.toExpr(a)
	if c, ok := ea.Constant(); ok {
		inv, err := api.b.f.Inverse(c)
		if err != nil {
			raise(fmt.Errorf("%s: inverse: %w", api.inst.path, err))
		}
		return expr.NewConstant(api.b.f, inv)
	}
	out := api.Aux("inv")
	api.HintMany([]Variable{out}, InvHint, a)
	api.AssertEqual(api.Mul(out, a), 1)
	return out
}

// IsZero returns a signal equal to 1 when a == 0 and 0 otherwise.
//
// The construction is the equality-indicator pair: a hint supplies
// inv = a^-1 (0 when a == 0), then out == 1 - a*inv and out*a == 0 are
// both constrained. Omitting either constraint breaks soundness.
func (api *API) IsZero(a Variable) Variable {
	ea := api.toExpr(a)
	if c, ok := ea.Constant(); ok {
		if c.Sign() == 0 {
			return expr.NewConstant(api.b.f, big.NewInt(1))
		}
		return expr.Expression{}
	}
	inv := api.Aux("iszero_inv")
	api.HintMany([]Variable{inv}, InvZeroHint, a)
	out := api.Aux("iszero")
	api.Assign(out, api.Sub(1, api.Mul(a, inv)))
	api.AssertEqual(api.Mul(out, a), 0)
	return out
}

// IsEqual returns a signal equal to 1 when a == b and 0 otherwise.
func (api *API) IsEqual(a, b Variable) Variable {
	return api.IsZero(api.Sub(a, b))
}

//
// constraint emission
//

// Assign constrains target == v and records v as the witness computation
// rule for target ("assign and constrain"). target must be an unassigned
// signal; v must fit a single quadratic row.
func (api *API) Assign(target Variable, v Variable) {
	sig, ok := target.(Signal)
	if !ok {
		raise(fmt.Errorf("%s: assign target must be a signal, got %T", api.inst.path, target))
	}
	e := api.toExpr(v)
	if len(e.Quad) > 1 {
		raise(fmt.Errorf("%s: assign to %s: %w", api.inst.path, api.b.cs.Wires[sig.wire].Symbol, expr.ErrDegree))
	}

	var qL, qR expr.LinearExpression
	if len(e.Quad) == 1 {
		qL, qR = e.Quad[0].L, e.Quad[0].R
	}
	cL := api.b.toConstraintLE(qL)
	cR := api.b.toConstraintLE(qR)
	cLin := api.b.toConstraintLE(e.Lin)

	if err := api.b.cs.AddRule(constraint.Rule{
		Kind:    constraint.RuleQuadratic,
		Outputs: []uint32{uint32(sig.wire)},
		L:       cL,
		R:       cR,
		C:       cLin,
	}); err != nil {
		raise(fmt.Errorf("%s: %w", api.inst.path, err))
	}

	var row constraint.R1C
	if len(e.Quad) == 1 {
		// L*R == target - lin
		o := expr.Sub(api.b.f, expr.NewSignal(sig.wire), expr.Expression{Lin: e.Lin})
		row = constraint.R1C{L: cL, R: cR, O: api.b.toConstraintLE(o.Lin)}
	} else {
		// lin * 1 == target
		row = constraint.R1C{
			L: cLin,
			R: api.b.oneLE(),
			O: api.b.toConstraintLE(expr.NewSignal(sig.wire).Lin),
		}
	}
	api.emitRow(row)
}

// AssertEqual constrains a == b without recording any computation rule
// ("constrain only"). The difference must fit a single quadratic row.
func (api *API) AssertEqual(a, b Variable) {
	e := expr.Sub(api.b.f, api.toExpr(a), api.toExpr(b))
	if c, ok := e.Constant(); ok {
		if c.Sign() != 0 {
			raise(fmt.Errorf("%s: constraint %s == 0 can never be satisfied", api.inst.path, c.String()))
		}
		return
	}
	if len(e.Quad) > 1 {
		raise(fmt.Errorf("%s: assertion: %w", api.inst.path, expr.ErrDegree))
	}

	var row constraint.R1C
	if len(e.Quad) == 1 {
		// L*R == -lin
		neg := expr.Neg(api.b.f, expr.Expression{Lin: e.Lin})
		row = constraint.R1C{
			L: api.b.toConstraintLE(e.Quad[0].L),
			R: api.b.toConstraintLE(e.Quad[0].R),
			O: api.b.toConstraintLE(neg.Lin),
		}
	} else {
		// lin * 1 == 0
		row = constraint.R1C{
			L: api.b.toConstraintLE(e.Lin),
			R: api.b.oneLE(),
			O: nil,
		}
	}
	api.emitRow(row)
}

// Hint records fn as the witness computation rule for target with no
// constraint. The hint result is unconstrained until the template binds it
// with explicit constraints. fn must be registered with
// solver.RegisterHint or supplied at solve time with solver.WithHints.
func (api *API) Hint(target Variable, fn solver.Hint, inputs ...Variable) {
	api.HintMany([]Variable{target}, fn, inputs...)
}

// HintMany records fn as the computation rule for several signals at once.
// Hint inputs must be at most linear.
func (api *API) HintMany(targets []Variable, fn solver.Hint, inputs ...Variable) {
	outs := make([]uint32, len(targets))
	for i, t := range targets {
		sig, ok := t.(Signal)
		if !ok {
			raise(fmt.Errorf("%s: hint target must be a signal, got %T", api.inst.path, t))
		}
		outs[i] = uint32(sig.wire)
	}
	ins := make([]constraint.LinearExpression, len(inputs))
	for i, in := range inputs {
		e := api.toExpr(in)
		if len(e.Quad) > 0 {
			raise(fmt.Errorf("%s: hint input: %w", api.inst.path, expr.ErrDegree))
		}
		ins[i] = api.b.toConstraintLE(e.Lin)
	}
	if err := api.b.cs.AddRule(constraint.Rule{
		Kind:    constraint.RuleHint,
		Outputs: outs,
		HintID:  solver.GetHintID(fn),
		Inputs:  ins,
	}); err != nil {
		raise(fmt.Errorf("%s: %w", api.inst.path, err))
	}
}

func (api *API) emitRow(row constraint.R1C) {
	api.b.cs.AddR1C(row)
	for _, le := range []constraint.LinearExpression{row.L, row.R, row.O} {
		for _, t := range le {
			api.inst.constrained[t.WireID()] = struct{}{}
		}
	}
}

//
// conversions
//

// toExpr converts any accepted Variable into an expression.
func (api *API) toExpr(v Variable) expr.Expression {
	switch vv := v.(type) {
	case Signal:
		return expr.NewSignal(vv.wire)
	case *Var:
		return vv.expression()
	case expr.Expression:
		return vv
	case nil:
		raise(fmt.Errorf("%s: nil variable", api.inst.path))
		return expr.Expression{}
	default:
		b, err := toConst(v)
		if err != nil {
			raise(fmt.Errorf("%s: %w", api.inst.path, err))
		}
		return expr.NewConstant(api.b.f, b)
	}
}

func toConst(v any) (*big.Int, error) {
	switch vv := v.(type) {
	case *big.Int:
		return new(big.Int).Set(vv), nil
	case big.Int:
		return new(big.Int).Set(&vv), nil
	case int:
		return big.NewInt(int64(vv)), nil
	case int64:
		return big.NewInt(vv), nil
	case uint64:
		return new(big.Int).SetUint64(vv), nil
	case string:
		b, ok := new(big.Int).SetString(vv, 10)
		if !ok {
			return nil, fmt.Errorf("can't parse %q as base-10 integer", vv)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported variable type %T", v)
	}
}

func (b *builder) toConstraintLE(l expr.LinearExpression) constraint.LinearExpression {
	res := make(constraint.LinearExpression, len(l))
	for i, t := range l {
		res[i] = b.cs.MakeTerm(t.Coeff, t.Wire)
	}
	return res
}

func (b *builder) oneLE() constraint.LinearExpression {
	return constraint.LinearExpression{constraint.Term{CID: constraint.CoeffIdOne, VID: 0}}
}

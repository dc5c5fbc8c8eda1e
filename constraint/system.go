// Package constraint holds the compiled representation of a circuit: the
// R1CS constraint rows, the wire table with symbol metadata, the
// deduplicated coefficient table and the witness computation rules. A
// System is append-only during compilation and strictly read-only
// afterwards; concurrent solves may share one System without locking.
package constraint

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/templar-zk/templar/constraint/solver"
)

// ErrAlreadyAssigned is returned when a second computation rule targets a
// wire that already has one. Signals are single-assignment.
var ErrAlreadyAssigned = errors.New("signal already assigned")

// WireKind describes how a wire gets its value.
type WireKind uint8

const (
	// WireConstant is the wire at position 0, always equal to 1.
	WireConstant WireKind = iota
	// WireInput is supplied externally per solve, never computed.
	WireInput
	// WireOutput is produced by a component and exposed to its instantiator.
	WireOutput
	// WireInternal is an intermediate wire private to a component.
	WireInternal
)

// Wire is one slot of the witness vector.
type Wire struct {
	Kind WireKind
	// Symbol is the full path of the signal: instance path, local name and
	// index, e.g. "main.mux.sel[2]". Needed by external debugging tooling.
	Symbol string
}

// RuleKind discriminates witness computation rules.
type RuleKind uint8

const (
	// RuleQuadratic computes out = (L·w)*(R·w) + (C·w) with pure field ops.
	RuleQuadratic RuleKind = iota
	// RuleHint computes the outputs by calling a registered hint function
	// on the evaluated inputs. Hints carry no constraint by themselves.
	RuleHint
)

// Rule is the computation recipe for one or more wires. Rules are appended
// in emission order, which is not an evaluation order: a component's rules
// may read input wires whose own rule is only recorded when the
// instantiator wires them afterwards. The solver orders rules by their
// read-wire dependencies.
type Rule struct {
	Kind    RuleKind
	Outputs []uint32

	// quadratic rule operands
	L, R, C LinearExpression

	// hint rule
	HintID solver.HintID
	Inputs []LinearExpression
}

// System is a compiled circuit: R1CS matrices, wires, coefficient table and
// witness computation rules. Build it through the frontend package.
type System struct {
	// Q is the prime modulus of the scalar field.
	Q *big.Int

	// Coefficients is the deduplicated coefficient table, referenced by
	// Term.CID. Positions 0..4 hold 0, 1, 2, -1, -2.
	Coefficients []*big.Int

	// Wires lists every witness slot in declaration order. Wires[0] is the
	// constant 1.
	Wires []Wire

	// Inputs lists the externally supplied wires in declaration order.
	Inputs []uint32

	// Constraints holds the R1CS rows in append order. Row order is stable:
	// it is never reordered or compacted after emission.
	Constraints []R1C

	// Rules holds the witness computation rules in emission order.
	Rules []Rule

	// Warnings collects non-fatal findings from compilation, e.g. dangling
	// (unconstrained) component outputs.
	Warnings []string

	coeffIDs map[string]uint32
	ruleOf   map[uint32]int
}

// NewSystem returns an empty system over the prime modulus q, with the
// reserved coefficients and the constant-one wire in place.
func NewSystem(q *big.Int) *System {
	s := &System{
		Q:        new(big.Int).Set(q),
		coeffIDs: make(map[string]uint32),
		ruleOf:   make(map[uint32]int),
	}
	for _, c := range []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(2),
		new(big.Int).Sub(q, big.NewInt(1)),
		new(big.Int).Sub(q, big.NewInt(2)),
	} {
		s.AddCoeff(c)
	}
	s.AddWire(WireConstant, "one")
	return s
}

// Field returns a copy of the modulus.
func (s *System) Field() *big.Int {
	return new(big.Int).Set(s.Q)
}

// FieldBitLen returns the bit length of the modulus.
func (s *System) FieldBitLen() int {
	return s.Q.BitLen()
}

// AddCoeff inserts c (expected canonical, in [0, Q)) in the coefficient
// table and returns its id. Duplicates are not stored twice.
func (s *System) AddCoeff(c *big.Int) uint32 {
	key := c.String()
	if id, ok := s.coeffIDs[key]; ok {
		return id
	}
	id := uint32(len(s.Coefficients))
	s.Coefficients = append(s.Coefficients, new(big.Int).Set(c))
	s.coeffIDs[key] = id
	return id
}

// MakeTerm returns a term for coeff*wire, registering the coefficient.
func (s *System) MakeTerm(coeff *big.Int, wire int) Term {
	return Term{CID: s.AddCoeff(coeff), VID: uint32(wire)}
}

// AddWire appends a wire and returns its id (witness vector position).
func (s *System) AddWire(kind WireKind, symbol string) int {
	s.Wires = append(s.Wires, Wire{Kind: kind, Symbol: symbol})
	return len(s.Wires) - 1
}

// AddInput appends an externally supplied wire.
func (s *System) AddInput(symbol string) int {
	w := s.AddWire(WireInput, symbol)
	s.Inputs = append(s.Inputs, uint32(w))
	return w
}

// AddR1C appends a constraint row and returns its index.
func (s *System) AddR1C(r R1C) int {
	s.Constraints = append(s.Constraints, r)
	return len(s.Constraints) - 1
}

// AddRule appends a computation rule. It fails with ErrAlreadyAssigned if
// any output wire already has one; input and constant wires count as
// assigned.
func (s *System) AddRule(r Rule) error {
	for _, o := range r.Outputs {
		if s.HasRule(int(o)) {
			return fmt.Errorf("%w: %s", ErrAlreadyAssigned, s.Wires[o].Symbol)
		}
	}
	s.Rules = append(s.Rules, r)
	for _, o := range r.Outputs {
		s.ruleOf[o] = len(s.Rules) - 1
	}
	return nil
}

// HasRule reports whether the wire has a computation rule (externally
// supplied wires and the constant wire always do).
func (s *System) HasRule(wire int) bool {
	if s.Wires[wire].Kind == WireInput || s.Wires[wire].Kind == WireConstant {
		return true
	}
	_, ok := s.ruleOf[uint32(wire)]
	return ok
}

// GetNbConstraints returns the number of constraint rows.
func (s *System) GetNbConstraints() int { return len(s.Constraints) }

// GetNbWires returns the total number of wires, constant included.
func (s *System) GetNbWires() int { return len(s.Wires) }

// GetNbInputs returns the number of externally supplied wires.
func (s *System) GetNbInputs() int { return len(s.Inputs) }

// GetNbCoefficients returns the size of the coefficient table.
func (s *System) GetNbCoefficients() int { return len(s.Coefficients) }

// Symbols returns the mapping from signal path to witness vector position.
func (s *System) Symbols() map[string]int {
	m := make(map[string]int, len(s.Wires))
	for i, w := range s.Wires {
		m[w.Symbol] = i
	}
	return m
}

// WireBySymbol returns the wire id of the given signal path.
func (s *System) WireBySymbol(symbol string) (int, bool) {
	for i, w := range s.Wires {
		if w.Symbol == symbol {
			return i, true
		}
	}
	return 0, false
}

func (s *System) writeLinearExpression(sbb *strings.Builder, l LinearExpression) {
	if len(l) == 0 {
		sbb.WriteString("0")
		return
	}
	for i, t := range l {
		if i > 0 {
			sbb.WriteString(" + ")
		}
		fmt.Fprintf(sbb, "%s*%s", s.Coefficients[t.CID].String(), s.Wires[t.VID].Symbol)
	}
}

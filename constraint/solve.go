package constraint

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/templar-zk/templar/constraint/solver"
	"github.com/templar-zk/templar/field"
	"github.com/templar-zk/templar/logger"
)

var (
	// ErrInput is returned when an input value is missing, unknown, or not
	// a canonical field element in [0, Q). Out-of-range values are rejected,
	// never silently reduced.
	ErrInput = errors.New("invalid input assignment")

	// ErrUnsatisfied is returned when the completed witness vector fails an
	// R1CS row. It signals a bug in a computation rule or an inconsistent
	// assignment, and is detected by the solver's final verification pass.
	ErrUnsatisfied = errors.New("constraint not satisfied")

	// ErrMissingHint is returned when a rule references a hint function
	// that is neither registered nor provided through solver options.
	ErrMissingHint = errors.New("missing hint function")
)

// Witness is the vector of field values, one per wire, with the constant 1
// at position 0.
type Witness []*big.Int

// Solve evaluates every wire of the system from the given input assignment
// and returns the witness vector.
//
// Assignment keys are input signal names local to the main component
// (array entries use their indexed form, e.g. "in[2]"). Every declared
// input must be present; unknown keys and values outside [0, Q) fail with
// ErrInput.
//
// Rules are evaluated in dependency order: a rule runs once every wire it
// reads is assigned. Emission order alone is not an evaluation order,
// since a component's rules are recorded before the instantiator wires the
// component's inputs. Once all wires are assigned, every constraint row is
// re-checked against the vector; a failing row yields ErrUnsatisfied.
//
// The system is read-only during a solve: independent assignments may be
// solved concurrently against the same System.
func (s *System) Solve(assignment map[string]any, opts ...solver.Option) (Witness, error) {
	log := logger.Logger()
	start := time.Now()

	cfg, err := solver.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	f, err := field.New(s.Q)
	if err != nil {
		return nil, err
	}

	w := make(Witness, len(s.Wires))
	assigned := bitset.New(uint(len(s.Wires)))

	w[0] = big.NewInt(1)
	assigned.Set(0)

	if err := s.bindInputs(f, assignment, w, assigned); err != nil {
		return nil, err
	}

	if err := s.applyRules(f, cfg, w, assigned); err != nil {
		return nil, err
	}

	for i := range s.Wires {
		if !assigned.Test(uint(i)) {
			return nil, fmt.Errorf("wire %q has no computation rule", s.Wires[i].Symbol)
		}
	}

	if err := s.Verify(w); err != nil {
		return nil, err
	}

	log.Debug().
		Int("nbConstraints", len(s.Constraints)).
		Int("nbWires", len(s.Wires)).
		Dur("took", time.Since(start)).
		Msg("witness solved")

	return w, nil
}

// SolveBatch solves independent assignments in parallel against the shared
// read-only system. It returns the witnesses in input order, or the first
// error encountered.
func (s *System) SolveBatch(assignments []map[string]any, opts ...solver.Option) ([]Witness, error) {
	res := make([]Witness, len(assignments))
	var g errgroup.Group
	for i := range assignments {
		g.Go(func() error {
			w, err := s.Solve(assignments[i], opts...)
			if err != nil {
				return fmt.Errorf("instance #%d: %w", i, err)
			}
			res[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Verify checks every constraint row against the witness vector. It is the
// solver's only validation step; no range checking is implied.
func (s *System) Verify(w Witness) error {
	if len(w) != len(s.Wires) {
		return fmt.Errorf("%w: witness length %d, expected %d", ErrUnsatisfied, len(w), len(s.Wires))
	}
	f, err := field.New(s.Q)
	if err != nil {
		return err
	}
	for i, c := range s.Constraints {
		l := s.mustEval(f, c.L, w)
		r := s.mustEval(f, c.R, w)
		o := s.mustEval(f, c.O, w)
		if f.Mul(l, r).Cmp(o) != 0 {
			return fmt.Errorf("%w: constraint #%d: %s", ErrUnsatisfied, i, c.String(s))
		}
	}
	return nil
}

func (s *System) bindInputs(f field.Field, assignment map[string]any, w Witness, assigned *bitset.BitSet) error {
	seen := make(map[string]struct{}, len(s.Inputs))
	for _, wi := range s.Inputs {
		name := inputName(s.Wires[wi].Symbol)
		v, ok := assignment[name]
		if !ok {
			return fmt.Errorf("%w: missing input %q", ErrInput, name)
		}
		b, err := toBigInt(v)
		if err != nil {
			return fmt.Errorf("%w: input %q: %v", ErrInput, name, err)
		}
		if !f.IsInField(b) {
			return fmt.Errorf("%w: input %q: value %s outside [0, modulus)", ErrInput, name, b.String())
		}
		w[wi] = b
		assigned.Set(uint(wi))
		seen[name] = struct{}{}
	}
	for k := range assignment {
		if _, ok := seen[k]; !ok {
			return fmt.Errorf("%w: unknown input %q", ErrInput, k)
		}
	}
	return nil
}

// applyRules evaluates every rule in dependency order. Most rules are
// solvable in emission order, but a component's rules are recorded while
// its body runs, before the instantiator assigns the component's input
// wires; such rules are deferred until every wire they read has a value.
func (s *System) applyRules(f field.Field, cfg solver.Config, w Witness, assigned *bitset.BitSet) error {
	pending := make([]int, len(s.Rules))
	for i := range pending {
		pending[i] = i
	}
	for len(pending) > 0 {
		progress := false
		next := pending[:0]
		for _, ri := range pending {
			r := &s.Rules[ri]
			if _, blocked := s.ruleBlockedOn(r, assigned); blocked {
				next = append(next, ri)
				continue
			}
			if err := s.applyRule(f, cfg, r, w, assigned); err != nil {
				return fmt.Errorf("rule #%d: %w", ri, err)
			}
			progress = true
		}
		if !progress {
			ri := next[0]
			wire, _ := s.ruleBlockedOn(&s.Rules[ri], assigned)
			return fmt.Errorf("no evaluation order: rule #%d reads wire %q, which is never assigned", ri, s.Wires[wire].Symbol)
		}
		pending = next
	}
	return nil
}

// ruleBlockedOn returns a wire the rule reads that has no value yet.
func (s *System) ruleBlockedOn(r *Rule, assigned *bitset.BitSet) (uint32, bool) {
	check := func(l LinearExpression) (uint32, bool) {
		for _, t := range l {
			if !assigned.Test(uint(t.VID)) {
				return t.VID, true
			}
		}
		return 0, false
	}
	switch r.Kind {
	case RuleQuadratic:
		for _, le := range []LinearExpression{r.L, r.R, r.C} {
			if wire, blocked := check(le); blocked {
				return wire, true
			}
		}
	case RuleHint:
		for _, le := range r.Inputs {
			if wire, blocked := check(le); blocked {
				return wire, true
			}
		}
	}
	return 0, false
}

func (s *System) applyRule(f field.Field, cfg solver.Config, r *Rule, w Witness, assigned *bitset.BitSet) error {
	switch r.Kind {
	case RuleQuadratic:
		l, err := s.eval(f, r.L, w, assigned)
		if err != nil {
			return err
		}
		rr, err := s.eval(f, r.R, w, assigned)
		if err != nil {
			return err
		}
		c, err := s.eval(f, r.C, w, assigned)
		if err != nil {
			return err
		}
		v := f.Add(f.Mul(l, rr), c)
		return s.assign(r.Outputs[0], v, w, assigned)

	case RuleHint:
		fn, ok := cfg.HintFunctions[r.HintID]
		if !ok {
			return fmt.Errorf("%w: id %d", ErrMissingHint, r.HintID)
		}
		ins := make([]*big.Int, len(r.Inputs))
		for i, le := range r.Inputs {
			v, err := s.eval(f, le, w, assigned)
			if err != nil {
				return err
			}
			ins[i] = v
		}
		outs := make([]*big.Int, len(r.Outputs))
		for i := range outs {
			outs[i] = new(big.Int)
		}
		if err := fn(s.Q, ins, outs); err != nil {
			return fmt.Errorf("hint failed: %w", err)
		}
		for i, o := range r.Outputs {
			if err := s.assign(o, f.Reduce(outs[i]), w, assigned); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown rule kind %d", r.Kind)
	}
}

func (s *System) assign(wire uint32, v *big.Int, w Witness, assigned *bitset.BitSet) error {
	if assigned.Test(uint(wire)) {
		return fmt.Errorf("%w: %s", ErrAlreadyAssigned, s.Wires[wire].Symbol)
	}
	w[wire] = v
	assigned.Set(uint(wire))
	return nil
}

func (s *System) eval(f field.Field, l LinearExpression, w Witness, assigned *bitset.BitSet) (*big.Int, error) {
	acc := new(big.Int)
	for _, t := range l {
		if !assigned.Test(uint(t.VID)) {
			return nil, fmt.Errorf("wire %q read before assignment", s.Wires[t.VID].Symbol)
		}
		acc.Add(acc, new(big.Int).Mul(s.Coefficients[t.CID], w[t.VID]))
	}
	return f.Reduce(acc), nil
}

func (s *System) mustEval(f field.Field, l LinearExpression, w Witness) *big.Int {
	acc := new(big.Int)
	for _, t := range l {
		acc.Add(acc, new(big.Int).Mul(s.Coefficients[t.CID], w[t.VID]))
	}
	return f.Reduce(acc)
}

func inputName(symbol string) string {
	return strings.TrimPrefix(symbol, "main.")
}

func toBigInt(v any) (*big.Int, error) {
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
		return nil, fmt.Errorf("unsupported input type %T", v)
	}
}

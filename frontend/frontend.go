// Package frontend compiles parameterized circuit templates into a
// constraint.System.
//
// A Template declares signals (inputs, outputs, intermediates), emits
// constraints and instantiates sub-components through the API value passed
// to its body. All structure (array sizes, loop bounds, the component
// tree) is resolved from compile-time parameters; loops are plain Go
// loops and are therefore fully unrolled by construction. Signal values
// never influence structure: the compile-time/runtime boundary is enforced
// by Var and Param semantics.
package frontend

import (
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/templar-zk/templar/constraint"
	"github.com/templar-zk/templar/field"
	"github.com/templar-zk/templar/logger"
)

// Variable is a value usable in circuit expressions: a Signal, a *Var, an
// expression built by API methods, or a constant (int, int64, uint64,
// *big.Int, big.Int, base-10 string).
type Variable interface{}

// Template is a parameterized circuit definition. Body is executed once
// per instantiation with the instance's API.
type Template struct {
	Name string
	Body func(api *API) error
}

// Params carries the compile-time parameters of an instantiation.
type Params map[string]int

// CompileOption configures compilation.
type CompileOption func(*compileConfig) error

type compileConfig struct {
	strictOutputs bool
}

// WithStrictOutputs upgrades dangling-output warnings to a hard
// ErrDanglingOutput. The permissive default mirrors the authoring model
// this compiler descends from; strict mode is the safer choice.
func WithStrictOutputs() CompileOption {
	return func(cfg *compileConfig) error {
		cfg.strictOutputs = true
		return nil
	}
}

type builder struct {
	f   field.Field
	cs  *constraint.System
	log zerolog.Logger
	cfg compileConfig

	instances []*Instance
	auxID     int
}

// Compile instantiates main with the given parameters over the prime field
// q and returns the compiled system.
//
// Compilation is single-pass and synchronous. Any compile error
// (expr.ErrDegree, ErrStaticity, ErrAlreadyAssigned, ...) aborts the whole
// compilation; there is no partial artifact. Compiling the same template
// with the same parameters twice yields structurally identical systems.
func Compile(q *big.Int, main Template, params Params, opts ...CompileOption) (cs *constraint.System, err error) {
	start := time.Now()
	log := logger.Logger()

	f, err := field.New(q)
	if err != nil {
		return nil, err
	}
	var cfg compileConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	b := &builder{
		f:   f,
		cs:  constraint.NewSystem(q),
		log: log,
		cfg: cfg,
	}

	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(compileErr)
			if !ok {
				panic(r)
			}
			cs, err = nil, ce.err
		}
	}()

	b.instantiate(nil, "main", main, params)

	if err := b.checkDanglingOutputs(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("template", main.Name).
		Int("nbConstraints", b.cs.GetNbConstraints()).
		Int("nbWires", b.cs.GetNbWires()).
		Int("nbInputs", b.cs.GetNbInputs()).
		Dur("took", time.Since(start)).
		Msg("circuit compiled")

	return b.cs, nil
}

// instantiate runs a template body in a fresh component scope and checks
// that every declared output got exactly one computation rule.
func (b *builder) instantiate(parent *Instance, path string, t Template, params Params) *Instance {
	inst := &Instance{
		b:           b,
		path:        path,
		template:    t.Name,
		parent:      parent,
		params:      params,
		names:       make(map[string]struct{}),
		signals:     make(map[string][]int),
		inputs:      make(map[string]bool),
		outputs:     make(map[string]bool),
		constrained: make(map[int]struct{}),
	}
	b.instances = append(b.instances, inst)

	api := &API{b: b, inst: inst}
	if err := t.Body(api); err != nil {
		raise(fmt.Errorf("%s (%s): %w", path, t.Name, err))
	}

	for name, wires := range inst.signals {
		if !inst.outputs[name] {
			continue
		}
		for _, w := range wires {
			if !b.cs.HasRule(w) {
				raise(fmt.Errorf("%s: output %q has no computation rule", path, b.cs.Wires[w].Symbol))
			}
		}
	}
	return inst
}

// checkDanglingOutputs scans every non-root instance output for a
// reference in a constraint emitted by one of its ancestors. Misses are
// warnings by default (recorded on the system and logged), errors in
// strict mode.
func (b *builder) checkDanglingOutputs() error {
	for _, inst := range b.instances {
		if inst.parent == nil {
			continue
		}
		for name, wires := range inst.signals {
			if !inst.outputs[name] {
				continue
			}
			for _, w := range wires {
				if inst.referencedByAncestor(w) {
					continue
				}
				symbol := b.cs.Wires[w].Symbol
				if b.cfg.strictOutputs {
					return fmt.Errorf("%w: %s", ErrDanglingOutput, symbol)
				}
				warning := fmt.Sprintf("output %s is never constrained by its instantiator", symbol)
				b.cs.Warnings = append(b.cs.Warnings, warning)
				b.log.Warn().Str("signal", symbol).Msg("dangling output")
			}
		}
	}
	return nil
}

package frontend

import (
	"errors"

	"github.com/templar-zk/templar/constraint"
)

var (
	// ErrStaticity is returned when a loop bound, array size, condition or
	// parameter depends on a signal value. Constraint structure is fixed at
	// compile time and can never depend on runtime data.
	ErrStaticity = errors.New("control structure depends on a signal value")

	// ErrUnsupportedOnSignal is returned when a host-only operation
	// (comparison, modulo, shifts) is applied to a signal-derived value.
	ErrUnsupportedOnSignal = errors.New("operation not defined on signal-derived values")

	// ErrAlreadyAssigned is returned on a second assignment to a signal.
	ErrAlreadyAssigned = constraint.ErrAlreadyAssigned

	// ErrDanglingOutput is returned in strict mode when a component output
	// is never referenced by a constraint in its instantiating scope. By
	// default this is a warning: an unconstrained output is a soundness
	// hazard, not a compile error.
	ErrDanglingOutput = errors.New("component output never constrained by its instantiator")
)

// compileErr wraps errors raised by API methods; Compile recovers it and
// returns the wrapped error. Any other panic propagates.
type compileErr struct {
	err error
}

func raise(err error) {
	panic(compileErr{err: err})
}

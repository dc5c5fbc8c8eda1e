package frontend

import (
	"fmt"
)

// Signal references one witness wire. Signals are immutable: they are
// declared once, hold exactly one witness position, and are assigned at
// most once.
type Signal struct {
	wire int
}

// Instance is a fully parameterized component instantiation. It owns a
// private namespace of signals and exposes exactly its declared inputs and
// outputs to the instantiating scope.
type Instance struct {
	b        *builder
	path     string
	template string
	parent   *Instance
	params   Params

	names   map[string]struct{}
	signals map[string][]int
	inputs  map[string]bool
	outputs map[string]bool

	// wires referenced by constraints emitted in this scope
	constrained map[int]struct{}
}

// Path returns the full instance path, e.g. "main.sel[2]".
func (inst *Instance) Path() string { return inst.path }

// In returns the scalar input signal of the instance so the instantiator
// can wire it (typically with api.Assign).
func (inst *Instance) In(name string) Variable {
	return inst.exposed(name, true, -1)
}

// InAt returns element i of the array input signal.
func (inst *Instance) InAt(name string, i int) Variable {
	return inst.exposed(name, true, i)
}

// Out returns the scalar output signal of the instance.
func (inst *Instance) Out(name string) Variable {
	return inst.exposed(name, false, -1)
}

// OutAt returns element i of the array output signal.
func (inst *Instance) OutAt(name string, i int) Variable {
	return inst.exposed(name, false, i)
}

func (inst *Instance) exposed(name string, input bool, i int) Variable {
	wires, ok := inst.signals[name]
	if !ok {
		raise(fmt.Errorf("%s: no signal %q", inst.path, name))
	}
	if input && !inst.inputs[name] || !input && !inst.outputs[name] {
		kind := "output"
		if input {
			kind = "input"
		}
		raise(fmt.Errorf("%s: signal %q is not an %s", inst.path, name, kind))
	}
	if i < 0 {
		if len(wires) != 1 {
			raise(fmt.Errorf("%s: signal %q is an array, index it", inst.path, name))
		}
		return Signal{wire: wires[0]}
	}
	if i >= len(wires) {
		raise(fmt.Errorf("%s: index %d out of range for signal %q of size %d", inst.path, i, name, len(wires)))
	}
	return Signal{wire: wires[i]}
}

// referencedByAncestor reports whether a constraint emitted by an ancestor
// scope references the wire.
func (inst *Instance) referencedByAncestor(wire int) bool {
	for p := inst.parent; p != nil; p = p.parent {
		if _, ok := p.constrained[wire]; ok {
			return true
		}
	}
	return false
}

// InstanceArray is a pre-declared array of component slots, the supported
// idiom for instantiating components inside unrolled loops: the array size
// is fixed at compile time, and each slot gets its template when the loop
// body runs.
type InstanceArray struct {
	api   *API
	name  string
	slots []*Instance
}

// Len returns the number of slots.
func (ia *InstanceArray) Len() int { return len(ia.slots) }

// Set instantiates template t with the given parameters in slot i.
func (ia *InstanceArray) Set(i int, t Template, params Params) *Instance {
	if i < 0 || i >= len(ia.slots) {
		raise(fmt.Errorf("%s: instance slot %d out of range [0, %d)", ia.api.inst.path, i, len(ia.slots)))
	}
	if ia.slots[i] != nil {
		raise(fmt.Errorf("%s: instance slot %s[%d] already set", ia.api.inst.path, ia.name, i))
	}
	path := fmt.Sprintf("%s.%s[%d]", ia.api.inst.path, ia.name, i)
	ia.slots[i] = ia.api.b.instantiate(ia.api.inst, path, t, params)
	return ia.slots[i]
}

// At returns the instance in slot i, which must have been Set.
func (ia *InstanceArray) At(i int) *Instance {
	if i < 0 || i >= len(ia.slots) {
		raise(fmt.Errorf("%s: instance slot %d out of range [0, %d)", ia.api.inst.path, i, len(ia.slots)))
	}
	if ia.slots[i] == nil {
		raise(fmt.Errorf("%s: instance slot %s[%d] not set", ia.api.inst.path, ia.name, i))
	}
	return ia.slots[i]
}

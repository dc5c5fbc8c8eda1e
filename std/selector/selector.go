// Package selector provides index- and key-based lookups over vectors of
// signals.
//
// A fixed-topology circuit cannot index an array with a signal; selection
// is emulated by an indicator-weighted inner product: a hint proposes one
// indicator per candidate, constraints force each indicator to zero unless
// its slot is selected, the indicator sum is constrained to one, and the
// result is the inner product of indicators and candidates.
//
// Mux only guarantees correct selection for sel in [0, n): the caller must
// range-check sel separately (e.g. with cmp.AssertLess). Without a range
// check an out-of-range sel simply admits no witness; without the
// indicator sum constraint selection would be unsound, which is covered by
// a negative test.
package selector

import (
	"fmt"
	"math/big"

	"github.com/templar-zk/templar/constraint/solver"
	"github.com/templar-zk/templar/frontend"
)

func init() {
	solver.RegisterHint(GetHints()...)
}

// GetHints returns the hint functions used by this package.
func GetHints() []solver.Hint {
	return []solver.Hint{IndicatorsHint, KeyIndicatorsHint}
}

// Mux returns inputs[sel]. sel must be separately range-checked to
// [0, len(inputs)).
func Mux(api *frontend.API, sel frontend.Variable, inputs ...frontend.Variable) frontend.Variable {
	return DotProduct(api, inputs, Decoder(api, len(inputs), sel))
}

// Map returns values[i] such that keys[i] == queryKey. The keys must be
// pairwise distinct for the output to be well defined; if no key matches,
// no witness exists.
func Map(api *frontend.API, queryKey frontend.Variable, keys, values []frontend.Variable) frontend.Variable {
	if len(keys) != len(values) {
		panic(fmt.Sprintf("the number of keys and values must be equal (%d != %d)", len(keys), len(values)))
	}
	return DotProduct(api, values, KeyDecoder(api, queryKey, keys))
}

// Decoder returns n indicator signals: out[i] == 1 when i == sel, 0
// otherwise.
func Decoder(api *frontend.API, n int, sel frontend.Variable) []frontend.Variable {
	return decoder(api, n, sel, nil, true)
}

// KeyDecoder returns one indicator per key: out[i] == 1 when
// keys[i] == queryKey, 0 otherwise.
func KeyDecoder(api *frontend.API, queryKey frontend.Variable, keys []frontend.Variable) []frontend.Variable {
	return decoder(api, len(keys), queryKey, keys, true)
}

// decoder builds the indicator vector. The hint proposes the indicators;
// ind[i]*(sel - i) == 0 pins every non-selected indicator to zero, and the
// sum constraint pins the selected one to exactly 1. withSumCheck exists
// only so the test suite can demonstrate that omitting the sum constraint
// is exploitable.
func decoder(api *frontend.API, n int, sel frontend.Variable, keys []frontend.Variable, withSumCheck bool) []frontend.Variable {
	indicators := make([]frontend.Variable, n)
	for i := range indicators {
		indicators[i] = api.Aux("ind")
	}
	if keys == nil {
		api.HintMany(indicators, IndicatorsHint, sel)
	} else {
		api.HintMany(indicators, KeyIndicatorsHint, append(append([]frontend.Variable{}, keys...), sel)...)
	}

	sum := frontend.Variable(0)
	for i := range indicators {
		if keys == nil {
			api.AssertEqual(api.Mul(indicators[i], api.Sub(sel, i)), 0)
		} else {
			api.AssertEqual(api.Mul(indicators[i], api.Sub(sel, keys[i])), 0)
		}
		sum = api.Add(sum, indicators[i])
	}
	if withSumCheck {
		api.AssertEqual(sum, 1)
	}
	return indicators
}

// DotProduct returns the inner product of a and b. Every pairwise product
// lands in its own constraint row through an auxiliary signal.
func DotProduct(api *frontend.API, a, b []frontend.Variable) frontend.Variable {
	if len(a) != len(b) {
		panic(fmt.Sprintf("dot product length mismatch (%d != %d)", len(a), len(b)))
	}
	out := frontend.Variable(0)
	for i := range a {
		prod := api.Aux("dot")
		api.Assign(prod, api.Mul(a[i], b[i]))
		out = api.Add(out, prod)
	}
	return out
}

// IndicatorsHint proposes indicators for a sequential decoder: output i is
// 1 when the selector equals i.
func IndicatorsHint(_ *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	sel := inputs[0]
	for i := range outputs {
		if sel.Cmp(big.NewInt(int64(i))) == 0 {
			outputs[i].SetUint64(1)
		} else {
			outputs[i].SetUint64(0)
		}
	}
	return nil
}

// KeyIndicatorsHint proposes indicators for a key-based decoder: output i
// is 1 when the last input (the query key) equals input i.
func KeyIndicatorsHint(_ *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	key := inputs[len(inputs)-1]
	for i := range outputs {
		if key.Cmp(inputs[i]) == 0 {
			outputs[i].SetUint64(1)
		} else {
			outputs[i].SetUint64(0)
		}
	}
	return nil
}

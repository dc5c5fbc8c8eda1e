// Package array emulates mutable memory over immutable signals. A "write"
// never modifies anything: it builds an entirely new array where every
// element is an indicator-weighted combination of the old elements. Any
// simulated mutable structure (stacks, queues, sortable arrays) reduces to
// these rebuilds.
package array

import (
	"github.com/templar-zk/templar/frontend"
	"github.com/templar-zk/templar/std/selector"
)

// Write returns a new array equal to arr with position idx replaced by
// val. idx must be separately range-checked to [0, len(arr)).
func Write(api *frontend.API, arr []frontend.Variable, idx, val frontend.Variable) []frontend.Variable {
	indicators := selector.Decoder(api, len(arr), idx)
	out := make([]frontend.Variable, len(arr))
	for i := range arr {
		// out[i] = arr[i] + ind[i]*(val - arr[i])
		elem := api.Aux("write")
		api.Assign(elem, api.Add(arr[i], api.Mul(indicators[i], api.Sub(val, arr[i]))))
		out[i] = elem
	}
	return out
}

// Swap returns a new array equal to arr with positions s and t exchanged.
// For s == t the result equals arr exactly: the catch-all indicator
// carries an explicit equal-indices correction term so nothing is double
// counted. s and t must be separately range-checked to [0, len(arr)).
func Swap(api *frontend.API, arr []frontend.Variable, s, t frontend.Variable) []frontend.Variable {
	indS := selector.Decoder(api, len(arr), s)
	indT := selector.Decoder(api, len(arr), t)
	atS := selector.DotProduct(api, arr, indS)
	atT := selector.DotProduct(api, arr, indT)
	eq := api.IsEqual(s, t)

	out := make([]frontend.Variable, len(arr))
	for i := range arr {
		// position s receives the old arr[t], position t the old arr[s],
		// every other position keeps arr[i]
		branchS := api.Aux("swap_s")
		api.Assign(branchS, api.Mul(indS[i], atT))
		branchT := api.Aux("swap_t")
		api.Assign(branchT, api.Mul(indT[i], atS))

		// when s == t both position branches fire; drop branchS and patch
		// the catch-all indicator so the element is counted exactly once
		other := api.Aux("swap_other")
		api.Assign(other, api.Add(api.Sub(api.Sub(1, indS[i]), indT[i]), api.Mul(eq, indS[i])))
		branchOther := api.Aux("swap_o")
		api.Assign(branchOther, api.Mul(other, arr[i]))

		elem := api.Aux("swap")
		api.Assign(elem, api.Add(api.Mul(api.Sub(1, eq), branchS), branchT, branchOther))
		out[i] = elem
	}
	return out
}

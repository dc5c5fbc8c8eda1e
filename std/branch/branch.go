// Package branch emulates n-way conditionals. There is no early return in
// a fixed-topology circuit: every branch value is computed, indicators
// select the live one, and the result is their inner product.
package branch

import (
	"fmt"
	"math/big"

	"github.com/templar-zk/templar/frontend"
	"github.com/templar-zk/templar/std/selector"
)

// Select returns values[i] when x equals cases[i], and otherwise when no
// case matches.
//
// The cases are compile-time constants and must be pairwise distinct: the
// equality indicators are then mutually exclusive by construction, their
// sum is 0 or 1, and the catch-all indicator is derived as 1 minus that
// sum. Overlapping cases would make the construction unsound, so they are
// rejected here.
func Select(api *frontend.API, x frontend.Variable, cases []int64, values []frontend.Variable, otherwise frontend.Variable) frontend.Variable {
	if len(cases) != len(values) {
		panic(fmt.Sprintf("the number of cases and values must be equal (%d != %d)", len(cases), len(values)))
	}
	seen := make(map[int64]struct{}, len(cases))
	for _, c := range cases {
		if _, ok := seen[c]; ok {
			panic(fmt.Sprintf("duplicate case %d", c))
		}
		seen[c] = struct{}{}
	}

	indicators := make([]frontend.Variable, 0, len(cases)+1)
	indicatorSum := frontend.Variable(0)
	for _, c := range cases {
		ind := api.IsEqual(x, big.NewInt(c))
		indicators = append(indicators, ind)
		indicatorSum = api.Add(indicatorSum, ind)
	}
	indicators = append(indicators, api.Sub(1, indicatorSum))

	all := append(append([]frontend.Variable{}, values...), otherwise)
	return selector.DotProduct(api, all, indicators)
}

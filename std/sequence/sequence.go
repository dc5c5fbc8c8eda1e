// Package sequence provides bounded stateful computations: iterative
// functions evaluated up to an index that is only known at solving time.
//
// The whole sequence is precomputed up to a compile-time bound, every step
// is constrained, the requested index is range-checked against the bound,
// and the selector extracts the requested entry. The constraint cost is
// linear in the bound regardless of the requested index; that is the price
// of a fixed topology, not a defect.
package sequence

import (
	"github.com/templar-zk/templar/frontend"
	"github.com/templar-zk/templar/std/cmp"
	"github.com/templar-zk/templar/std/selector"
)

// Factorial returns a template with input "n", output "out" and
// compile-time parameter "bound", constraining out == n! for any
// n in [0, bound].
func Factorial() frontend.Template {
	return frontend.Template{
		Name: "Factorial",
		Body: func(api *frontend.API) error {
			bound := api.Param("bound")
			n := api.Input("n")
			out := api.Output("out")

			seq := api.IntermediateArray("fact", bound+1)
			api.Assign(seq[0], 1)
			for i := 1; i <= bound; i++ {
				api.Assign(seq[i], api.Mul(seq[i-1], i))
			}

			cmp.AssertLess(api, n, uint64(bound)+1)
			api.Assign(out, selector.Mux(api, n, seq...))
			return nil
		},
	}
}

// Fibonacci returns a template with input "n", output "out" and
// compile-time parameter "bound", constraining out == fib(n) for any
// n in [0, bound], with fib(0) = 0 and fib(1) = 1.
func Fibonacci() frontend.Template {
	return frontend.Template{
		Name: "Fibonacci",
		Body: func(api *frontend.API) error {
			bound := api.Param("bound")
			n := api.Input("n")
			out := api.Output("out")

			seq := api.IntermediateArray("fib", bound+1)
			api.Assign(seq[0], 0)
			if bound >= 1 {
				api.Assign(seq[1], 1)
			}
			for i := 2; i <= bound; i++ {
				api.Assign(seq[i], api.Add(seq[i-1], seq[i-2]))
			}

			cmp.AssertLess(api, n, uint64(bound)+1)
			api.Assign(out, selector.Mux(api, n, seq...))
			return nil
		},
	}
}

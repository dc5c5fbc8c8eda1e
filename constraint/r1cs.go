package constraint

import "strings"

// R1C is a rank-1 constraint: (L·w) * (R·w) == (O·w) must hold for the
// witness vector w.
type R1C struct {
	L, R, O LinearExpression
}

// String returns a human readable form of the constraint, resolving
// coefficients and wire symbols through the system.
func (r R1C) String(s *System) string {
	var sbb strings.Builder
	s.writeLinearExpression(&sbb, r.L)
	sbb.WriteString(" * ")
	s.writeLinearExpression(&sbb, r.R)
	sbb.WriteString(" == ")
	s.writeLinearExpression(&sbb, r.O)
	return sbb.String()
}

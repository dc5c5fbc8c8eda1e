package constraint

// Term represents coefficient * wire inside a linear expression. The
// coefficient is stored by id in the system's coefficient table.
type Term struct {
	CID, VID uint32
}

// ids of the coefficients with simple values in any system's coefficient
// table, seeded by NewSystem.
const (
	CoeffIdZero = iota
	CoeffIdOne
	CoeffIdTwo
	CoeffIdMinusOne
	CoeffIdMinusTwo
)

// WireID returns the wire (witness vector position) the term refers to.
func (t Term) WireID() int {
	return int(t.VID)
}

// CoeffID returns the id of the term coefficient in the coefficient table.
func (t Term) CoeffID() int {
	return int(t.CID)
}

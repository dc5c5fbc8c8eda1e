package constraint

// A LinearExpression is a linear combination of Term.
type LinearExpression []Term

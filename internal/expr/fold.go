package expr

import (
	"github.com/stratumdb/stratum/internal/sqltype"
)

// Fold simplifies the boolean structure of a predicate: child terms are
// folded first, connectives are recombined in canonical form, and any
// deterministic column-free boolean subexpression is evaluated down to
// TRUE, FALSE or NULL. Subexpressions that cannot be evaluated are left
// untouched.
func Fold(n Node) Node {
	switch x := n.(type) {
	case *Logical:
		terms := make([]Node, len(x.Terms))
		for i, t := range x.Terms {
			terms[i] = Fold(t)
		}
		if x.Op == OpAnd {
			return foldLeaf(CombineConjuncts(terms...))
		}
		return foldLeaf(CombineDisjuncts(terms...))
	case *Not:
		term := Fold(x.Term)
		switch {
		case IsTrue(term):
			return False()
		case IsFalse(term):
			return True()
		case IsNullLiteral(term):
			return &Literal{Type: sqltype.Boolean}
		}
		if inner, ok := term.(*Not); ok {
			return inner.Term
		}
		return foldLeaf(&Not{Term: term})
	default:
		return foldLeaf(n)
	}
}

func foldLeaf(n Node) Node {
	if _, ok := n.(*Literal); ok {
		return n
	}
	if HasColumns(n) || !Deterministic(n) {
		return n
	}
	t, err := Analyze(n)
	if err != nil || t != sqltype.Boolean {
		return n
	}
	v, err := Evaluate(n, nil)
	if err != nil {
		return n
	}
	switch v {
	case true:
		return True()
	case false:
		return False()
	default:
		return &Literal{Type: sqltype.Boolean}
	}
}

package translator

import (
	"github.com/stratumdb/stratum/internal/expr"
	"github.com/stratumdb/stratum/internal/predicate"
)

// ToPredicate renders a tuple domain as a predicate: the conjunction of one
// per-column expression per constrained column, in sorted column order.
func ToPredicate(td predicate.TupleDomain) (expr.Node, error) {
	if td.IsNone() {
		return expr.False(), nil
	}
	var conjuncts []expr.Node
	for _, col := range td.Columns() {
		domain, _ := td.Domain(col)
		n, err := domainToPredicate(col, domain)
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, n)
	}
	return expr.CombineConjuncts(conjuncts...), nil
}

func domainToPredicate(col string, domain predicate.Domain) (expr.Node, error) {
	ref := &expr.ColumnRef{Name: col, Type: domain.Type()}

	if domain.Values().IsNone() {
		if domain.NullAllowed() {
			return &expr.IsNull{Term: ref}, nil
		}
		return expr.False(), nil
	}
	if domain.Values().IsAll() {
		if domain.NullAllowed() {
			return expr.True(), nil
		}
		return &expr.IsNotNull{Term: ref}, nil
	}

	disjuncts, err := valueSetToDisjuncts(ref, domain.Values())
	if err != nil {
		return nil, err
	}
	if domain.NullAllowed() {
		disjuncts = append(disjuncts, &expr.IsNull{Term: ref})
	}
	return expr.CombineDisjuncts(disjuncts...), nil
}

func valueSetToDisjuncts(ref *expr.ColumnRef, vs predicate.ValueSet) ([]expr.Node, error) {
	switch s := vs.(type) {
	case predicate.RangeSet:
		return rangesToDisjuncts(ref, s)
	case predicate.DiscreteSet:
		n, err := discreteToPredicate(ref, s)
		if err != nil {
			return nil, err
		}
		return []expr.Node{n}, nil
	default:
		// AllOrNone never reaches here: ALL and NONE are handled above.
		return nil, predicate.Internalf("cannot render value set %T", vs)
	}
}

func rangesToDisjuncts(ref *expr.ColumnRef, s predicate.RangeSet) ([]expr.Node, error) {
	lit := func(v any) *expr.Literal {
		return &expr.Literal{Type: ref.Type, Value: v}
	}

	var singles []expr.Node
	var disjuncts []expr.Node
	for _, r := range s.Ranges() {
		if v, ok := r.SingleValue(); ok {
			singles = append(singles, lit(v))
			continue
		}

		var conjuncts []expr.Node
		low := r.Low()
		if !low.IsLowerUnbounded() {
			v, _ := low.Value()
			op := expr.OpGE
			if low.Bound() == predicate.BoundAbove {
				op = expr.OpGT
			}
			conjuncts = append(conjuncts, &expr.Comparison{Op: op, Left: ref, Right: lit(v)})
		}
		high := r.High()
		if !high.IsUpperUnbounded() {
			v, _ := high.Value()
			op := expr.OpLE
			if high.Bound() == predicate.BoundBelow {
				op = expr.OpLT
			}
			conjuncts = append(conjuncts, &expr.Comparison{Op: op, Left: ref, Right: lit(v)})
		}

		// Closed bounds on both sides render as BETWEEN.
		if low.Bound() == predicate.BoundExactly && high.Bound() == predicate.BoundExactly &&
			!low.IsLowerUnbounded() && !high.IsUpperUnbounded() {
			lv, _ := low.Value()
			hv, _ := high.Value()
			disjuncts = append(disjuncts, &expr.Between{Value: ref, Min: lit(lv), Max: lit(hv)})
			continue
		}
		disjuncts = append(disjuncts, expr.CombineConjuncts(conjuncts...))
	}

	switch len(singles) {
	case 0:
	case 1:
		disjuncts = append(disjuncts, &expr.Comparison{Op: expr.OpEQ, Left: ref, Right: singles[0]})
	default:
		disjuncts = append(disjuncts, &expr.In{Value: ref, List: singles})
	}
	return disjuncts, nil
}

func discreteToPredicate(ref *expr.ColumnRef, s predicate.DiscreteSet) (expr.Node, error) {
	values := s.Values()
	if len(values) == 0 {
		return nil, predicate.Internalf("empty discrete set should have rendered as ALL or NONE")
	}
	list := make([]expr.Node, len(values))
	for i, v := range values {
		list[i] = &expr.Literal{Type: ref.Type, Value: v}
	}

	var n expr.Node
	if len(list) == 1 {
		n = &expr.Comparison{Op: expr.OpEQ, Left: ref, Right: list[0]}
	} else {
		n = &expr.In{Value: ref, List: list}
	}
	if !s.Inclusive() {
		n = &expr.Not{Term: n}
	}
	return n, nil
}

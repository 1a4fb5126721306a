package translator

import (
	"github.com/stratumdb/stratum/internal/expr"
	"github.com/stratumdb/stratum/internal/predicate"
	"github.com/stratumdb/stratum/internal/sqltype"
)

// ExtractionResult is the outcome of decomposing a predicate: the tuple
// domain it implies and the residue that still must run per row. Conjoining
// the two is equivalent to the original predicate.
type ExtractionResult struct {
	TupleDomain predicate.TupleDomain
	Remaining   expr.Node
}

// FromPredicate extracts the strongest tuple domain implied by the
// predicate.
func FromPredicate(n expr.Node) (ExtractionResult, error) {
	return extract(n, false)
}

// extract walks the predicate carrying a complement flag instead of
// materializing NOT nodes: NOT distributes through the walk via De Morgan,
// and leaves complement their extracted domains directly.
func extract(n expr.Node, complement bool) (ExtractionResult, error) {
	switch x := n.(type) {
	case *expr.Logical:
		return extractLogical(x, complement)
	case *expr.Not:
		return extract(x.Term, !complement)
	case *expr.Comparison:
		return extractComparison(x, complement)
	case *expr.In:
		return extractIn(x, complement)
	case *expr.Between:
		return extractBetween(x, complement)
	case *expr.IsNull:
		return extractNullTest(x.Term, x, true, complement)
	case *expr.IsNotNull:
		return extractNullTest(x.Term, x, false, complement)
	case *expr.Literal:
		return extractLiteral(x, complement)
	default:
		return fallback(n, complement), nil
	}
}

// fallback keeps the expression as residue without constraining any column.
func fallback(n expr.Node, complement bool) ExtractionResult {
	return ExtractionResult{
		TupleDomain: predicate.AllTupleDomain(),
		Remaining:   complementIfNecessary(n, complement),
	}
}

func complementIfNecessary(n expr.Node, complement bool) expr.Node {
	if !complement {
		return n
	}
	return &expr.Not{Term: n}
}

func extractLiteral(l *expr.Literal, complement bool) (ExtractionResult, error) {
	if l.Value == nil {
		// NULL as a predicate admits no row, complemented or not: NOT NULL
		// is still NULL.
		return ExtractionResult{TupleDomain: predicate.NoneTupleDomain(), Remaining: expr.True()}, nil
	}
	b, ok := l.Value.(bool)
	if !ok {
		return ExtractionResult{}, predicate.Internalf("non-boolean literal %s used as predicate", l)
	}
	if b != complement {
		return ExtractionResult{TupleDomain: predicate.AllTupleDomain(), Remaining: expr.True()}, nil
	}
	return ExtractionResult{TupleDomain: predicate.NoneTupleDomain(), Remaining: expr.True()}, nil
}

func extractLogical(l *expr.Logical, complement bool) (ExtractionResult, error) {
	if len(l.Terms) == 0 {
		return ExtractionResult{}, predicate.Internalf("%s with no terms", l.Op)
	}
	op := l.Op
	if complement {
		if op == expr.OpAnd {
			op = expr.OpOr
		} else {
			op = expr.OpAnd
		}
	}

	results := make([]ExtractionResult, len(l.Terms))
	for i, t := range l.Terms {
		r, err := extract(t, complement)
		if err != nil {
			return ExtractionResult{}, err
		}
		results[i] = r
	}

	if op == expr.OpAnd {
		td := results[0].TupleDomain
		remainders := make([]expr.Node, len(results))
		remainders[0] = results[0].Remaining
		for i, r := range results[1:] {
			var err error
			td, err = predicate.TupleIntersect(td, r.TupleDomain)
			if err != nil {
				return ExtractionResult{}, err
			}
			remainders[i+1] = r.Remaining
		}
		return ExtractionResult{TupleDomain: td, Remaining: expr.CombineConjuncts(remainders...)}, nil
	}

	tds := make([]predicate.TupleDomain, len(results))
	for i, r := range results {
		tds[i] = r.TupleDomain
	}
	union, err := predicate.ColumnWiseUnion(tds[0], tds[1:]...)
	if err != nil {
		return ExtractionResult{}, err
	}

	// The column-wise union over-approximates, so by default the whole
	// original expression stays as residue. When every branch left the same
	// deterministic residue, the union is exact in two cases: all branches
	// constrain the same single column, or one branch's domain contains all
	// the others.
	remaining := complementIfNecessary(l, complement)
	if shared, ok := sharedResidue(results); ok {
		exact, err := unionIsExact(tds)
		if err != nil {
			return ExtractionResult{}, err
		}
		if exact {
			remaining = shared
		}
	}
	return ExtractionResult{TupleDomain: union, Remaining: remaining}, nil
}

func sharedResidue(results []ExtractionResult) (expr.Node, bool) {
	first := results[0].Remaining
	if !expr.Deterministic(first) {
		return nil, false
	}
	for _, r := range results[1:] {
		if !expr.Equal(first, r.Remaining) {
			return nil, false
		}
	}
	return first, true
}

func unionIsExact(tds []predicate.TupleDomain) (bool, error) {
	// Same single column on every side.
	single := true
	var col string
	for i, td := range tds {
		cols := td.Columns()
		if td.IsNone() || len(cols) != 1 {
			single = false
			break
		}
		if i == 0 {
			col = cols[0]
		} else if cols[0] != col {
			single = false
			break
		}
	}
	if single {
		return true, nil
	}

	// One side contains all the others.
	for i := range tds {
		superset := true
		for j := range tds {
			if i == j {
				continue
			}
			contains, err := predicate.TupleContains(tds[i], tds[j])
			if err != nil {
				return false, err
			}
			if !contains {
				superset = false
				break
			}
		}
		if superset {
			return true, nil
		}
	}
	return false, nil
}

func extractIn(in *expr.In, complement bool) (ExtractionResult, error) {
	if len(in.List) == 0 {
		return ExtractionResult{}, predicate.Internalf("IN predicate with empty list")
	}
	disjuncts := make([]expr.Node, len(in.List))
	for i, item := range in.List {
		disjuncts[i] = &expr.Comparison{Op: expr.OpEQ, Left: in.Value, Right: item}
	}
	if len(disjuncts) == 1 {
		return extract(disjuncts[0], complement)
	}
	return extract(&expr.Logical{Op: expr.OpOr, Terms: disjuncts}, complement)
}

func extractBetween(b *expr.Between, complement bool) (ExtractionResult, error) {
	lower := &expr.Comparison{Op: expr.OpGE, Left: b.Value, Right: b.Min}
	upper := &expr.Comparison{Op: expr.OpLE, Left: b.Value, Right: b.Max}
	return extract(&expr.Logical{Op: expr.OpAnd, Terms: []expr.Node{lower, upper}}, complement)
}

func extractNullTest(term expr.Node, original expr.Node, isNull, complement bool) (ExtractionResult, error) {
	col, ok := term.(*expr.ColumnRef)
	if !ok {
		return fallback(original, complement), nil
	}
	wantNull := isNull != complement
	var domain predicate.Domain
	if wantNull {
		domain = predicate.OnlyNullDomain(col.Type)
	} else {
		domain = predicate.NotNullDomain(col.Type)
	}
	return ExtractionResult{
		TupleDomain: predicate.WithColumnDomains(map[string]predicate.Domain{col.Name: domain}),
		Remaining:   expr.True(),
	}, nil
}

func extractComparison(c *expr.Comparison, complement bool) (ExtractionResult, error) {
	norm, ok := normalizeComparison(c)
	if !ok {
		return fallback(c, complement), nil
	}

	// A NULL operand poisons every comparison except IS DISTINCT FROM:
	// the predicate admits no row regardless of complement.
	if norm.value == nil {
		if norm.op == expr.OpDistinct {
			domain := predicate.NotNullDomain(norm.column.Type)
			if complement {
				var err error
				domain, err = predicate.DomainComplement(domain)
				if err != nil {
					return ExtractionResult{}, err
				}
			}
			return ExtractionResult{
				TupleDomain: predicate.WithColumnDomains(map[string]predicate.Domain{norm.column.Name: domain}),
				Remaining:   expr.True(),
			}, nil
		}
		return ExtractionResult{TupleDomain: predicate.NoneTupleDomain(), Remaining: expr.True()}, nil
	}

	colType := norm.column.Type
	switch {
	case norm.valueType == colType:
		return comparisonExtraction(norm.op, norm.column, norm.value, complement)
	case sqltype.CanCoerce(norm.valueType, colType):
		coerced, err := sqltype.Coerce(norm.valueType, colType, norm.value)
		if err != nil {
			return ExtractionResult{}, predicate.Internalf("coerce comparison literal: %v", err)
		}
		return comparisonExtraction(norm.op, norm.column, coerced, complement)
	case norm.valueType == sqltype.Double && sqltype.Integral(colType):
		rewritten, err := rewriteDoubleOnIntegral(norm.op, norm.column, norm.value.(float64))
		if err != nil {
			return ExtractionResult{}, err
		}
		return extract(rewritten, complement)
	default:
		return fallback(c, complement), nil
	}
}

// normalized is a comparison reshaped to "column op literal", with the
// operator mirrored when the input had the literal on the left.
type normalized struct {
	op     expr.CompareOp
	column *expr.ColumnRef
	value  any
	// valueType is the literal's declared type; sqltype.Unknown for NULL.
	valueType sqltype.Type
}

func normalizeComparison(c *expr.Comparison) (normalized, bool) {
	left := foldOperand(c.Left)
	right := foldOperand(c.Right)
	if col, ok := left.(*expr.ColumnRef); ok {
		if lit, ok := right.(*expr.Literal); ok {
			return normalized{op: c.Op, column: col, value: lit.Value, valueType: lit.Type}, true
		}
	}
	if lit, ok := left.(*expr.Literal); ok {
		if col, ok := right.(*expr.ColumnRef); ok {
			return normalized{op: c.Op.Flip(), column: col, value: lit.Value, valueType: lit.Type}, true
		}
	}
	return normalized{}, false
}

// foldOperand reduces a deterministic column-free operand to a typed literal,
// so comparisons like age > abs(-5) still normalize to column-op-literal.
// Operands the evaluator cannot reduce pass through unchanged.
func foldOperand(n expr.Node) expr.Node {
	switch n.(type) {
	case *expr.Literal, *expr.ColumnRef:
		return n
	}
	if expr.HasColumns(n) || !expr.Deterministic(n) {
		return n
	}
	t, err := expr.Analyze(n)
	if err != nil {
		return n
	}
	v, err := expr.Evaluate(n, nil)
	if err != nil {
		return n
	}
	if v != nil {
		if err := t.ValidateValue(v); err != nil {
			return n
		}
	}
	return &expr.Literal{Type: t, Value: v}
}

// comparisonExtraction maps a column-vs-value comparison onto a domain. The
// value is already in the column's native representation.
func comparisonExtraction(op expr.CompareOp, col *expr.ColumnRef, value any, complement bool) (ExtractionResult, error) {
	t := col.Type
	var domain predicate.Domain
	switch op {
	case expr.OpEQ, expr.OpNE:
		vs, err := predicate.OfValues(t, value)
		if err != nil {
			return ExtractionResult{}, err
		}
		if op == expr.OpNE {
			vs, err = predicate.Complement(vs)
			if err != nil {
				return ExtractionResult{}, err
			}
		}
		vs, err = complementSetIfNecessary(vs, complement)
		if err != nil {
			return ExtractionResult{}, err
		}
		domain = predicate.NewDomain(vs, false)

	case expr.OpLT, expr.OpLE, expr.OpGT, expr.OpGE:
		if !t.Orderable() {
			return fallback(&expr.Comparison{Op: op, Left: col, Right: &expr.Literal{Type: t, Value: value}}, complement), nil
		}
		r, err := orderedRange(op, t, value)
		if err != nil {
			return ExtractionResult{}, err
		}
		vs, err := predicate.OfRanges(t, r)
		if err != nil {
			return ExtractionResult{}, err
		}
		vs, err = complementSetIfNecessary(vs, complement)
		if err != nil {
			return ExtractionResult{}, err
		}
		domain = predicate.NewDomain(vs, false)

	case expr.OpDistinct:
		// Null-safe: the complement applies to the whole domain, null flag
		// included.
		vs, err := predicate.OfValues(t, value)
		if err != nil {
			return ExtractionResult{}, err
		}
		vs, err = predicate.Complement(vs)
		if err != nil {
			return ExtractionResult{}, err
		}
		domain = predicate.NewDomain(vs, true)
		if complement {
			domain, err = predicate.DomainComplement(domain)
			if err != nil {
				return ExtractionResult{}, err
			}
		}

	default:
		return ExtractionResult{}, predicate.Internalf("unknown comparison operator %s", op)
	}

	return ExtractionResult{
		TupleDomain: predicate.WithColumnDomains(map[string]predicate.Domain{col.Name: domain}),
		Remaining:   expr.True(),
	}, nil
}

func complementSetIfNecessary(vs predicate.ValueSet, complement bool) (predicate.ValueSet, error) {
	if !complement {
		return vs, nil
	}
	return predicate.Complement(vs)
}

func orderedRange(op expr.CompareOp, t sqltype.Type, value any) (predicate.Range, error) {
	switch op {
	case expr.OpLT:
		return predicate.LessThanRange(t, value)
	case expr.OpLE:
		return predicate.LessThanOrEqualRange(t, value)
	case expr.OpGT:
		return predicate.GreaterThanRange(t, value)
	case expr.OpGE:
		return predicate.GreaterThanOrEqualRange(t, value)
	default:
		return predicate.Range{}, predicate.Internalf("operator %s has no range form", op)
	}
}

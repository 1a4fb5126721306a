// Package pushdown executes tuple domains against a SQLite table: the domain
// becomes a parameterized WHERE clause, and the remaining expression from
// extraction is re-applied row by row. Together the two reproduce the
// original predicate exactly.
package pushdown

import (
	"fmt"
	"strings"

	"github.com/stratumdb/stratum/internal/predicate"
)

// RenderWhere renders a tuple domain as a SQL filter with bound parameters.
// Values are never interpolated into the clause text. An unconstrained domain
// renders as the empty clause; a NONE domain renders as a contradiction.
func RenderWhere(td predicate.TupleDomain) (string, []any, error) {
	if td.IsNone() {
		return "0 = 1", nil, nil
	}

	var (
		conjuncts []string
		args      []any
	)
	for _, col := range td.Columns() {
		d, _ := td.Domain(col)
		clause, colArgs, err := domainClause(col, d)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", col, err)
		}
		if clause == "" {
			continue
		}
		conjuncts = append(conjuncts, clause)
		args = append(args, colArgs...)
	}
	return strings.Join(conjuncts, " AND "), args, nil
}

func domainClause(col string, d predicate.Domain) (string, []any, error) {
	ident := quoteIdent(col)
	vs := d.Values()

	if vs.IsNone() {
		if d.NullAllowed() {
			return ident + " IS NULL", nil, nil
		}
		return "0 = 1", nil, nil
	}
	if vs.IsAll() {
		if d.NullAllowed() {
			return "", nil, nil
		}
		return ident + " IS NOT NULL", nil, nil
	}

	clause, args, err := valueSetClause(ident, vs)
	if err != nil {
		return "", nil, err
	}
	if d.NullAllowed() {
		return "(" + clause + " OR " + ident + " IS NULL)", args, nil
	}
	return "(" + clause + ")", args, nil
}

func valueSetClause(ident string, vs predicate.ValueSet) (string, []any, error) {
	switch s := vs.(type) {
	case predicate.RangeSet:
		return rangeSetClause(ident, s)
	case predicate.DiscreteSet:
		return discreteSetClause(ident, s)
	default:
		return "", nil, fmt.Errorf("cannot render value set %T", vs)
	}
}

func rangeSetClause(ident string, s predicate.RangeSet) (string, []any, error) {
	var (
		disjuncts []string
		args      []any
	)
	for _, r := range s.Ranges() {
		if v, ok := r.SingleValue(); ok {
			disjuncts = append(disjuncts, ident+" = ?")
			args = append(args, v)
			continue
		}
		var bounds []string
		if v, ok := r.Low().Value(); ok {
			op := ">="
			if r.Low().Bound() == predicate.BoundAbove {
				op = ">"
			}
			bounds = append(bounds, ident+" "+op+" ?")
			args = append(args, v)
		}
		if v, ok := r.High().Value(); ok {
			op := "<="
			if r.High().Bound() == predicate.BoundBelow {
				op = "<"
			}
			bounds = append(bounds, ident+" "+op+" ?")
			args = append(args, v)
		}
		if len(bounds) == 0 {
			// A value-less range is universal; the set would be ALL.
			return "", nil, fmt.Errorf("universal range inside a range set")
		}
		disjuncts = append(disjuncts, "("+strings.Join(bounds, " AND ")+")")
	}
	return strings.Join(disjuncts, " OR "), args, nil
}

func discreteSetClause(ident string, s predicate.DiscreteSet) (string, []any, error) {
	values := s.Values()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	op := "IN"
	if !s.Inclusive() {
		op = "NOT IN"
	}
	args := make([]any, 0, len(values))
	args = append(args, values...)
	return fmt.Sprintf("%s %s (%s)", ident, op, placeholders), args, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

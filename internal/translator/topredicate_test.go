package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/internal/expr"
	"github.com/stratumdb/stratum/internal/predicate"
	"github.com/stratumdb/stratum/internal/sqltype"
)

func TestToPredicateAllAndNone(t *testing.T) {
	n, err := ToPredicate(predicate.AllTupleDomain())
	require.NoError(t, err)
	assert.True(t, expr.IsTrue(n))

	n, err = ToPredicate(predicate.NoneTupleDomain())
	require.NoError(t, err)
	assert.True(t, expr.IsFalse(n))
}

func TestToPredicateRendering(t *testing.T) {
	single, err := predicate.SingleValueDomain(sqltype.Varchar, "bob")
	require.NoError(t, err)
	gt5, err := predicate.GreaterThanRange(sqltype.Bigint, int64(5))
	require.NoError(t, err)
	gt5Set, err := predicate.OfRanges(sqltype.Bigint, gt5)
	require.NoError(t, err)

	tests := []struct {
		name string
		td   predicate.TupleDomain
		want string
	}{
		{
			"single value",
			predicate.WithColumnDomains(map[string]predicate.Domain{"name": single}),
			"(name = 'bob')",
		},
		{
			"open range",
			predicate.WithColumnDomains(map[string]predicate.Domain{
				"age": predicate.NewDomain(gt5Set, false),
			}),
			"(age > 5)",
		},
		{
			"range or null",
			predicate.WithColumnDomains(map[string]predicate.Domain{
				"age": predicate.NewDomain(gt5Set, true),
			}),
			"((age > 5) OR (age IS NULL))",
		},
		{
			"only null",
			predicate.WithColumnDomains(map[string]predicate.Domain{
				"age": predicate.OnlyNullDomain(sqltype.Bigint),
			}),
			"(age IS NULL)",
		},
		{
			"not null",
			predicate.WithColumnDomains(map[string]predicate.Domain{
				"age": predicate.NotNullDomain(sqltype.Bigint),
			}),
			"(age IS NOT NULL)",
		},
		{
			"columns in sorted order",
			predicate.WithColumnDomains(map[string]predicate.Domain{
				"name": single,
				"age":  predicate.NewDomain(gt5Set, false),
			}),
			"((age > 5) AND (name = 'bob'))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ToPredicate(tt.td)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestToPredicateDiscreteSets(t *testing.T) {
	vs, err := predicate.OfValues(sqltype.JSON, `{"a":1}`, `{"b":2}`)
	require.NoError(t, err)
	td := predicate.WithColumnDomains(map[string]predicate.Domain{
		"doc": predicate.NewDomain(vs, false),
	})
	n, err := ToPredicate(td)
	require.NoError(t, err)
	assert.Equal(t, `(doc IN ('{"a":1}', '{"b":2}'))`, n.String())

	inverse, err := predicate.Complement(vs)
	require.NoError(t, err)
	td = predicate.WithColumnDomains(map[string]predicate.Domain{
		"doc": predicate.NewDomain(inverse, false),
	})
	n, err = ToPredicate(td)
	require.NoError(t, err)
	assert.Equal(t, `(NOT (doc IN ('{"a":1}', '{"b":2}')))`, n.String())
}

// TestRoundTripEquivalence checks the core guarantee: conjoining the
// extracted domain with the remaining expression filters exactly the rows
// the original predicate filters.
func TestRoundTripEquivalence(t *testing.T) {
	predicates := []expr.Node{
		cmp(expr.OpGT, ageCol, intLit(5)),
		cmp(expr.OpNE, ageCol, intLit(5)),
		cmp(expr.OpDistinct, ageCol, intLit(5)),
		&expr.Not{Term: cmp(expr.OpDistinct, ageCol, intLit(5))},
		cmp(expr.OpGT, ageCol, dblLit(5.5)),
		cmp(expr.OpGE, ageCol, dblLit(5.5)),
		cmp(expr.OpLT, ageCol, dblLit(5.5)),
		cmp(expr.OpLE, ageCol, dblLit(5.5)),
		cmp(expr.OpEQ, ageCol, dblLit(5.5)),
		cmp(expr.OpNE, ageCol, dblLit(5.5)),
		cmp(expr.OpDistinct, ageCol, dblLit(5.5)),
		cmp(expr.OpEQ, ageCol, dblLit(5.0)),
		cmp(expr.OpLT, ageCol, dblLit(1e300)),
		cmp(expr.OpGT, ageCol, dblLit(1e300)),
		cmp(expr.OpEQ, ageCol, expr.Null()),
		&expr.Not{Term: cmp(expr.OpEQ, ageCol, expr.Null())},
		cmp(expr.OpDistinct, ageCol, expr.Null()),
		&expr.IsNull{Term: ageCol},
		&expr.IsNotNull{Term: ageCol},
		&expr.Between{Value: ageCol, Min: intLit(1), Max: intLit(9)},
		&expr.Not{Term: &expr.Between{Value: ageCol, Min: intLit(1), Max: intLit(9)}},
		&expr.In{Value: nameCol, List: []expr.Node{strLit("alice"), strLit("bob")}},
		&expr.Not{Term: &expr.In{Value: nameCol, List: []expr.Node{strLit("alice"), strLit("bob")}}},
		&expr.In{Value: ageCol, List: []expr.Node{intLit(5), expr.Null()}},
		&expr.Logical{Op: expr.OpAnd, Terms: []expr.Node{
			cmp(expr.OpGT, ageCol, intLit(5)),
			cmp(expr.OpLE, scoreCol, dblLit(3.5)),
		}},
		&expr.Logical{Op: expr.OpOr, Terms: []expr.Node{
			cmp(expr.OpGT, ageCol, intLit(10)),
			cmp(expr.OpGT, ageCol, intLit(5)),
		}},
		&expr.Logical{Op: expr.OpOr, Terms: []expr.Node{
			cmp(expr.OpGT, ageCol, intLit(5)),
			cmp(expr.OpLT, scoreCol, dblLit(3.5)),
		}},
		&expr.Not{Term: &expr.Logical{Op: expr.OpOr, Terms: []expr.Node{
			cmp(expr.OpGT, ageCol, intLit(5)),
			cmp(expr.OpLT, scoreCol, dblLit(3.5)),
		}}},
	}

	ages := []any{nil, int64(-3), int64(0), int64(1), int64(5), int64(6), int64(9), int64(10), int64(11)}
	scores := []any{nil, 0.5, 3.5, 5.5}
	names := []any{nil, "alice", "bob", "zed"}

	var rows []map[string]any
	for _, age := range ages {
		for _, score := range scores {
			for _, name := range names {
				rows = append(rows, map[string]any{
					"age": age, "score": score, "name": name, "flag": true,
				})
			}
		}
	}

	for _, p := range predicates {
		r := extractOne(t, p)
		domainPred, err := ToPredicate(r.TupleDomain)
		require.NoError(t, err)
		combined := expr.CombineConjuncts(domainPred, r.Remaining)

		for _, row := range rows {
			want, err := expr.Evaluate(p, row)
			require.NoError(t, err)
			got, err := expr.Evaluate(combined, row)
			require.NoError(t, err)
			assert.Equal(t, want == true, got == true,
				"predicate %s on row %v: original %v, extracted %s gave %v",
				p, row, want, combined, got)
		}
	}
}

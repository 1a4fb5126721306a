package translator

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/internal/expr"
)

// TestExtractionGolden snapshots the full translation pipeline: the input
// predicate, the extracted domain rendered back as a predicate, and the
// remaining expression.
func TestExtractionGolden(t *testing.T) {
	tests := []struct {
		name string
		node expr.Node
	}{
		{"gt_double", cmp(expr.OpGT, ageCol, dblLit(5.5))},
		{"ge_double", cmp(expr.OpGE, ageCol, dblLit(5.5))},
		{"eq_double", cmp(expr.OpEQ, ageCol, dblLit(5.5))},
		{"ne_double", cmp(expr.OpNE, ageCol, dblLit(5.5))},
		{"or_superset", &expr.Logical{Op: expr.OpOr, Terms: []expr.Node{
			cmp(expr.OpGT, ageCol, intLit(10)),
			cmp(expr.OpGT, ageCol, intLit(5)),
		}}},
		{"or_cross_column", &expr.Logical{Op: expr.OpOr, Terms: []expr.Node{
			cmp(expr.OpGT, ageCol, intLit(5)),
			cmp(expr.OpLT, scoreCol, dblLit(3.5)),
		}}},
		{"in_list", &expr.In{Value: nameCol, List: []expr.Node{strLit("alice"), strLit("bob")}}},
		{"not_in", &expr.Not{Term: &expr.In{Value: nameCol, List: []expr.Node{strLit("alice"), strLit("bob")}}}},
		{"is_null", &expr.IsNull{Term: ageCol}},
		{"distinct_null", cmp(expr.OpDistinct, ageCol, expr.Null())},
		{"distinct_value", cmp(expr.OpDistinct, ageCol, intLit(5))},
		{"between", &expr.Between{Value: ageCol, Min: intLit(1), Max: intLit(9)}},
		{"not_between", &expr.Not{Term: &expr.Between{Value: ageCol, Min: intLit(1), Max: intLit(9)}}},
		{"multi_column_and", &expr.Logical{Op: expr.OpAnd, Terms: []expr.Node{
			cmp(expr.OpGT, ageCol, intLit(5)),
			cmp(expr.OpEQ, nameCol, strLit("bob")),
		}}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := FromPredicate(tt.node)
			require.NoError(t, err)
			rendered, err := ToPredicate(r.TupleDomain)
			require.NoError(t, err)

			var buf bytes.Buffer
			buf.WriteString("predicate: " + tt.node.String() + "\n")
			buf.WriteString("domain:    " + rendered.String() + "\n")
			buf.WriteString("remaining: " + r.Remaining.String() + "\n")
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

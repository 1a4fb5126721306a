package typesig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		input      string
		base       string
		parameters int
		canonical  string
	}{
		{"bigint", "bigint", 0, "bigint"},
		{"BIGINT", "BIGINT", 0, "BIGINT"},
		{"array(bigint)", "array", 1, "array(bigint)"},
		{"map(varchar,bigint)", "map", 2, "map(varchar,bigint)"},
		{"map(varchar,array(bigint))", "map", 2, "map(varchar,array(bigint))"},
		{"varchar(255)", "varchar", 1, "varchar(255)"},
		{"decimal(10,2)", "decimal", 2, "decimal(10,2)"},
		{"array(map(varchar,decimal(10,2)))", "array", 1, "array(map(varchar,decimal(10,2)))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sig, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.base, sig.Base())
			assert.Len(t, sig.Parameters(), tt.parameters)
			assert.Equal(t, tt.canonical, sig.String())

			reparsed, err := Parse(sig.String())
			require.NoError(t, err)
			assert.True(t, sig.Equal(reparsed), "canonical form must round-trip")
		})
	}
}

func TestParseLiteralParameters(t *testing.T) {
	sig, err := Parse("decimal(10,2)")
	require.NoError(t, err)

	params := sig.Parameters()
	require.Len(t, params, 2)

	p, ok := params[0].Literal()
	require.True(t, ok)
	assert.Equal(t, int64(10), p)

	s, ok := params[1].Literal()
	require.True(t, ok)
	assert.Equal(t, int64(2), s)
}

func TestParseLegacyRow(t *testing.T) {
	tests := []struct {
		input     string
		fields    []string
		canonical string
	}{
		{
			input:     "row<bigint,varchar>('a','b')",
			fields:    []string{"a", "b"},
			canonical: "row<bigint,varchar>('a','b')",
		},
		{
			input:     "ROW<bigint>('x')",
			fields:    []string{"x"},
			canonical: "row<bigint>('x')",
		},
		{
			input:     "row<array(bigint),map(varchar,double)>('nums','tags')",
			fields:    []string{"nums", "tags"},
			canonical: "row<array(bigint),map(varchar,double)>('nums','tags')",
		},
		{
			input:     "row<bigint,varchar>",
			fields:    []string{"field0", "field1"},
			canonical: "row<bigint,varchar>('field0','field1')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sig, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, RowBase, sig.Base())

			params := sig.Parameters()
			require.Len(t, params, len(tt.fields))
			for i, want := range tt.fields {
				name, _, ok := params[i].NamedTypeSignature()
				require.True(t, ok)
				assert.Equal(t, want, name)
			}
			assert.Equal(t, tt.canonical, sig.String())

			reparsed, err := Parse(sig.String())
			require.NoError(t, err)
			assert.True(t, sig.Equal(reparsed))
		})
	}
}

func TestParseWithVariables(t *testing.T) {
	vars := map[string]bool{"p": true, "s": true}
	sig, err := ParseWithVariables("decimal(p,s)", vars)
	require.NoError(t, err)
	assert.True(t, sig.Calculated())

	params := sig.Parameters()
	require.Len(t, params, 2)
	name, ok := params[0].Variable()
	require.True(t, ok)
	assert.Equal(t, "p", name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed paren", "map(varchar"},
		{"unclosed angle", "row<bigint"},
		{"empty base", "(bigint)"},
		{"dangling close", "bigint)"},
		{"empty parameter", "map(,bigint)"},
		{"bad literal", "varchar(12abc)"},
		{"unquoted row field", "row<bigint>(a)"},
		{"row stray text before names", "row<bigint>x('a')"},
		{"row field count mismatch trailing text", "row<bigint,varchar>('a','b')x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.input, pe.Signature)
		})
	}
}

func TestBindParameters(t *testing.T) {
	bigint, err := Parse("bigint")
	require.NoError(t, err)

	sig, err := ParseWithVariables("array(T)", map[string]bool{})
	require.NoError(t, err)

	bound, err := sig.BindParameters(map[string]TypeSignature{"T": bigint})
	require.NoError(t, err)
	assert.Equal(t, "array(bigint)", bound.String())

	// A parameterized base cannot stand in for a type variable.
	parameterized, err := Parse("T(10)")
	require.NoError(t, err)
	_, err = parameterized.BindParameters(map[string]TypeSignature{"T": bigint})
	require.Error(t, err)
}

func TestEqualIsCaseInsensitiveOnBase(t *testing.T) {
	a, err := Parse("map(varchar,bigint)")
	require.NoError(t, err)
	b, err := Parse("MAP(varchar,bigint)")
	require.NoError(t, err)
	c, err := Parse("map(varchar,double)")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestNewRowGeneratesFieldNames(t *testing.T) {
	bigint, err := Parse("bigint")
	require.NoError(t, err)
	varchar, err := Parse("varchar")
	require.NoError(t, err)

	row, err := NewRow([]TypeSignature{bigint, varchar}, nil)
	require.NoError(t, err)
	assert.Equal(t, "row<bigint,varchar>('field0','field1')", row.String())

	_, err = NewRow([]TypeSignature{bigint, varchar}, []string{"only_one"})
	require.Error(t, err)
}

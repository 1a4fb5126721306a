package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/internal/sqltype"
)

func intRanges(t *testing.T, ranges ...Range) ValueSet {
	t.Helper()
	vs, err := OfRanges(sqltype.Bigint, ranges...)
	require.NoError(t, err)
	return vs
}

func intValues(t *testing.T, values ...int64) ValueSet {
	t.Helper()
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	vs, err := OfValues(sqltype.Bigint, vals...)
	require.NoError(t, err)
	return vs
}

func rangeBetween(t *testing.T, low, high int64) Range {
	t.Helper()
	r, err := NewRange(exactly(t, low), exactly(t, high))
	require.NoError(t, err)
	return r
}

func TestValueSetShapes(t *testing.T) {
	assert.IsType(t, RangeSet{}, AllValues(sqltype.Bigint))
	assert.IsType(t, RangeSet{}, AllValues(sqltype.Varchar))
	assert.IsType(t, DiscreteSet{}, AllValues(sqltype.JSON))

	assert.True(t, AllValues(sqltype.Bigint).IsAll())
	assert.True(t, NoneValues(sqltype.Bigint).IsNone())
	assert.True(t, AllValues(sqltype.JSON).IsAll())
	assert.True(t, NoneValues(sqltype.JSON).IsNone())
}

func TestRangeSetNormalization(t *testing.T) {
	// Overlapping and adjacent ranges merge, disjoint ones stay apart,
	// regardless of input order.
	vs := intRanges(t,
		rangeBetween(t, 7, 9),
		rangeBetween(t, 1, 3),
		rangeBetween(t, 2, 5),
	)

	rs, ok := vs.(RangeSet)
	require.True(t, ok)
	require.Len(t, rs.Ranges(), 2)
	assert.True(t, rs.Ranges()[0].Equal(rangeBetween(t, 1, 5)))
	assert.True(t, rs.Ranges()[1].Equal(rangeBetween(t, 7, 9)))
}

func TestRangeSetAdjacentMerge(t *testing.T) {
	// [1, 5) and [5, 9] touch with no gap, so they become [1, 9].
	left, err := NewRange(exactly(t, 1), below(t, 5))
	require.NoError(t, err)
	right := rangeBetween(t, 5, 9)

	vs := intRanges(t, left, right)
	rs := vs.(RangeSet)
	require.Len(t, rs.Ranges(), 1)
	assert.True(t, rs.Ranges()[0].Equal(rangeBetween(t, 1, 9)))
}

func TestRangeSetContainsValue(t *testing.T) {
	vs := intRanges(t, rangeBetween(t, 1, 3), rangeBetween(t, 7, 9))

	for v, want := range map[int64]bool{0: false, 1: true, 3: true, 5: false, 8: true, 10: false} {
		got, err := vs.ContainsValue(v)
		require.NoError(t, err)
		assert.Equal(t, want, got, "value %d", v)
	}
}

func TestRangeSetComplementInvolution(t *testing.T) {
	vs := intRanges(t, rangeBetween(t, 1, 3), rangeBetween(t, 7, 9))

	c, err := Complement(vs)
	require.NoError(t, err)

	// The complement covers the three gaps.
	for v, want := range map[int64]bool{0: true, 2: false, 5: true, 8: false, 100: true} {
		got, err := c.ContainsValue(v)
		require.NoError(t, err)
		assert.Equal(t, want, got, "value %d", v)
	}

	cc, err := Complement(c)
	require.NoError(t, err)
	assert.True(t, ValueSetsEqual(vs, cc))
}

func TestComplementAllNone(t *testing.T) {
	c, err := Complement(AllValues(sqltype.Bigint))
	require.NoError(t, err)
	assert.True(t, c.IsNone())

	c, err = Complement(NoneValues(sqltype.JSON))
	require.NoError(t, err)
	assert.True(t, c.IsAll())
}

func TestRangeSetIntersectAndUnion(t *testing.T) {
	a := intRanges(t, rangeBetween(t, 1, 5), rangeBetween(t, 10, 20))
	b := intRanges(t, rangeBetween(t, 3, 12))

	x, err := Intersect(a, b)
	require.NoError(t, err)
	want := intRanges(t, rangeBetween(t, 3, 5), rangeBetween(t, 10, 12))
	assert.True(t, ValueSetsEqual(x, want))

	u, err := Union(a, b)
	require.NoError(t, err)
	want = intRanges(t, rangeBetween(t, 1, 20))
	assert.True(t, ValueSetsEqual(u, want))
}

func TestDeMorganThroughComplement(t *testing.T) {
	a := intRanges(t, rangeBetween(t, 1, 5), rangeBetween(t, 10, 20))
	b := intValues(t, 3, 11, 40)

	// complement(a ∪ b) == complement(a) ∩ complement(b)
	u, err := Union(a, b)
	require.NoError(t, err)
	left, err := Complement(u)
	require.NoError(t, err)

	ca, err := Complement(a)
	require.NoError(t, err)
	cb, err := Complement(b)
	require.NoError(t, err)
	right, err := Intersect(ca, cb)
	require.NoError(t, err)

	assert.True(t, ValueSetsEqual(left, right))
}

func TestOfValuesSingleAndDedup(t *testing.T) {
	vs := intValues(t, 5, 5, 5)
	assert.True(t, vs.IsSingleValue())
	v, ok := vs.SingleValue()
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)

	empty, err := OfValues(sqltype.Bigint)
	require.NoError(t, err)
	assert.True(t, empty.IsNone())
}

func TestContainsSet(t *testing.T) {
	wide := intRanges(t, rangeBetween(t, 0, 100))
	narrow := intValues(t, 5, 50)

	contains, err := ContainsSet(wide, narrow)
	require.NoError(t, err)
	assert.True(t, contains)

	contains, err = ContainsSet(narrow, wide)
	require.NoError(t, err)
	assert.False(t, contains)
}

func jsonValues(t *testing.T, values ...string) DiscreteSet {
	t.Helper()
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	vs, err := OfValues(sqltype.JSON, vals...)
	require.NoError(t, err)
	return vs.(DiscreteSet)
}

func TestDiscreteSetMembership(t *testing.T) {
	vs := jsonValues(t, `{"a":1}`, `{"b":2}`)

	got, err := vs.ContainsValue(`{"a":1}`)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = vs.ContainsValue(`{"c":3}`)
	require.NoError(t, err)
	assert.False(t, got)

	c, err := Complement(vs)
	require.NoError(t, err)
	got, err = c.ContainsValue(`{"c":3}`)
	require.NoError(t, err)
	assert.True(t, got)
	got, err = c.ContainsValue(`{"a":1}`)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestDiscreteSetUnionIntersect(t *testing.T) {
	ab := jsonValues(t, `"a"`, `"b"`)
	bc := jsonValues(t, `"b"`, `"c"`)
	notAB, err := Complement(ab)
	require.NoError(t, err)

	u, err := Union(ab, bc)
	require.NoError(t, err)
	assert.True(t, ValueSetsEqual(u, jsonValues(t, `"a"`, `"b"`, `"c"`)))

	x, err := Intersect(ab, bc)
	require.NoError(t, err)
	assert.True(t, ValueSetsEqual(x, jsonValues(t, `"b"`)))

	// whitelist ∪ blacklist re-admits the whitelisted values
	u, err = Union(bc, notAB)
	require.NoError(t, err)
	got, err := u.ContainsValue(`"a"`)
	require.NoError(t, err)
	assert.False(t, got)
	for _, v := range []string{`"b"`, `"c"`, `"z"`} {
		got, err = u.ContainsValue(v)
		require.NoError(t, err)
		assert.True(t, got, v)
	}

	// whitelist ∩ blacklist drops the blacklisted values
	x, err = Intersect(bc, notAB)
	require.NoError(t, err)
	assert.True(t, ValueSetsEqual(x, jsonValues(t, `"c"`)))
}

func TestValueSetMismatches(t *testing.T) {
	_, err := Union(AllValues(sqltype.Bigint), AllValues(sqltype.Double))
	require.Error(t, err)
	assert.True(t, IsInternal(err))

	_, err = Intersect(AllValues(sqltype.Bigint), AllValues(sqltype.JSON))
	require.Error(t, err)
	assert.True(t, IsInternal(err))
}

package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/internal/sqltype"
)

func exactly(t *testing.T, v int64) Marker {
	t.Helper()
	m, err := Exactly(sqltype.Bigint, v)
	require.NoError(t, err)
	return m
}

func above(t *testing.T, v int64) Marker {
	t.Helper()
	m, err := Above(sqltype.Bigint, v)
	require.NoError(t, err)
	return m
}

func below(t *testing.T, v int64) Marker {
	t.Helper()
	m, err := Below(sqltype.Bigint, v)
	require.NoError(t, err)
	return m
}

func TestMarkerOrdering(t *testing.T) {
	// For a fixed value v: BELOW(v) < EXACTLY(v) < ABOVE(v), and everything
	// between values follows the value order.
	ordered := []Marker{
		LowerUnbounded(sqltype.Bigint),
		below(t, 1),
		exactly(t, 1),
		above(t, 1),
		below(t, 2),
		exactly(t, 2),
		UpperUnbounded(sqltype.Bigint),
	}

	for i := range ordered {
		for j := range ordered {
			c, err := ordered[i].Compare(ordered[j])
			require.NoError(t, err)
			switch {
			case i < j:
				assert.Negative(t, c, "markers %d and %d", i, j)
			case i > j:
				assert.Positive(t, c, "markers %d and %d", i, j)
			default:
				assert.Zero(t, c, "marker %d against itself", i)
			}
		}
	}
}

func TestMarkerCompareTypeMismatch(t *testing.T) {
	a := exactly(t, 1)
	b, err := Exactly(sqltype.Double, 1.0)
	require.NoError(t, err)

	_, err = a.Compare(b)
	require.Error(t, err)
	assert.True(t, IsInternal(err))
}

func TestMarkerRejectsNilAndUnorderable(t *testing.T) {
	_, err := Exactly(sqltype.Bigint, nil)
	require.Error(t, err)

	_, err = Exactly(sqltype.JSON, `{"a":1}`)
	require.Error(t, err)
}

func TestMarkerAdjacent(t *testing.T) {
	tests := []struct {
		name string
		a, b Marker
		want bool
	}{
		{"exactly meets above", exactly(t, 5), above(t, 5), true},
		{"below meets exactly", below(t, 5), exactly(t, 5), true},
		{"below and above skip exactly", below(t, 5), above(t, 5), false},
		{"same bound", exactly(t, 5), exactly(t, 5), false},
		{"different values", exactly(t, 5), above(t, 6), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Adjacent(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Adjacency is symmetric.
			got, err = tt.b.Adjacent(tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkerAdjacents(t *testing.T) {
	g, err := exactly(t, 5).GreaterAdjacent()
	require.NoError(t, err)
	assert.True(t, g.Equal(above(t, 5)))

	g, err = below(t, 5).GreaterAdjacent()
	require.NoError(t, err)
	assert.True(t, g.Equal(exactly(t, 5)))

	_, err = above(t, 5).GreaterAdjacent()
	require.Error(t, err)

	l, err := exactly(t, 5).LesserAdjacent()
	require.NoError(t, err)
	assert.True(t, l.Equal(below(t, 5)))

	l, err = above(t, 5).LesserAdjacent()
	require.NoError(t, err)
	assert.True(t, l.Equal(exactly(t, 5)))

	_, err = below(t, 5).LesserAdjacent()
	require.Error(t, err)

	_, err = LowerUnbounded(sqltype.Bigint).GreaterAdjacent()
	require.Error(t, err)
}

func TestRangeConstruction(t *testing.T) {
	// low marker must not be BELOW
	_, err := NewRange(below(t, 1), exactly(t, 5))
	require.Error(t, err)

	// high marker must not be ABOVE
	_, err = NewRange(exactly(t, 1), above(t, 5))
	require.Error(t, err)

	// inverted bounds
	_, err = NewRange(exactly(t, 5), exactly(t, 1))
	require.Error(t, err)

	r, err := NewRange(exactly(t, 1), exactly(t, 5))
	require.NoError(t, err)
	assert.False(t, r.IsSingleValue())
	assert.False(t, r.IsAll())
}

func TestRangeSingleValue(t *testing.T) {
	r, err := SingleValueRange(sqltype.Bigint, int64(7))
	require.NoError(t, err)
	assert.True(t, r.IsSingleValue())
	v, ok := r.SingleValue()
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)
}

func TestRangeOverlapsAndIntersect(t *testing.T) {
	oneToFive, err := NewRange(exactly(t, 1), exactly(t, 5))
	require.NoError(t, err)
	threeToTen, err := NewRange(exactly(t, 3), exactly(t, 10))
	require.NoError(t, err)
	sixUp, err := GreaterThanRange(sqltype.Bigint, int64(5))
	require.NoError(t, err)

	overlaps, err := oneToFive.Overlaps(threeToTen)
	require.NoError(t, err)
	assert.True(t, overlaps)

	overlaps, err = oneToFive.Overlaps(sixUp)
	require.NoError(t, err)
	assert.False(t, overlaps)

	x, ok, err := oneToFive.Intersect(threeToTen)
	require.NoError(t, err)
	require.True(t, ok)
	want, err := NewRange(exactly(t, 3), exactly(t, 5))
	require.NoError(t, err)
	assert.True(t, x.Equal(want))

	_, ok, err = oneToFive.Intersect(sixUp)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRangeAdjoins(t *testing.T) {
	// (1, 5] and (5, 10] touch at the ABOVE(5)/EXACTLY(5) boundary.
	left, err := NewRange(above(t, 1), exactly(t, 5))
	require.NoError(t, err)
	right, err := NewRange(above(t, 5), exactly(t, 10))
	require.NoError(t, err)

	adjoins, err := left.Adjoins(right)
	require.NoError(t, err)
	assert.True(t, adjoins)

	// [1, 5) and (5, 10] leave 5 uncovered.
	left, err = NewRange(exactly(t, 1), below(t, 5))
	require.NoError(t, err)
	adjoins, err = left.Adjoins(right)
	require.NoError(t, err)
	assert.False(t, adjoins)
}

func TestRangeSpanAndContains(t *testing.T) {
	a, err := NewRange(exactly(t, 1), exactly(t, 3))
	require.NoError(t, err)
	b, err := NewRange(exactly(t, 7), exactly(t, 9))
	require.NoError(t, err)

	span, err := a.Span(b)
	require.NoError(t, err)
	want, err := NewRange(exactly(t, 1), exactly(t, 9))
	require.NoError(t, err)
	assert.True(t, span.Equal(want))

	contains, err := span.Contains(a)
	require.NoError(t, err)
	assert.True(t, contains)

	contains, err = a.Contains(span)
	require.NoError(t, err)
	assert.False(t, contains)
}

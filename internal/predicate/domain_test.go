package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/internal/sqltype"
)

func TestDomainKinds(t *testing.T) {
	all := AllDomain(sqltype.Bigint)
	assert.True(t, all.IsAll())
	assert.False(t, all.IsNone())

	none := NoneDomain(sqltype.Bigint)
	assert.True(t, none.IsNone())

	onlyNull := OnlyNullDomain(sqltype.Bigint)
	assert.True(t, onlyNull.IsOnlyNull())
	assert.True(t, onlyNull.IsNullableSingleValue())
	assert.False(t, onlyNull.IsSingleValue())

	notNull := NotNullDomain(sqltype.Bigint)
	assert.False(t, notNull.IsAll())
	assert.False(t, notNull.NullAllowed())
	assert.True(t, notNull.Values().IsAll())

	single, err := SingleValueDomain(sqltype.Bigint, int64(5))
	require.NoError(t, err)
	assert.True(t, single.IsSingleValue())
	v, ok := single.SingleValue()
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)
}

func TestDomainContainsValueTreatsNilAsNull(t *testing.T) {
	d, err := SingleValueDomain(sqltype.Bigint, int64(5))
	require.NoError(t, err)

	got, err := d.ContainsValue(nil)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = OnlyNullDomain(sqltype.Bigint).ContainsValue(nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestDomainComplementInvolution(t *testing.T) {
	d := NewDomain(intRanges(t, rangeBetween(t, 1, 5)), true)

	c, err := DomainComplement(d)
	require.NoError(t, err)
	assert.False(t, c.NullAllowed())

	got, err := c.ContainsValue(int64(3))
	require.NoError(t, err)
	assert.False(t, got)
	got, err = c.ContainsValue(int64(9))
	require.NoError(t, err)
	assert.True(t, got)

	cc, err := DomainComplement(c)
	require.NoError(t, err)
	assert.True(t, d.Equal(cc))
}

func TestDomainUnionIntersect(t *testing.T) {
	low := NewDomain(intRanges(t, rangeBetween(t, 1, 5)), false)
	high := NewDomain(intRanges(t, rangeBetween(t, 3, 9)), true)

	u, err := DomainUnion(low, high)
	require.NoError(t, err)
	assert.True(t, u.NullAllowed())
	assert.True(t, ValueSetsEqual(u.Values(), intRanges(t, rangeBetween(t, 1, 9))))

	x, err := DomainIntersect(low, high)
	require.NoError(t, err)
	assert.False(t, x.NullAllowed())
	assert.True(t, ValueSetsEqual(x.Values(), intRanges(t, rangeBetween(t, 3, 5))))
}

func TestDomainContains(t *testing.T) {
	wide := NewDomain(intRanges(t, rangeBetween(t, 0, 100)), true)
	narrow := NewDomain(intValues(t, 5), false)

	contains, err := DomainContains(wide, narrow)
	require.NoError(t, err)
	assert.True(t, contains)

	contains, err = DomainContains(narrow, wide)
	require.NoError(t, err)
	assert.False(t, contains)

	// Null admission matters for containment.
	nullable := NewDomain(intValues(t, 5), true)
	contains, err = DomainContains(narrow, nullable)
	require.NoError(t, err)
	assert.False(t, contains)
}

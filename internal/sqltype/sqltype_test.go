package sqltype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForName(t *testing.T) {
	for _, want := range []Type{Boolean, Integer, Bigint, Double, Varchar, Date, JSON, Unknown} {
		got, ok := ForName(want.Name())
		require.True(t, ok, want.Name())
		assert.Equal(t, want, got)
	}

	_, ok := ForName("decimal")
	assert.False(t, ok)
}

func TestOrderableAndComparable(t *testing.T) {
	assert.True(t, Bigint.Orderable())
	assert.True(t, Bigint.Comparable())

	// json exercises discrete sets: comparable without an order.
	assert.False(t, JSON.Orderable())
	assert.True(t, JSON.Comparable())

	assert.False(t, Unknown.Orderable())
	assert.False(t, Unknown.Comparable())
}

func TestIntegral(t *testing.T) {
	assert.True(t, Integral(Integer))
	assert.True(t, Integral(Bigint))
	assert.False(t, Integral(Double))
	assert.False(t, Integral(Varchar))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		a, b any
		want int
	}{
		{"bigint less", Bigint, int64(1), int64(2), -1},
		{"bigint equal", Bigint, int64(5), int64(5), 0},
		{"bigint greater", Bigint, int64(9), int64(2), 1},
		{"double", Double, 1.5, 2.5, -1},
		{"varchar", Varchar, "alice", "bob", -1},
		{"boolean false before true", Boolean, false, true, -1},
		{"date", Date, int64(19000), int64(19001), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareRejectsWrongNativeType(t *testing.T) {
	_, err := Bigint.Compare(int64(1), "two")
	require.Error(t, err)

	_, err = JSON.Compare(`{}`, `{}`)
	require.Error(t, err, "json has no order")

	_, err = Unknown.Compare(nil, nil)
	require.Error(t, err)
}

func TestValidateValue(t *testing.T) {
	require.NoError(t, Bigint.ValidateValue(int64(5)))
	require.Error(t, Bigint.ValidateValue(5))
	require.Error(t, Bigint.ValidateValue(5.0))

	require.NoError(t, Double.ValidateValue(1.5))
	require.Error(t, Double.ValidateValue(int64(1)))

	require.NoError(t, Varchar.ValidateValue("x"))
	require.NoError(t, JSON.ValidateValue(`{"a":1}`))
	require.NoError(t, Boolean.ValidateValue(true))

	require.Error(t, Unknown.ValidateValue("anything"))
}

func TestCanCoerce(t *testing.T) {
	assert.True(t, CanCoerce(Integer, Bigint))
	assert.True(t, CanCoerce(Integer, Double))
	assert.True(t, CanCoerce(Bigint, Double))
	assert.True(t, CanCoerce(Varchar, JSON))
	assert.True(t, CanCoerce(Bigint, Bigint))
	assert.True(t, CanCoerce(Unknown, Varchar))

	assert.False(t, CanCoerce(Double, Bigint), "narrowing is the translator's job")
	assert.False(t, CanCoerce(Bigint, Integer))
	assert.False(t, CanCoerce(Varchar, Bigint))
}

func TestCoerce(t *testing.T) {
	v, err := Coerce(Integer, Bigint, int64(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	v, err = Coerce(Bigint, Double, int64(5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	v, err = Coerce(Varchar, JSON, `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	v, err = Coerce(Bigint, Bigint, int64(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	// NULL passes through any coercion.
	v, err = Coerce(Integer, Double, nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = Coerce(Double, Bigint, 1.5)
	require.Error(t, err)
}

func TestNullableValue(t *testing.T) {
	v, err := NewValue(Bigint, int64(5))
	require.NoError(t, err)
	assert.False(t, v.IsNull())
	assert.Equal(t, "5", v.String())

	_, err = NewValue(Bigint, nil)
	require.Error(t, err)

	null := NullValue(Varchar)
	assert.True(t, null.IsNull())
	assert.Equal(t, "NULL", null.String())

	s, err := NewValue(Varchar, "bob")
	require.NoError(t, err)
	assert.Equal(t, "'bob'", s.String())

	f, err := NewValue(Double, 5.5)
	require.NoError(t, err)
	assert.Equal(t, "5.5", f.String())

	b, err := NewValue(Boolean, true)
	require.NoError(t, err)
	assert.Equal(t, "true", b.String())

	other, err := NewValue(Bigint, int64(5))
	require.NoError(t, err)
	assert.True(t, v.Equal(other))

	asDouble, err := NewValue(Double, 5.0)
	require.NoError(t, err)
	assert.False(t, v.Equal(asDouble), "type identity matters")
}

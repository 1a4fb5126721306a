package sqltype

import (
	"fmt"
	"strconv"
)

// NullableValue pairs a native value with its SQL type. A nil Value means
// SQL NULL. Immutable once constructed.
type NullableValue struct {
	Type  Type
	Value any
}

// NewValue builds a validated non-null value.
func NewValue(t Type, v any) (NullableValue, error) {
	if v == nil {
		return NullableValue{}, fmt.Errorf("%s: use NullValue for NULL", t.Name())
	}
	if err := t.ValidateValue(v); err != nil {
		return NullableValue{}, err
	}
	return NullableValue{Type: t, Value: v}, nil
}

// NullValue builds the NULL of type t.
func NullValue(t Type) NullableValue {
	return NullableValue{Type: t}
}

// IsNull reports whether the value is SQL NULL.
func (v NullableValue) IsNull() bool { return v.Value == nil }

// Equal compares type identity and native value.
func (v NullableValue) Equal(other NullableValue) bool {
	if v.Type != other.Type {
		return false
	}
	return v.Value == other.Value
}

// String renders a SQL-ish literal for diagnostics and golden files.
func (v NullableValue) String() string {
	if v.IsNull() {
		return "NULL"
	}
	switch val := v.Value.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return "'" + val + "'"
	default:
		return fmt.Sprintf("%v", val)
	}
}

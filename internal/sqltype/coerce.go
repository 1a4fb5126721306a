package sqltype

import "fmt"

// coercionKey identifies an allowed implicit widening.
type coercionKey struct {
	from string
	to   string
}

// coercions lists the implicit widenings the planner may apply to literal
// values. Narrowing conversions (double to bigint in particular) are absent:
// the translator handles those with explicit rounding-direction rewrites.
var coercions = map[coercionKey]func(any) (any, error){
	{"integer", "bigint"}: identityCoercion,
	{"integer", "double"}: int64ToFloat64,
	{"bigint", "double"}:  int64ToFloat64,
	{"varchar", "json"}:   identityCoercion,
	{"date", "varchar"}:   nil, // reserved; no renderer in this catalog
}

func identityCoercion(v any) (any, error) { return v, nil }

func int64ToFloat64(v any) (any, error) {
	i, ok := v.(int64)
	if !ok {
		return nil, fmt.Errorf("expected int64, got %T", v)
	}
	return float64(i), nil
}

// CanCoerce reports whether a value of type from can be implicitly coerced
// to type to. The unknown type (NULL literal) coerces to everything; every
// type coerces to itself.
func CanCoerce(from, to Type) bool {
	if from == to || from == Unknown {
		return true
	}
	fn, ok := coercions[coercionKey{from.Name(), to.Name()}]
	return ok && fn != nil
}

// Coerce converts a native value of type from into type to. NULL passes
// through unchanged. Fails if the coercion is not registered.
func Coerce(from, to Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if from == to {
		return v, nil
	}
	if from == Unknown {
		return nil, fmt.Errorf("unknown type carries no non-null values")
	}
	fn, ok := coercions[coercionKey{from.Name(), to.Name()}]
	if !ok || fn == nil {
		return nil, fmt.Errorf("no coercion from %s to %s", from.Name(), to.Name())
	}
	coerced, err := fn(v)
	if err != nil {
		return nil, fmt.Errorf("coerce %s to %s: %w", from.Name(), to.Name(), err)
	}
	if err := to.ValidateValue(coerced); err != nil {
		return nil, err
	}
	return coerced, nil
}

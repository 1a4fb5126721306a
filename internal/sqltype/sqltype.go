// Package sqltype is the narrow type-catalog collaborator consumed by the
// predicate algebra and the translator. It carries just enough of a SQL type
// system to validate, compare and coerce native constraint values: a closed
// set of scalar types, per-type orderable/comparable predicates, and a
// coercion registry.
//
// Native value representation per type:
//
//	boolean          bool
//	integer, bigint  int64
//	double           float64
//	varchar, json    string
//	date             int64 (days since epoch)
//
// The unknown type is the static type of a bare NULL literal; it carries no
// non-null values and coerces to every other type.
package sqltype

import (
	"fmt"
	"strings"

	"github.com/stratumdb/stratum/internal/typesig"
)

// Type describes one SQL scalar type. Implementations are immutable and
// safe for concurrent use.
type Type interface {
	// Name returns the canonical lowercase type name.
	Name() string

	// Signature returns the structural signature of the type.
	Signature() typesig.TypeSignature

	// Orderable reports whether values have a total order (<, <=, ...).
	Orderable() bool

	// Comparable reports whether values support equality. Every orderable
	// type is comparable; the reverse does not hold (json).
	Comparable() bool

	// Compare orders two non-null native values. Fails for non-orderable
	// types or values of the wrong native kind.
	Compare(a, b any) (int, error)

	// ValidateValue checks that v has the native kind this type expects.
	// A nil value is always valid (SQL NULL).
	ValidateValue(v any) error
}

// The standard catalog. Enough surface for constraint translation; this is
// deliberately not a complete SQL type system.
var (
	Boolean Type = booleanType{}
	Integer Type = integerType{}
	Bigint  Type = bigintType{}
	Double  Type = doubleType{}
	Varchar Type = varcharType{}
	Date    Type = dateType{}
	JSON    Type = jsonType{}
	Unknown Type = unknownType{}
)

var catalog = map[string]Type{
	Boolean.Name(): Boolean,
	Integer.Name(): Integer,
	Bigint.Name():  Bigint,
	Double.Name():  Double,
	Varchar.Name(): Varchar,
	Date.Name():    Date,
	JSON.Name():    JSON,
	Unknown.Name(): Unknown,
}

// ForName looks up a catalog type by its case-insensitive name.
func ForName(name string) (Type, bool) {
	t, ok := catalog[strings.ToLower(name)]
	return t, ok
}

// Integral reports whether t stores whole numbers as int64. Used by the
// translator for the floating-point comparison rewrites.
func Integral(t Type) bool {
	return t == Integer || t == Bigint
}

func signatureFor(name string) typesig.TypeSignature {
	sig, err := typesig.New(name)
	if err != nil {
		// Catalog names are compile-time constants and always valid.
		panic(err)
	}
	return sig
}

func compareInt64(t Type, a, b any) (int, error) {
	av, aok := a.(int64)
	bv, bok := b.(int64)
	if !aok || !bok {
		return 0, fmt.Errorf("%s: cannot compare %T and %T", t.Name(), a, b)
	}
	switch {
	case av < bv:
		return -1, nil
	case av > bv:
		return 1, nil
	default:
		return 0, nil
	}
}

type booleanType struct{}

func (booleanType) Name() string                     { return "boolean" }
func (booleanType) Signature() typesig.TypeSignature { return signatureFor("boolean") }
func (booleanType) Orderable() bool                  { return true }
func (booleanType) Comparable() bool                 { return true }

func (t booleanType) Compare(a, b any) (int, error) {
	av, aok := a.(bool)
	bv, bok := b.(bool)
	if !aok || !bok {
		return 0, fmt.Errorf("boolean: cannot compare %T and %T", a, b)
	}
	switch {
	case av == bv:
		return 0, nil
	case !av:
		return -1, nil
	default:
		return 1, nil
	}
}

func (booleanType) ValidateValue(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("boolean: unexpected native value %T", v)
	}
	return nil
}

type integerType struct{}

func (integerType) Name() string                     { return "integer" }
func (integerType) Signature() typesig.TypeSignature { return signatureFor("integer") }
func (integerType) Orderable() bool                  { return true }
func (integerType) Comparable() bool                 { return true }
func (t integerType) Compare(a, b any) (int, error)  { return compareInt64(t, a, b) }

func (integerType) ValidateValue(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(int64); !ok {
		return fmt.Errorf("integer: unexpected native value %T", v)
	}
	return nil
}

type bigintType struct{}

func (bigintType) Name() string                     { return "bigint" }
func (bigintType) Signature() typesig.TypeSignature { return signatureFor("bigint") }
func (bigintType) Orderable() bool                  { return true }
func (bigintType) Comparable() bool                 { return true }
func (t bigintType) Compare(a, b any) (int, error)  { return compareInt64(t, a, b) }

func (bigintType) ValidateValue(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(int64); !ok {
		return fmt.Errorf("bigint: unexpected native value %T", v)
	}
	return nil
}

type doubleType struct{}

func (doubleType) Name() string                     { return "double" }
func (doubleType) Signature() typesig.TypeSignature { return signatureFor("double") }
func (doubleType) Orderable() bool                  { return true }
func (doubleType) Comparable() bool                 { return true }

func (doubleType) Compare(a, b any) (int, error) {
	av, aok := a.(float64)
	bv, bok := b.(float64)
	if !aok || !bok {
		return 0, fmt.Errorf("double: cannot compare %T and %T", a, b)
	}
	switch {
	case av < bv:
		return -1, nil
	case av > bv:
		return 1, nil
	default:
		return 0, nil
	}
}

func (doubleType) ValidateValue(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(float64); !ok {
		return fmt.Errorf("double: unexpected native value %T", v)
	}
	return nil
}

type varcharType struct{}

func (varcharType) Name() string                     { return "varchar" }
func (varcharType) Signature() typesig.TypeSignature { return signatureFor("varchar") }
func (varcharType) Orderable() bool                  { return true }
func (varcharType) Comparable() bool                 { return true }

func (varcharType) Compare(a, b any) (int, error) {
	av, aok := a.(string)
	bv, bok := b.(string)
	if !aok || !bok {
		return 0, fmt.Errorf("varchar: cannot compare %T and %T", a, b)
	}
	return strings.Compare(av, bv), nil
}

func (varcharType) ValidateValue(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("varchar: unexpected native value %T", v)
	}
	return nil
}

type dateType struct{}

func (dateType) Name() string                     { return "date" }
func (dateType) Signature() typesig.TypeSignature { return signatureFor("date") }
func (dateType) Orderable() bool                  { return true }
func (dateType) Comparable() bool                 { return true }
func (t dateType) Compare(a, b any) (int, error)  { return compareInt64(t, a, b) }

func (dateType) ValidateValue(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(int64); !ok {
		return fmt.Errorf("date: unexpected native value %T", v)
	}
	return nil
}

// jsonType is comparable but not orderable: equality is well defined on the
// canonical text, ordering is not. It exists to exercise the discrete
// value-set representation.
type jsonType struct{}

func (jsonType) Name() string                     { return "json" }
func (jsonType) Signature() typesig.TypeSignature { return signatureFor("json") }
func (jsonType) Orderable() bool                  { return false }
func (jsonType) Comparable() bool                 { return true }

func (jsonType) Compare(a, b any) (int, error) {
	return 0, fmt.Errorf("json values are not orderable")
}

func (jsonType) ValidateValue(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("json: unexpected native value %T", v)
	}
	return nil
}

// unknownType is the static type of a bare NULL literal.
type unknownType struct{}

func (unknownType) Name() string                     { return "unknown" }
func (unknownType) Signature() typesig.TypeSignature { return signatureFor("unknown") }
func (unknownType) Orderable() bool                  { return false }
func (unknownType) Comparable() bool                 { return false }

func (unknownType) Compare(a, b any) (int, error) {
	return 0, fmt.Errorf("unknown type has no values to compare")
}

func (unknownType) ValidateValue(v any) error {
	if v != nil {
		return fmt.Errorf("unknown: only NULL is valid, got %T", v)
	}
	return nil
}

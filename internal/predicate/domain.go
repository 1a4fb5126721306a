package predicate

import (
	"github.com/stratumdb/stratum/internal/sqltype"
)

// Domain is the full constraint on one column: a set of admissible non-null
// values plus a flag admitting NULL.
type Domain struct {
	values      ValueSet
	nullAllowed bool
}

// NewDomain pairs a value set with null admissibility.
func NewDomain(values ValueSet, nullAllowed bool) Domain {
	return Domain{values: values, nullAllowed: nullAllowed}
}

// AllDomain admits every value of t including NULL.
func AllDomain(t sqltype.Type) Domain {
	return Domain{values: AllValues(t), nullAllowed: true}
}

// NoneDomain admits nothing, not even NULL.
func NoneDomain(t sqltype.Type) Domain {
	return Domain{values: NoneValues(t), nullAllowed: false}
}

// OnlyNullDomain admits exactly NULL.
func OnlyNullDomain(t sqltype.Type) Domain {
	return Domain{values: NoneValues(t), nullAllowed: true}
}

// NotNullDomain admits every non-null value of t.
func NotNullDomain(t sqltype.Type) Domain {
	return Domain{values: AllValues(t), nullAllowed: false}
}

// SingleValueDomain admits exactly v, NULL excluded.
func SingleValueDomain(t sqltype.Type, v any) (Domain, error) {
	vs, err := OfValues(t, v)
	if err != nil {
		return Domain{}, err
	}
	return Domain{values: vs, nullAllowed: false}, nil
}

// Type returns the column's SQL type.
func (d Domain) Type() sqltype.Type { return d.values.Type() }

// Values returns the non-null value set.
func (d Domain) Values() ValueSet { return d.values }

// NullAllowed reports whether NULL is admitted.
func (d Domain) NullAllowed() bool { return d.nullAllowed }

// IsAll reports whether the domain admits everything including NULL.
func (d Domain) IsAll() bool { return d.nullAllowed && d.values.IsAll() }

// IsNone reports whether the domain admits nothing.
func (d Domain) IsNone() bool { return !d.nullAllowed && d.values.IsNone() }

// IsOnlyNull reports whether NULL is the only admitted value.
func (d Domain) IsOnlyNull() bool { return d.nullAllowed && d.values.IsNone() }

// IsSingleValue reports whether exactly one non-null value is admitted and
// NULL is excluded.
func (d Domain) IsSingleValue() bool {
	return !d.nullAllowed && d.values.IsSingleValue()
}

// SingleValue returns the admitted value when IsSingleValue.
func (d Domain) SingleValue() (any, bool) {
	if d.nullAllowed {
		return nil, false
	}
	return d.values.SingleValue()
}

// IsNullableSingleValue reports whether the domain is a single value, NULL
// alone, or a single value together with NULL.
func (d Domain) IsNullableSingleValue() bool {
	return d.values.IsSingleValue() || d.IsOnlyNull()
}

// ContainsValue reports membership, treating nil as NULL.
func (d Domain) ContainsValue(v any) (bool, error) {
	if v == nil {
		return d.nullAllowed, nil
	}
	return d.values.ContainsValue(v)
}

// Equal reports canonical equality.
func (d Domain) Equal(o Domain) bool {
	return d.nullAllowed == o.nullAllowed && ValueSetsEqual(d.values, o.values)
}

// DomainUnion admits a value iff either domain does.
func DomainUnion(a, b Domain) (Domain, error) {
	vs, err := Union(a.values, b.values)
	if err != nil {
		return Domain{}, err
	}
	return Domain{values: vs, nullAllowed: a.nullAllowed || b.nullAllowed}, nil
}

// DomainIntersect admits a value iff both domains do.
func DomainIntersect(a, b Domain) (Domain, error) {
	vs, err := Intersect(a.values, b.values)
	if err != nil {
		return Domain{}, err
	}
	return Domain{values: vs, nullAllowed: a.nullAllowed && b.nullAllowed}, nil
}

// DomainComplement flips the value set and the null flag.
func DomainComplement(d Domain) (Domain, error) {
	vs, err := Complement(d.values)
	if err != nil {
		return Domain{}, err
	}
	return Domain{values: vs, nullAllowed: !d.nullAllowed}, nil
}

// DomainContains reports whether a admits every value b admits, defined
// through the union: a contains b iff their union equals a.
func DomainContains(a, b Domain) (bool, error) {
	u, err := DomainUnion(a, b)
	if err != nil {
		return false, err
	}
	return u.Equal(a), nil
}

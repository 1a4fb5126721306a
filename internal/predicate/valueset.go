package predicate

import (
	"github.com/stratumdb/stratum/internal/sqltype"
)

// ValueSet describes the set of non-null values a column may take. It is a
// sealed sum: the concrete shape depends on the column type's capabilities.
// Orderable types use RangeSet, comparable-but-unorderable types use
// DiscreteSet, and types supporting neither use AllOrNone.
type ValueSet interface {
	// Type returns the SQL type the set ranges over.
	Type() sqltype.Type
	// IsAll reports whether the set admits every non-null value.
	IsAll() bool
	// IsNone reports whether the set is empty.
	IsNone() bool
	// IsSingleValue reports whether the set contains exactly one value.
	IsSingleValue() bool
	// SingleValue returns the contained value when IsSingleValue.
	SingleValue() (any, bool)
	// ContainsValue reports membership of a single non-null value.
	ContainsValue(v any) (bool, error)

	isValueSet()
}

// AllOrNone is the value set for types that are neither orderable nor
// comparable: the only expressible constraints are "everything" and
// "nothing".
type AllOrNone struct {
	typ sqltype.Type
	all bool
}

func (s AllOrNone) Type() sqltype.Type       { return s.typ }
func (s AllOrNone) IsAll() bool              { return s.all }
func (s AllOrNone) IsNone() bool             { return !s.all }
func (s AllOrNone) IsSingleValue() bool      { return false }
func (s AllOrNone) SingleValue() (any, bool) { return nil, false }
func (s AllOrNone) isValueSet()              {}

func (s AllOrNone) ContainsValue(v any) (bool, error) {
	if err := s.typ.ValidateValue(v); err != nil {
		return false, Internalf("contains value: %v", err)
	}
	return s.all, nil
}

// AllValues is the set of every non-null value of t, in the canonical shape
// for t's capabilities.
func AllValues(t sqltype.Type) ValueSet {
	switch {
	case t.Orderable():
		return RangeSet{typ: t, ranges: []Range{AllRange(t)}}
	case t.Comparable():
		return DiscreteSet{typ: t, inclusive: false}
	default:
		return AllOrNone{typ: t, all: true}
	}
}

// NoneValues is the empty set over t, in the canonical shape for t's
// capabilities.
func NoneValues(t sqltype.Type) ValueSet {
	switch {
	case t.Orderable():
		return RangeSet{typ: t}
	case t.Comparable():
		return DiscreteSet{typ: t, inclusive: true}
	default:
		return AllOrNone{typ: t, all: false}
	}
}

// OfValues builds the set holding exactly the given values. The type must be
// at least comparable; orderable types produce a RangeSet of single-value
// ranges.
func OfValues(t sqltype.Type, values ...any) (ValueSet, error) {
	if len(values) == 0 {
		return NoneValues(t), nil
	}
	if t.Orderable() {
		ranges := make([]Range, 0, len(values))
		for _, v := range values {
			r, err := SingleValueRange(t, v)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, r)
		}
		return OfRanges(t, ranges...)
	}
	if !t.Comparable() {
		return nil, Internalf("cannot enumerate values of incomparable type %s", t.Name())
	}
	return newDiscreteSet(t, true, values)
}

// OfRanges builds the canonical union of the given ranges. The type must be
// orderable.
func OfRanges(t sqltype.Type, ranges ...Range) (ValueSet, error) {
	if !t.Orderable() {
		return nil, Internalf("ranges require an orderable type, got %s", t.Name())
	}
	for _, r := range ranges {
		if r.Type() != t {
			return nil, Internalf("range of type %s in a %s set", r.Type().Name(), t.Name())
		}
	}
	return newRangeSet(t, ranges)
}

// Complement returns the set of values not in vs.
func Complement(vs ValueSet) (ValueSet, error) {
	switch s := vs.(type) {
	case AllOrNone:
		return AllOrNone{typ: s.typ, all: !s.all}, nil
	case DiscreteSet:
		return DiscreteSet{typ: s.typ, values: s.values, inclusive: !s.inclusive}, nil
	case RangeSet:
		return s.complement()
	default:
		return nil, Internalf("unknown value set shape %T", vs)
	}
}

// Intersect returns the values present in both sets.
func Intersect(a, b ValueSet) (ValueSet, error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case AllOrNone:
		y := b.(AllOrNone)
		return AllOrNone{typ: x.typ, all: x.all && y.all}, nil
	case DiscreteSet:
		return x.intersect(b.(DiscreteSet))
	case RangeSet:
		return x.intersect(b.(RangeSet))
	default:
		return nil, Internalf("unknown value set shape %T", a)
	}
}

// Union returns the values present in either set.
func Union(a, b ValueSet) (ValueSet, error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case AllOrNone:
		y := b.(AllOrNone)
		return AllOrNone{typ: x.typ, all: x.all || y.all}, nil
	case DiscreteSet:
		return x.union(b.(DiscreteSet))
	case RangeSet:
		return x.union(b.(RangeSet))
	default:
		return nil, Internalf("unknown value set shape %T", a)
	}
}

// ContainsSet reports whether a admits every value of b. Containment is
// defined through the union: a contains b iff their union equals a.
func ContainsSet(a, b ValueSet) (bool, error) {
	u, err := Union(a, b)
	if err != nil {
		return false, err
	}
	return ValueSetsEqual(u, a), nil
}

// ValueSetsEqual reports canonical equality of two sets.
func ValueSetsEqual(a, b ValueSet) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case AllOrNone:
		y, ok := b.(AllOrNone)
		return ok && x.all == y.all
	case DiscreteSet:
		y, ok := b.(DiscreteSet)
		return ok && x.equal(y)
	case RangeSet:
		y, ok := b.(RangeSet)
		return ok && x.equal(y)
	default:
		return false
	}
}

func checkShapes(a, b ValueSet) error {
	if a.Type() != b.Type() {
		return Internalf("cannot combine value sets of types %s and %s", a.Type().Name(), b.Type().Name())
	}
	switch a.(type) {
	case AllOrNone:
		if _, ok := b.(AllOrNone); ok {
			return nil
		}
	case DiscreteSet:
		if _, ok := b.(DiscreteSet); ok {
			return nil
		}
	case RangeSet:
		if _, ok := b.(RangeSet); ok {
			return nil
		}
	}
	return Internalf("cannot combine value sets of shapes %T and %T", a, b)
}

package predicate

import (
	"github.com/stratumdb/stratum/internal/sqltype"
)

// Range is a contiguous span of values between two markers. Invariants:
// both markers share one type, the low marker never uses BELOW, the high
// marker never uses ABOVE, and low <= high.
type Range struct {
	low  Marker
	high Marker
}

// NewRange builds a validated range from two markers.
func NewRange(low, high Marker) (Range, error) {
	if low.Type() != high.Type() {
		return Range{}, Internalf("range markers have mismatched types %s and %s", low.Type().Name(), high.Type().Name())
	}
	if low.Bound() == BoundBelow {
		return Range{}, Internalf("low marker must never use BELOW bound")
	}
	if high.Bound() == BoundAbove {
		return Range{}, Internalf("high marker must never use ABOVE bound")
	}
	c, err := low.Compare(high)
	if err != nil {
		return Range{}, err
	}
	if c > 0 {
		return Range{}, Internalf("range low must be less than or equal to high")
	}
	return Range{low: low, high: high}, nil
}

// AllRange spans every value of t.
func AllRange(t sqltype.Type) Range {
	return Range{low: LowerUnbounded(t), high: UpperUnbounded(t)}
}

// SingleValueRange contains exactly v.
func SingleValueRange(t sqltype.Type, v any) (Range, error) {
	m, err := Exactly(t, v)
	if err != nil {
		return Range{}, err
	}
	return Range{low: m, high: m}, nil
}

// GreaterThanRange is (v, +inf).
func GreaterThanRange(t sqltype.Type, v any) (Range, error) {
	low, err := Above(t, v)
	if err != nil {
		return Range{}, err
	}
	return Range{low: low, high: UpperUnbounded(t)}, nil
}

// GreaterThanOrEqualRange is [v, +inf).
func GreaterThanOrEqualRange(t sqltype.Type, v any) (Range, error) {
	low, err := Exactly(t, v)
	if err != nil {
		return Range{}, err
	}
	return Range{low: low, high: UpperUnbounded(t)}, nil
}

// LessThanRange is (-inf, v).
func LessThanRange(t sqltype.Type, v any) (Range, error) {
	high, err := Below(t, v)
	if err != nil {
		return Range{}, err
	}
	return Range{low: LowerUnbounded(t), high: high}, nil
}

// LessThanOrEqualRange is (-inf, v].
func LessThanOrEqualRange(t sqltype.Type, v any) (Range, error) {
	high, err := Exactly(t, v)
	if err != nil {
		return Range{}, err
	}
	return Range{low: LowerUnbounded(t), high: high}, nil
}

// Low returns the low marker.
func (r Range) Low() Marker { return r.low }

// High returns the high marker.
func (r Range) High() Marker { return r.high }

// Type returns the range's SQL type.
func (r Range) Type() sqltype.Type { return r.low.Type() }

// IsAll reports whether the range spans every value.
func (r Range) IsAll() bool {
	return r.low.IsLowerUnbounded() && r.high.IsUpperUnbounded()
}

// IsSingleValue reports whether the range contains exactly one value.
func (r Range) IsSingleValue() bool {
	if r.low.Bound() != BoundExactly || r.high.Bound() != BoundExactly {
		return false
	}
	return r.low.Equal(r.high)
}

// SingleValue returns the contained value when IsSingleValue.
func (r Range) SingleValue() (any, bool) {
	if !r.IsSingleValue() {
		return nil, false
	}
	v, _ := r.low.Value()
	return v, true
}

// Overlaps reports whether r and o share at least one value.
func (r Range) Overlaps(o Range) (bool, error) {
	c1, err := r.low.Compare(o.high)
	if err != nil {
		return false, err
	}
	c2, err := o.low.Compare(r.high)
	if err != nil {
		return false, err
	}
	return c1 <= 0 && c2 <= 0, nil
}

// Adjoins reports whether r and o overlap or touch with no gap, i.e. their
// union is a single contiguous range.
func (r Range) Adjoins(o Range) (bool, error) {
	overlaps, err := r.Overlaps(o)
	if err != nil || overlaps {
		return overlaps, err
	}
	adj, err := r.high.Adjacent(o.low)
	if err != nil || adj {
		return adj, err
	}
	return o.high.Adjacent(r.low)
}

// Span is the smallest range containing both r and o.
func (r Range) Span(o Range) (Range, error) {
	low, err := minMarker(r.low, o.low)
	if err != nil {
		return Range{}, err
	}
	high, err := maxMarker(r.high, o.high)
	if err != nil {
		return Range{}, err
	}
	return Range{low: low, high: high}, nil
}

// Intersect returns the overlap of r and o; ok is false when disjoint.
func (r Range) Intersect(o Range) (Range, bool, error) {
	overlaps, err := r.Overlaps(o)
	if err != nil || !overlaps {
		return Range{}, false, err
	}
	low, err := maxMarker(r.low, o.low)
	if err != nil {
		return Range{}, false, err
	}
	high, err := minMarker(r.high, o.high)
	if err != nil {
		return Range{}, false, err
	}
	return Range{low: low, high: high}, true, nil
}

// Contains reports whether every value of o lies within r.
func (r Range) Contains(o Range) (bool, error) {
	c1, err := r.low.Compare(o.low)
	if err != nil {
		return false, err
	}
	c2, err := r.high.Compare(o.high)
	if err != nil {
		return false, err
	}
	return c1 <= 0 && c2 >= 0, nil
}

// Equal reports structural equality.
func (r Range) Equal(o Range) bool {
	return r.low.Equal(o.low) && r.high.Equal(o.high)
}

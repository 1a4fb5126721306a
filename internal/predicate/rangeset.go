package predicate

import (
	"sort"

	"github.com/stratumdb/stratum/internal/sqltype"
)

// RangeSet is the value set over an orderable type: a sorted list of
// disjoint, non-adjacent ranges. The empty list is NONE; the single all-range
// is ALL.
type RangeSet struct {
	typ    sqltype.Type
	ranges []Range
}

func newRangeSet(t sqltype.Type, ranges []Range) (RangeSet, error) {
	rs := make([]Range, len(ranges))
	copy(rs, ranges)

	var sortErr error
	sort.Slice(rs, func(i, j int) bool {
		c, err := rs[i].Low().Compare(rs[j].Low())
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return RangeSet{}, sortErr
	}

	var out []Range
	for _, r := range rs {
		if len(out) == 0 {
			out = append(out, r)
			continue
		}
		last := out[len(out)-1]
		adjoins, err := last.Adjoins(r)
		if err != nil {
			return RangeSet{}, err
		}
		if adjoins {
			span, err := last.Span(r)
			if err != nil {
				return RangeSet{}, err
			}
			out[len(out)-1] = span
		} else {
			out = append(out, r)
		}
	}
	return RangeSet{typ: t, ranges: out}, nil
}

func (s RangeSet) Type() sqltype.Type { return s.typ }
func (s RangeSet) isValueSet()        {}

func (s RangeSet) IsNone() bool { return len(s.ranges) == 0 }

func (s RangeSet) IsAll() bool {
	return len(s.ranges) == 1 && s.ranges[0].IsAll()
}

func (s RangeSet) IsSingleValue() bool {
	return len(s.ranges) == 1 && s.ranges[0].IsSingleValue()
}

func (s RangeSet) SingleValue() (any, bool) {
	if len(s.ranges) != 1 {
		return nil, false
	}
	return s.ranges[0].SingleValue()
}

// Ranges returns the canonical ranges in ascending order. The returned slice
// must not be mutated.
func (s RangeSet) Ranges() []Range { return s.ranges }

// ContainsValue reports whether v falls inside any of the ranges.
func (s RangeSet) ContainsValue(v any) (bool, error) {
	m, err := Exactly(s.typ, v)
	if err != nil {
		return false, err
	}
	for _, r := range s.ranges {
		cLow, err := r.Low().Compare(m)
		if err != nil {
			return false, err
		}
		if cLow > 0 {
			// Ranges are sorted; no later range can contain v.
			return false, nil
		}
		cHigh, err := r.High().Compare(m)
		if err != nil {
			return false, err
		}
		if cHigh >= 0 {
			return true, nil
		}
	}
	return false, nil
}

// complement walks the gaps between the ranges.
func (s RangeSet) complement() (ValueSet, error) {
	if s.IsNone() {
		return AllValues(s.typ), nil
	}

	var out []Range
	first := s.ranges[0]
	if !first.Low().IsLowerUnbounded() {
		high, err := first.Low().LesserAdjacent()
		if err != nil {
			return nil, err
		}
		out = append(out, Range{low: LowerUnbounded(s.typ), high: high})
	}
	for i := 0; i+1 < len(s.ranges); i++ {
		low, err := s.ranges[i].High().GreaterAdjacent()
		if err != nil {
			return nil, err
		}
		high, err := s.ranges[i+1].Low().LesserAdjacent()
		if err != nil {
			return nil, err
		}
		out = append(out, Range{low: low, high: high})
	}
	last := s.ranges[len(s.ranges)-1]
	if !last.High().IsUpperUnbounded() {
		low, err := last.High().GreaterAdjacent()
		if err != nil {
			return nil, err
		}
		out = append(out, Range{low: low, high: UpperUnbounded(s.typ)})
	}
	return RangeSet{typ: s.typ, ranges: out}, nil
}

func (s RangeSet) intersect(o RangeSet) (ValueSet, error) {
	var out []Range
	i, j := 0, 0
	for i < len(s.ranges) && j < len(o.ranges) {
		r, ok, err := s.ranges[i].Intersect(o.ranges[j])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
		c, err := s.ranges[i].High().Compare(o.ranges[j].High())
		if err != nil {
			return nil, err
		}
		if c <= 0 {
			i++
		} else {
			j++
		}
	}
	// Intersections of canonical inputs are already sorted and disjoint but
	// may leave adjacent fragments, so renormalize.
	return newRangeSet(s.typ, out)
}

func (s RangeSet) union(o RangeSet) (ValueSet, error) {
	all := make([]Range, 0, len(s.ranges)+len(o.ranges))
	all = append(all, s.ranges...)
	all = append(all, o.ranges...)
	return newRangeSet(s.typ, all)
}

func (s RangeSet) equal(o RangeSet) bool {
	if s.typ != o.typ || len(s.ranges) != len(o.ranges) {
		return false
	}
	for i := range s.ranges {
		if !s.ranges[i].Equal(o.ranges[i]) {
			return false
		}
	}
	return true
}

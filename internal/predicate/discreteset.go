package predicate

import (
	"fmt"
	"sort"

	"github.com/stratumdb/stratum/internal/sqltype"
)

// DiscreteSet is the value set over a comparable but unorderable type. It
// enumerates values either as a whitelist (inclusive) or, for complements,
// as a blacklist (exclusive). The empty whitelist is NONE; the empty
// blacklist is ALL.
type DiscreteSet struct {
	typ       sqltype.Type
	values    []any
	inclusive bool
}

func newDiscreteSet(t sqltype.Type, inclusive bool, values []any) (DiscreteSet, error) {
	for _, v := range values {
		if v == nil {
			return DiscreteSet{}, Internalf("discrete set cannot hold NULL")
		}
		if err := t.ValidateValue(v); err != nil {
			return DiscreteSet{}, Internalf("discrete set value: %v", err)
		}
	}
	return DiscreteSet{typ: t, values: canonicalValues(values), inclusive: inclusive}, nil
}

// canonicalValues deduplicates and orders by rendered form, so equal sets
// compare equal and serialize identically.
func canonicalValues(values []any) []any {
	seen := make(map[any]struct{}, len(values))
	out := make([]any, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprintf("%v", out[i]) < fmt.Sprintf("%v", out[j])
	})
	return out
}

func (s DiscreteSet) Type() sqltype.Type { return s.typ }
func (s DiscreteSet) isValueSet()        {}

func (s DiscreteSet) IsNone() bool { return s.inclusive && len(s.values) == 0 }
func (s DiscreteSet) IsAll() bool  { return !s.inclusive && len(s.values) == 0 }

func (s DiscreteSet) IsSingleValue() bool {
	return s.inclusive && len(s.values) == 1
}

func (s DiscreteSet) SingleValue() (any, bool) {
	if !s.IsSingleValue() {
		return nil, false
	}
	return s.values[0], true
}

// Inclusive reports whether the values enumerate members (true) or
// non-members (false).
func (s DiscreteSet) Inclusive() bool { return s.inclusive }

// Values returns the canonical value list. The returned slice must not be
// mutated.
func (s DiscreteSet) Values() []any { return s.values }

func (s DiscreteSet) ContainsValue(v any) (bool, error) {
	if err := s.typ.ValidateValue(v); err != nil {
		return false, Internalf("contains value: %v", err)
	}
	for _, x := range s.values {
		if x == v {
			return s.inclusive, nil
		}
	}
	return !s.inclusive, nil
}

func (s DiscreteSet) union(o DiscreteSet) (ValueSet, error) {
	switch {
	case s.inclusive && o.inclusive:
		return newDiscreteSet(s.typ, true, append(append([]any{}, s.values...), o.values...))
	case !s.inclusive && !o.inclusive:
		return newDiscreteSet(s.typ, false, valuesIntersect(s.values, o.values))
	case s.inclusive:
		// Whitelist weakens the blacklist: remove re-admitted values.
		return newDiscreteSet(s.typ, false, valuesSubtract(o.values, s.values))
	default:
		return newDiscreteSet(s.typ, false, valuesSubtract(s.values, o.values))
	}
}

func (s DiscreteSet) intersect(o DiscreteSet) (ValueSet, error) {
	switch {
	case s.inclusive && o.inclusive:
		return newDiscreteSet(s.typ, true, valuesIntersect(s.values, o.values))
	case !s.inclusive && !o.inclusive:
		return newDiscreteSet(s.typ, false, append(append([]any{}, s.values...), o.values...))
	case s.inclusive:
		return newDiscreteSet(s.typ, true, valuesSubtract(s.values, o.values))
	default:
		return newDiscreteSet(s.typ, true, valuesSubtract(o.values, s.values))
	}
}

func (s DiscreteSet) equal(o DiscreteSet) bool {
	if s.typ != o.typ || s.inclusive != o.inclusive || len(s.values) != len(o.values) {
		return false
	}
	for i := range s.values {
		if s.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

func valuesIntersect(a, b []any) []any {
	in := make(map[any]struct{}, len(b))
	for _, v := range b {
		in[v] = struct{}{}
	}
	var out []any
	for _, v := range a {
		if _, ok := in[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func valuesSubtract(a, b []any) []any {
	drop := make(map[any]struct{}, len(b))
	for _, v := range b {
		drop[v] = struct{}{}
	}
	var out []any
	for _, v := range a {
		if _, ok := drop[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

package predicate

import (
	"github.com/stratumdb/stratum/internal/sqltype"
)

// Bound tags a marker's position relative to its reference value.
type Bound string

const (
	// BoundBelow is the point immediately before the value.
	BoundBelow Bound = "BELOW"
	// BoundExactly is the value itself.
	BoundExactly Bound = "EXACTLY"
	// BoundAbove is the point immediately after the value.
	BoundAbove Bound = "ABOVE"
)

func boundRank(b Bound) int {
	switch b {
	case BoundBelow:
		return 0
	case BoundExactly:
		return 1
	default: // BoundAbove
		return 2
	}
}

// Marker is one endpoint of a range: a value with a strictness tag, or an
// unbounded endpoint. An unbounded lower endpoint carries bound ABOVE and an
// unbounded upper endpoint carries bound BELOW, which keeps the ordering
// rules uniform: a low marker never uses BELOW, a high marker never uses
// ABOVE.
type Marker struct {
	typ   sqltype.Type
	value any // nil when unbounded
	bound Bound
}

// LowerUnbounded is the marker before every value of t.
func LowerUnbounded(t sqltype.Type) Marker {
	return Marker{typ: t, bound: BoundAbove}
}

// UpperUnbounded is the marker after every value of t.
func UpperUnbounded(t sqltype.Type) Marker {
	return Marker{typ: t, bound: BoundBelow}
}

func newMarker(t sqltype.Type, v any, bound Bound) (Marker, error) {
	if !t.Orderable() {
		return Marker{}, Internalf("markers require an orderable type, got %s", t.Name())
	}
	if v == nil {
		return Marker{}, Internalf("marker value is nil; use LowerUnbounded or UpperUnbounded")
	}
	if err := t.ValidateValue(v); err != nil {
		return Marker{}, Internalf("marker value: %v", err)
	}
	return Marker{typ: t, value: v, bound: bound}, nil
}

// Exactly is the marker at v.
func Exactly(t sqltype.Type, v any) (Marker, error) { return newMarker(t, v, BoundExactly) }

// Above is the marker immediately after v.
func Above(t sqltype.Type, v any) (Marker, error) { return newMarker(t, v, BoundAbove) }

// Below is the marker immediately before v.
func Below(t sqltype.Type, v any) (Marker, error) { return newMarker(t, v, BoundBelow) }

// Type returns the marker's SQL type.
func (m Marker) Type() sqltype.Type { return m.typ }

// Bound returns the strictness tag.
func (m Marker) Bound() Bound { return m.bound }

// Value returns the reference value; ok is false for unbounded markers.
func (m Marker) Value() (any, bool) {
	return m.value, m.value != nil
}

// IsLowerUnbounded reports whether m sits before every value.
func (m Marker) IsLowerUnbounded() bool {
	return m.value == nil && m.bound == BoundAbove
}

// IsUpperUnbounded reports whether m sits after every value.
func (m Marker) IsUpperUnbounded() bool {
	return m.value == nil && m.bound == BoundBelow
}

// Compare orders two markers of the same type.
func (m Marker) Compare(o Marker) (int, error) {
	if m.typ != o.typ {
		return 0, Internalf("cannot compare markers of types %s and %s", m.typ.Name(), o.typ.Name())
	}
	switch {
	case m.IsUpperUnbounded():
		if o.IsUpperUnbounded() {
			return 0, nil
		}
		return 1, nil
	case m.IsLowerUnbounded():
		if o.IsLowerUnbounded() {
			return 0, nil
		}
		return -1, nil
	case o.IsUpperUnbounded():
		return -1, nil
	case o.IsLowerUnbounded():
		return 1, nil
	}
	c, err := m.typ.Compare(m.value, o.value)
	if err != nil {
		return 0, Internalf("marker compare: %v", err)
	}
	if c != 0 {
		return c, nil
	}
	return boundRank(m.bound) - boundRank(o.bound), nil
}

// Adjacent reports whether m and o touch with no value between them:
// same reference value, one EXACTLY and the other BELOW/ABOVE.
func (m Marker) Adjacent(o Marker) (bool, error) {
	if m.typ != o.typ {
		return false, Internalf("cannot compare markers of types %s and %s", m.typ.Name(), o.typ.Name())
	}
	if m.value == nil || o.value == nil {
		return false, nil
	}
	c, err := m.typ.Compare(m.value, o.value)
	if err != nil {
		return false, Internalf("marker compare: %v", err)
	}
	if c != 0 {
		return false, nil
	}
	return (m.bound == BoundExactly) != (o.bound == BoundExactly), nil
}

// GreaterAdjacent converts a high endpoint into the low endpoint of the
// region immediately after it.
func (m Marker) GreaterAdjacent() (Marker, error) {
	if m.value == nil {
		return Marker{}, Internalf("no greater adjacent for unbounded marker")
	}
	switch m.bound {
	case BoundBelow:
		return Marker{typ: m.typ, value: m.value, bound: BoundExactly}, nil
	case BoundExactly:
		return Marker{typ: m.typ, value: m.value, bound: BoundAbove}, nil
	default:
		return Marker{}, Internalf("no greater adjacent for ABOVE marker")
	}
}

// LesserAdjacent converts a low endpoint into the high endpoint of the
// region immediately before it.
func (m Marker) LesserAdjacent() (Marker, error) {
	if m.value == nil {
		return Marker{}, Internalf("no lesser adjacent for unbounded marker")
	}
	switch m.bound {
	case BoundAbove:
		return Marker{typ: m.typ, value: m.value, bound: BoundExactly}, nil
	case BoundExactly:
		return Marker{typ: m.typ, value: m.value, bound: BoundBelow}, nil
	default:
		return Marker{}, Internalf("no lesser adjacent for BELOW marker")
	}
}

// Equal reports marker identity: type, bound and value.
func (m Marker) Equal(o Marker) bool {
	return m.typ == o.typ && m.bound == o.bound && m.value == o.value
}

func minMarker(a, b Marker) (Marker, error) {
	c, err := a.Compare(b)
	if err != nil {
		return Marker{}, err
	}
	if c <= 0 {
		return a, nil
	}
	return b, nil
}

func maxMarker(a, b Marker) (Marker, error) {
	c, err := a.Compare(b)
	if err != nil {
		return Marker{}, err
	}
	if c >= 0 {
		return a, nil
	}
	return b, nil
}

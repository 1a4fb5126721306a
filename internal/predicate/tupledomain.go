package predicate

import (
	"sort"

	"github.com/stratumdb/stratum/internal/sqltype"
)

// TupleDomain constrains a set of columns conjunctively: a row matches when
// every column's value falls inside that column's domain. Columns absent
// from the map are unconstrained. The NONE tuple domain matches no row at
// all and carries no per-column state.
type TupleDomain struct {
	domains map[string]Domain
	none    bool
}

// AllTupleDomain matches every row.
func AllTupleDomain() TupleDomain {
	return TupleDomain{}
}

// NoneTupleDomain matches no row.
func NoneTupleDomain() TupleDomain {
	return TupleDomain{none: true}
}

// WithColumnDomains builds the canonical tuple domain for the given
// per-column constraints: ALL entries are dropped, and any NONE entry
// collapses the whole tuple domain to NONE.
func WithColumnDomains(domains map[string]Domain) TupleDomain {
	out := make(map[string]Domain, len(domains))
	for col, d := range domains {
		if d.IsNone() {
			return NoneTupleDomain()
		}
		if d.IsAll() {
			continue
		}
		out[col] = d
	}
	return TupleDomain{domains: out}
}

// IsAll reports whether every row matches.
func (t TupleDomain) IsAll() bool { return !t.none && len(t.domains) == 0 }

// IsNone reports whether no row matches.
func (t TupleDomain) IsNone() bool { return t.none }

// Domains returns the per-column constraints; ok is false for NONE, which
// has no column representation.
func (t TupleDomain) Domains() (map[string]Domain, bool) {
	if t.none {
		return nil, false
	}
	return t.domains, true
}

// Domain returns the constraint on col; ok is false when unconstrained or
// when the tuple domain is NONE.
func (t TupleDomain) Domain(col string) (Domain, bool) {
	if t.none {
		return Domain{}, false
	}
	d, ok := t.domains[col]
	return d, ok
}

// Columns returns the constrained column names in sorted order.
func (t TupleDomain) Columns() []string {
	cols := make([]string, 0, len(t.domains))
	for col := range t.domains {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// FixedValues extracts the columns pinned to a single value (or to NULL
// alone). Useful for point lookups.
func (t TupleDomain) FixedValues() map[string]sqltype.NullableValue {
	if t.none {
		return nil
	}
	out := make(map[string]sqltype.NullableValue)
	for col, d := range t.domains {
		if !d.IsNullableSingleValue() {
			continue
		}
		if d.IsOnlyNull() {
			out[col] = sqltype.NullValue(d.Type())
			continue
		}
		if v, ok := d.Values().SingleValue(); ok && !d.NullAllowed() {
			out[col] = sqltype.NullableValue{Type: d.Type(), Value: v}
		}
	}
	return out
}

// Equal reports canonical equality.
func (t TupleDomain) Equal(o TupleDomain) bool {
	if t.none || o.none {
		return t.none == o.none
	}
	if len(t.domains) != len(o.domains) {
		return false
	}
	for col, d := range t.domains {
		od, ok := o.domains[col]
		if !ok || !d.Equal(od) {
			return false
		}
	}
	return true
}

// TupleIntersect conjoins two tuple domains. Columns present on one side
// only carry over unchanged; shared columns intersect and may collapse the
// result to NONE.
func TupleIntersect(a, b TupleDomain) (TupleDomain, error) {
	if a.none || b.none {
		return NoneTupleDomain(), nil
	}
	out := make(map[string]Domain, len(a.domains)+len(b.domains))
	for col, d := range a.domains {
		out[col] = d
	}
	for col, d := range b.domains {
		prev, ok := out[col]
		if !ok {
			out[col] = d
			continue
		}
		merged, err := DomainIntersect(prev, d)
		if err != nil {
			return TupleDomain{}, err
		}
		out[col] = merged
	}
	return WithColumnDomains(out), nil
}

// ColumnWiseUnion over-approximates the union of tuple domains: only columns
// constrained on every side stay constrained, each by the union of its
// domains. The result matches every row either input matches, and possibly
// more. NONE inputs are identity elements.
func ColumnWiseUnion(first TupleDomain, rest ...TupleDomain) (TupleDomain, error) {
	out := first
	for _, t := range rest {
		var err error
		out, err = columnWiseUnionPair(out, t)
		if err != nil {
			return TupleDomain{}, err
		}
	}
	return out, nil
}

func columnWiseUnionPair(a, b TupleDomain) (TupleDomain, error) {
	if a.none {
		return b, nil
	}
	if b.none {
		return a, nil
	}
	out := make(map[string]Domain)
	for col, da := range a.domains {
		db, ok := b.domains[col]
		if !ok {
			continue
		}
		merged, err := DomainUnion(da, db)
		if err != nil {
			return TupleDomain{}, err
		}
		out[col] = merged
	}
	return WithColumnDomains(out), nil
}

// TupleContains reports whether a matches every row b matches, defined
// through the column-wise union: a contains b iff their union equals a.
func TupleContains(a, b TupleDomain) (bool, error) {
	if b.none {
		return true, nil
	}
	u, err := ColumnWiseUnion(a, b)
	if err != nil {
		return false, err
	}
	return u.Equal(a), nil
}

// TupleOverlaps reports whether some row matches both tuple domains.
func TupleOverlaps(a, b TupleDomain) (bool, error) {
	x, err := TupleIntersect(a, b)
	if err != nil {
		return false, err
	}
	return !x.IsNone(), nil
}

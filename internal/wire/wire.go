// Package wire serializes tuple domains for transport between planner and
// workers: a canonical JSON form used for fingerprinting and debugging, and
// a compact msgpack form for the wire itself. Both share one DTO layer so
// the two encodings cannot drift.
package wire

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/stratumdb/stratum/internal/predicate"
	"github.com/stratumdb/stratum/internal/sqltype"
)

// tupleDomainDTO is the transport shape of a tuple domain. NONE carries no
// column state, so it gets its own kind instead of a sentinel column list.
type tupleDomainDTO struct {
	Kind    string      `json:"kind" msgpack:"kind"` // "none" or "columns"
	Columns []columnDTO `json:"columns,omitempty" msgpack:"columns,omitempty"`
}

type columnDTO struct {
	Name        string      `json:"name" msgpack:"name"`
	Type        string      `json:"type" msgpack:"type"`
	NullAllowed bool        `json:"null_allowed" msgpack:"null_allowed"`
	Values      valueSetDTO `json:"values" msgpack:"values"`
}

type valueSetDTO struct {
	Shape    string       `json:"shape" msgpack:"shape"` // "ranges", "discrete" or "all_or_none"
	Ranges   []rangeDTO   `json:"ranges,omitempty" msgpack:"ranges,omitempty"`
	Discrete *discreteDTO `json:"discrete,omitempty" msgpack:"discrete,omitempty"`
	All      *bool        `json:"all,omitempty" msgpack:"all,omitempty"`
}

type discreteDTO struct {
	Inclusive bool  `json:"inclusive" msgpack:"inclusive"`
	Values    []any `json:"values" msgpack:"values"`
}

type rangeDTO struct {
	Low  markerDTO `json:"low" msgpack:"low"`
	High markerDTO `json:"high" msgpack:"high"`
}

// markerDTO always carries the value field: null means unbounded, and a
// marker value can never legitimately be null.
type markerDTO struct {
	Bound string `json:"bound" msgpack:"bound"`
	Value any    `json:"value" msgpack:"value"`
}

func toDTO(td predicate.TupleDomain) (tupleDomainDTO, error) {
	if td.IsNone() {
		return tupleDomainDTO{Kind: "none"}, nil
	}
	var columns []columnDTO
	for _, col := range td.Columns() {
		domain, _ := td.Domain(col)
		vs, err := valueSetToDTO(domain.Values())
		if err != nil {
			return tupleDomainDTO{}, fmt.Errorf("column %s: %w", col, err)
		}
		columns = append(columns, columnDTO{
			Name:        norm.NFC.String(col),
			Type:        domain.Type().Name(),
			NullAllowed: domain.NullAllowed(),
			Values:      vs,
		})
	}
	return tupleDomainDTO{Kind: "columns", Columns: columns}, nil
}

func valueSetToDTO(vs predicate.ValueSet) (valueSetDTO, error) {
	switch s := vs.(type) {
	case predicate.RangeSet:
		ranges := make([]rangeDTO, 0, len(s.Ranges()))
		for _, r := range s.Ranges() {
			ranges = append(ranges, rangeDTO{
				Low:  markerToDTO(r.Low()),
				High: markerToDTO(r.High()),
			})
		}
		return valueSetDTO{Shape: "ranges", Ranges: ranges}, nil
	case predicate.DiscreteSet:
		values := make([]any, 0, len(s.Values()))
		for _, v := range s.Values() {
			values = append(values, normalizeOutbound(v))
		}
		return valueSetDTO{
			Shape:    "discrete",
			Discrete: &discreteDTO{Inclusive: s.Inclusive(), Values: values},
		}, nil
	case predicate.AllOrNone:
		all := s.IsAll()
		return valueSetDTO{Shape: "all_or_none", All: &all}, nil
	default:
		return valueSetDTO{}, fmt.Errorf("unknown value set shape %T", vs)
	}
}

func markerToDTO(m predicate.Marker) markerDTO {
	v, ok := m.Value()
	if !ok {
		return markerDTO{Bound: string(m.Bound())}
	}
	return markerDTO{Bound: string(m.Bound()), Value: normalizeOutbound(v)}
}

func normalizeOutbound(v any) any {
	if s, ok := v.(string); ok {
		return norm.NFC.String(s)
	}
	return v
}

func fromDTO(dto tupleDomainDTO) (predicate.TupleDomain, error) {
	switch dto.Kind {
	case "none":
		return predicate.NoneTupleDomain(), nil
	case "columns":
	default:
		return predicate.TupleDomain{}, fmt.Errorf("unknown tuple domain kind %q", dto.Kind)
	}

	domains := make(map[string]predicate.Domain, len(dto.Columns))
	for _, col := range dto.Columns {
		if col.Name == "" {
			return predicate.TupleDomain{}, fmt.Errorf("column with empty name")
		}
		t, ok := sqltype.ForName(col.Type)
		if !ok {
			return predicate.TupleDomain{}, fmt.Errorf("column %s: unknown type %q", col.Name, col.Type)
		}
		vs, err := valueSetFromDTO(t, col.Values)
		if err != nil {
			return predicate.TupleDomain{}, fmt.Errorf("column %s: %w", col.Name, err)
		}
		if _, dup := domains[col.Name]; dup {
			return predicate.TupleDomain{}, fmt.Errorf("duplicate column %s", col.Name)
		}
		domains[col.Name] = predicate.NewDomain(vs, col.NullAllowed)
	}
	return predicate.WithColumnDomains(domains), nil
}

func valueSetFromDTO(t sqltype.Type, dto valueSetDTO) (predicate.ValueSet, error) {
	switch dto.Shape {
	case "ranges":
		ranges := make([]predicate.Range, 0, len(dto.Ranges))
		for _, r := range dto.Ranges {
			low, err := markerFromDTO(t, r.Low, true)
			if err != nil {
				return nil, err
			}
			high, err := markerFromDTO(t, r.High, false)
			if err != nil {
				return nil, err
			}
			rng, err := predicate.NewRange(low, high)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, rng)
		}
		return predicate.OfRanges(t, ranges...)
	case "discrete":
		if dto.Discrete == nil {
			return nil, fmt.Errorf("discrete shape without discrete payload")
		}
		values := make([]any, 0, len(dto.Discrete.Values))
		for _, v := range dto.Discrete.Values {
			nv, err := normalizeInbound(t, v)
			if err != nil {
				return nil, err
			}
			if nv == nil {
				return nil, fmt.Errorf("discrete set cannot hold null")
			}
			values = append(values, nv)
		}
		vs, err := predicate.OfValues(t, values...)
		if err != nil {
			return nil, err
		}
		if !dto.Discrete.Inclusive {
			return predicate.Complement(vs)
		}
		return vs, nil
	case "all_or_none":
		if dto.All == nil {
			return nil, fmt.Errorf("all_or_none shape without all flag")
		}
		if *dto.All {
			return predicate.AllValues(t), nil
		}
		return predicate.NoneValues(t), nil
	default:
		return nil, fmt.Errorf("unknown value set shape %q", dto.Shape)
	}
}

func markerFromDTO(t sqltype.Type, dto markerDTO, low bool) (predicate.Marker, error) {
	bound := predicate.Bound(dto.Bound)
	if dto.Value == nil {
		switch {
		case low && bound == predicate.BoundAbove:
			return predicate.LowerUnbounded(t), nil
		case !low && bound == predicate.BoundBelow:
			return predicate.UpperUnbounded(t), nil
		default:
			return predicate.Marker{}, fmt.Errorf("unbounded marker with bound %q", dto.Bound)
		}
	}
	v, err := normalizeInbound(t, dto.Value)
	if err != nil {
		return predicate.Marker{}, err
	}
	switch bound {
	case predicate.BoundExactly:
		return predicate.Exactly(t, v)
	case predicate.BoundAbove:
		return predicate.Above(t, v)
	case predicate.BoundBelow:
		return predicate.Below(t, v)
	default:
		return predicate.Marker{}, fmt.Errorf("unknown marker bound %q", dto.Bound)
	}
}

// normalizeInbound maps decoder output onto the native representation of t.
// JSON delivers every number as float64; msgpack delivers sized ints. Both
// funnel through here so the two codecs agree.
func normalizeInbound(t sqltype.Type, v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		// native already
	case float64:
		if t == sqltype.Double {
			break
		}
		i := int64(val)
		if float64(i) != val {
			return nil, fmt.Errorf("%s value %v is not integral", t.Name(), val)
		}
		v = i
	case int64:
		if t == sqltype.Double {
			v = float64(val)
		}
	case uint64:
		if val > uint64(1)<<63-1 {
			return nil, fmt.Errorf("%s value %d overflows", t.Name(), val)
		}
		return normalizeInbound(t, int64(val))
	case int:
		return normalizeInbound(t, int64(val))
	case int8:
		return normalizeInbound(t, int64(val))
	case int16:
		return normalizeInbound(t, int64(val))
	case int32:
		return normalizeInbound(t, int64(val))
	case uint8:
		return normalizeInbound(t, int64(val))
	case uint16:
		return normalizeInbound(t, int64(val))
	case uint32:
		return normalizeInbound(t, int64(val))
	case float32:
		return normalizeInbound(t, float64(val))
	default:
		return nil, fmt.Errorf("%s: unsupported wire value %T", t.Name(), v)
	}
	if err := t.ValidateValue(v); err != nil {
		return nil, err
	}
	return v, nil
}

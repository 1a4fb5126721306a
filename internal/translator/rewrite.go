package translator

import (
	"math"

	"github.com/stratumdb/stratum/internal/expr"
	"github.com/stratumdb/stratum/internal/predicate"
)

// rewriteDoubleOnIntegral turns a comparison between an integral column and
// a double literal into an integral comparison. Exact values coerce
// directly; fractional values round toward the side that preserves the
// predicate. Comparisons no integral can satisfy (or that every integral
// satisfies) become contradiction or tautology pairs over the column rather
// than boolean constants, so a NULL input still yields NULL.
func rewriteDoubleOnIntegral(op expr.CompareOp, col *expr.ColumnRef, value float64) (expr.Node, error) {
	lit := func(v int64) *expr.Literal {
		return &expr.Literal{Type: col.Type, Value: v}
	}
	cmp := func(op expr.CompareOp, v int64) expr.Node {
		return &expr.Comparison{Op: op, Left: col, Right: lit(v)}
	}
	// NULL AND NULL / NULL OR NULL stay NULL, so these pairs are FALSE and
	// TRUE for non-null inputs only.
	contradiction := func(v int64) expr.Node {
		return &expr.Logical{Op: expr.OpAnd, Terms: []expr.Node{cmp(expr.OpEQ, v), cmp(expr.OpNE, v)}}
	}
	tautology := func(v int64) expr.Node {
		return &expr.Logical{Op: expr.OpOr, Terms: []expr.Node{cmp(expr.OpEQ, v), cmp(expr.OpNE, v)}}
	}

	if math.IsNaN(value) {
		switch op {
		case expr.OpEQ, expr.OpLT, expr.OpLE, expr.OpGT, expr.OpGE:
			return contradiction(0), nil
		case expr.OpNE:
			return tautology(0), nil
		case expr.OpDistinct:
			return expr.True(), nil
		default:
			return nil, predicate.Internalf("unknown comparison operator %s", op)
		}
	}

	floor, exact, inRange := saturatedFloor(value)
	if !inRange {
		aboveRange := value > 0
		switch op {
		case expr.OpEQ:
			return contradiction(floor), nil
		case expr.OpNE:
			return tautology(floor), nil
		case expr.OpDistinct:
			return expr.True(), nil
		case expr.OpGT, expr.OpGE:
			if aboveRange {
				return contradiction(floor), nil
			}
			return tautology(floor), nil
		case expr.OpLT, expr.OpLE:
			if aboveRange {
				return tautology(floor), nil
			}
			return contradiction(floor), nil
		default:
			return nil, predicate.Internalf("unknown comparison operator %s", op)
		}
	}

	ceil := floor
	if !exact {
		ceil = floor + 1
	}

	switch op {
	case expr.OpGE, expr.OpLT:
		// x >= 5.5 holds exactly when x >= 6; likewise x < 5.5 iff x < 6.
		return cmp(op, ceil), nil
	case expr.OpGT, expr.OpLE:
		return cmp(op, floor), nil
	case expr.OpEQ:
		if exact {
			return cmp(expr.OpEQ, floor), nil
		}
		return contradiction(floor), nil
	case expr.OpNE:
		if exact {
			return cmp(expr.OpNE, floor), nil
		}
		return tautology(floor), nil
	case expr.OpDistinct:
		if exact {
			return &expr.Comparison{Op: expr.OpDistinct, Left: col, Right: lit(floor)}, nil
		}
		// Every integral (and NULL) is distinct from a fractional value.
		return expr.True(), nil
	default:
		return nil, predicate.Internalf("unknown comparison operator %s", op)
	}
}

// saturatedFloor rounds down to int64. Values past the representable edges
// clamp and report inRange false; exact reports that the double names an
// int64 precisely.
func saturatedFloor(value float64) (floor int64, exact, inRange bool) {
	f := math.Floor(value)
	// float64(math.MaxInt64) is 2^63, one past the max.
	if f >= float64(math.MaxInt64) {
		return math.MaxInt64, false, false
	}
	if f < float64(math.MinInt64) {
		return math.MinInt64, false, false
	}
	return int64(f), f == value, true
}

package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// EvalError reports an expression that cannot be evaluated against a row:
// an unbound column, a type confusion, or an unsupported call.
type EvalError struct {
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("cannot evaluate %s: %s", e.Expr, e.Message)
}

func evalErrorf(n Node, format string, args ...any) error {
	return &EvalError{Expr: n.String(), Message: fmt.Sprintf(format, args...)}
}

// IsEvalError reports whether err is (or wraps) an EvalError.
func IsEvalError(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}

// scalarCalls are the calls the evaluator can execute. Each propagates NULL:
// a nil argument yields a nil result.
var scalarCalls = map[string]func(args []any) (any, error){
	"abs": func(args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs takes one argument")
		}
		switch v := args[0].(type) {
		case int64:
			if v < 0 {
				return -v, nil
			}
			return v, nil
		case float64:
			return math.Abs(v), nil
		default:
			return nil, fmt.Errorf("abs of %T", v)
		}
	},
	"floor": func(args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("floor takes one argument")
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("floor of %T", args[0])
		}
		return math.Floor(v), nil
	},
	"ceil": func(args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("ceil takes one argument")
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("ceil of %T", args[0])
		}
		return math.Ceil(v), nil
	},
	"lower": func(args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("lower takes one argument")
		}
		v, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("lower of %T", args[0])
		}
		return strings.ToLower(v), nil
	},
	"upper": func(args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("upper takes one argument")
		}
		v, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("upper of %T", args[0])
		}
		return strings.ToUpper(v), nil
	},
	"length": func(args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("length takes one argument")
		}
		v, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("length of %T", args[0])
		}
		return int64(len(v)), nil
	},
}

// Evaluate computes the expression against a row binding column names to
// native values. A nil result is SQL NULL; boolean connectives follow
// three-valued logic.
func Evaluate(n Node, row map[string]any) (any, error) {
	switch x := n.(type) {
	case *ColumnRef:
		v, ok := row[x.Name]
		if !ok {
			return nil, evalErrorf(n, "unbound column")
		}
		return v, nil

	case *Literal:
		return x.Value, nil

	case *Comparison:
		left, err := Evaluate(x.Left, row)
		if err != nil {
			return nil, err
		}
		right, err := Evaluate(x.Right, row)
		if err != nil {
			return nil, err
		}
		if x.Op == OpDistinct {
			// Null-safe: NULL is distinct from every value but itself.
			if left == nil || right == nil {
				return left != nil || right != nil, nil
			}
			c, err := compareValues(left, right)
			if err != nil {
				return nil, evalErrorf(n, "%v", err)
			}
			return c != 0, nil
		}
		if left == nil || right == nil {
			return nil, nil
		}
		c, err := compareValues(left, right)
		if err != nil {
			return nil, evalErrorf(n, "%v", err)
		}
		switch x.Op {
		case OpEQ:
			return c == 0, nil
		case OpNE:
			return c != 0, nil
		case OpLT:
			return c < 0, nil
		case OpLE:
			return c <= 0, nil
		case OpGT:
			return c > 0, nil
		case OpGE:
			return c >= 0, nil
		default:
			return nil, evalErrorf(n, "unknown operator %s", x.Op)
		}

	case *Logical:
		sawNull := false
		for _, t := range x.Terms {
			v, err := Evaluate(t, row)
			if err != nil {
				return nil, err
			}
			if v == nil {
				sawNull = true
				continue
			}
			b, ok := v.(bool)
			if !ok {
				return nil, evalErrorf(t, "expected boolean, got %T", v)
			}
			if x.Op == OpAnd && !b {
				return false, nil
			}
			if x.Op == OpOr && b {
				return true, nil
			}
		}
		if sawNull {
			return nil, nil
		}
		return x.Op == OpAnd, nil

	case *Not:
		v, err := Evaluate(x.Term, row)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		b, ok := v.(bool)
		if !ok {
			return nil, evalErrorf(n, "expected boolean, got %T", v)
		}
		return !b, nil

	case *In:
		v, err := Evaluate(x.Value, row)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		sawNull := false
		for _, t := range x.List {
			item, err := Evaluate(t, row)
			if err != nil {
				return nil, err
			}
			if item == nil {
				sawNull = true
				continue
			}
			c, err := compareValues(v, item)
			if err != nil {
				return nil, evalErrorf(n, "%v", err)
			}
			if c == 0 {
				return true, nil
			}
		}
		if sawNull {
			return nil, nil
		}
		return false, nil

	case *Between:
		lower := &Comparison{Op: OpGE, Left: x.Value, Right: x.Min}
		upper := &Comparison{Op: OpLE, Left: x.Value, Right: x.Max}
		return Evaluate(&Logical{Op: OpAnd, Terms: []Node{lower, upper}}, row)

	case *IsNull:
		v, err := Evaluate(x.Term, row)
		if err != nil {
			return nil, err
		}
		return v == nil, nil

	case *IsNotNull:
		v, err := Evaluate(x.Term, row)
		if err != nil {
			return nil, err
		}
		return v != nil, nil

	case *Call:
		fn, ok := scalarCalls[x.Name]
		if !ok {
			return nil, evalErrorf(n, "unsupported call")
		}
		args := make([]any, len(x.Args))
		for i, a := range x.Args {
			v, err := Evaluate(a, row)
			if err != nil {
				return nil, err
			}
			if v == nil {
				return nil, nil
			}
			args[i] = v
		}
		out, err := fn(args)
		if err != nil {
			return nil, evalErrorf(n, "%v", err)
		}
		return out, nil

	default:
		return nil, evalErrorf(n, "unknown node %T", n)
	}
}

// compareValues orders two native values, promoting int64 against float64.
func compareValues(a, b any) (int, error) {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return compareOrdered(x, y), nil
		case float64:
			return compareOrdered(float64(x), y), nil
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return compareOrdered(x, y), nil
		case int64:
			return compareOrdered(x, float64(y)), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return compareOrdered(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case y:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	return 0, fmt.Errorf("incomparable values %T and %T", a, b)
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

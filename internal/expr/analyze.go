package expr

import (
	"errors"
	"fmt"

	"github.com/stratumdb/stratum/internal/sqltype"
)

// TypeError reports an ill-typed expression. Expr holds the rendered
// offending subexpression.
type TypeError struct {
	Expr    string
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error in %s: %s", e.Expr, e.Message)
}

func typeErrorf(n Node, format string, args ...any) error {
	return &TypeError{Expr: n.String(), Message: fmt.Sprintf(format, args...)}
}

// IsTypeError reports whether err is (or wraps) a TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

// Analyze type-checks the expression and returns its result type. Boolean
// connectives require boolean terms; comparisons require operand types
// coercible to a common comparable type, with ordering operators further
// requiring orderability.
func Analyze(n Node) (sqltype.Type, error) {
	switch x := n.(type) {
	case *ColumnRef:
		if x.Type == nil {
			return nil, typeErrorf(n, "unresolved column")
		}
		return x.Type, nil
	case *Literal:
		if x.Type == nil {
			return nil, typeErrorf(n, "untyped literal")
		}
		if x.Value != nil {
			if err := x.Type.ValidateValue(x.Value); err != nil {
				return nil, typeErrorf(n, "%v", err)
			}
		}
		return x.Type, nil
	case *Comparison:
		lt, err := Analyze(x.Left)
		if err != nil {
			return nil, err
		}
		rt, err := Analyze(x.Right)
		if err != nil {
			return nil, err
		}
		ct, err := commonType(n, lt, rt)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case OpLT, OpLE, OpGT, OpGE:
			if !ct.Orderable() {
				return nil, typeErrorf(n, "%s is not orderable", ct.Name())
			}
		default:
			if !ct.Comparable() {
				return nil, typeErrorf(n, "%s is not comparable", ct.Name())
			}
		}
		return sqltype.Boolean, nil
	case *Logical:
		if len(x.Terms) < 2 {
			return nil, typeErrorf(n, "%s needs at least two terms", x.Op)
		}
		for _, t := range x.Terms {
			if err := requireBoolean(t); err != nil {
				return nil, err
			}
		}
		return sqltype.Boolean, nil
	case *Not:
		if err := requireBoolean(x.Term); err != nil {
			return nil, err
		}
		return sqltype.Boolean, nil
	case *In:
		vt, err := Analyze(x.Value)
		if err != nil {
			return nil, err
		}
		if len(x.List) == 0 {
			return nil, typeErrorf(n, "IN list is empty")
		}
		for _, t := range x.List {
			lt, err := Analyze(t)
			if err != nil {
				return nil, err
			}
			if _, err := commonType(n, vt, lt); err != nil {
				return nil, err
			}
		}
		return sqltype.Boolean, nil
	case *Between:
		vt, err := Analyze(x.Value)
		if err != nil {
			return nil, err
		}
		for _, bound := range []Node{x.Min, x.Max} {
			bt, err := Analyze(bound)
			if err != nil {
				return nil, err
			}
			ct, err := commonType(n, vt, bt)
			if err != nil {
				return nil, err
			}
			if !ct.Orderable() {
				return nil, typeErrorf(n, "%s is not orderable", ct.Name())
			}
		}
		return sqltype.Boolean, nil
	case *IsNull:
		if _, err := Analyze(x.Term); err != nil {
			return nil, err
		}
		return sqltype.Boolean, nil
	case *IsNotNull:
		if _, err := Analyze(x.Term); err != nil {
			return nil, err
		}
		return sqltype.Boolean, nil
	case *Call:
		if x.Type == nil {
			return nil, typeErrorf(n, "call %s has no result type", x.Name)
		}
		for _, a := range x.Args {
			if _, err := Analyze(a); err != nil {
				return nil, err
			}
		}
		return x.Type, nil
	default:
		return nil, typeErrorf(n, "unknown node %T", n)
	}
}

func requireBoolean(n Node) error {
	t, err := Analyze(n)
	if err != nil {
		return err
	}
	if t != sqltype.Boolean && t != sqltype.Unknown {
		return typeErrorf(n, "expected boolean, got %s", t.Name())
	}
	return nil
}

// commonType finds the type both operands coerce to; Unknown (the NULL
// literal's type) defers to the other side.
func commonType(ctx Node, a, b sqltype.Type) (sqltype.Type, error) {
	switch {
	case a == b:
		return a, nil
	case a == sqltype.Unknown:
		return b, nil
	case b == sqltype.Unknown:
		return a, nil
	case sqltype.CanCoerce(a, b):
		return b, nil
	case sqltype.CanCoerce(b, a):
		return a, nil
	default:
		return nil, typeErrorf(ctx, "cannot compare %s with %s", a.Name(), b.Name())
	}
}

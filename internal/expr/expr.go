// Package expr models the scalar predicate language the translator works
// on: column references, literals, comparisons, boolean connectives and a
// small set of calls. Nodes form a sealed sum; consumers switch exhaustively
// on the concrete pointer types.
package expr

import (
	"strings"

	"github.com/stratumdb/stratum/internal/sqltype"
)

// Node is a scalar expression. The concrete types are *ColumnRef, *Literal,
// *Comparison, *Logical, *Not, *In, *Between, *IsNull, *IsNotNull and *Call.
type Node interface {
	String() string
	isNode()
}

// ColumnRef names a table column, carrying its resolved type.
type ColumnRef struct {
	Name string
	Type sqltype.Type
}

// Literal is a typed constant. A nil Value is the SQL NULL literal; bare
// NULL carries the Unknown type.
type Literal struct {
	Type  sqltype.Type
	Value any
}

// CompareOp is a binary comparison operator.
type CompareOp string

const (
	OpEQ       CompareOp = "="
	OpNE       CompareOp = "<>"
	OpLT       CompareOp = "<"
	OpLE       CompareOp = "<="
	OpGT       CompareOp = ">"
	OpGE       CompareOp = ">="
	OpDistinct CompareOp = "IS DISTINCT FROM"
)

// Comparison applies a comparison operator to two operands.
type Comparison struct {
	Op    CompareOp
	Left  Node
	Right Node
}

// LogicalOp is a boolean connective.
type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// Logical joins two or more terms with AND or OR.
type Logical struct {
	Op    LogicalOp
	Terms []Node
}

// Not negates a boolean term.
type Not struct {
	Term Node
}

// In tests membership of Value in a literal list.
type In struct {
	Value Node
	List  []Node
}

// Between is the inclusive range test Value BETWEEN Min AND Max.
type Between struct {
	Value Node
	Min   Node
	Max   Node
}

// IsNull tests for SQL NULL.
type IsNull struct {
	Term Node
}

// IsNotNull tests for non-NULL.
type IsNotNull struct {
	Term Node
}

// Call invokes a named scalar function. The result type is resolved at
// construction.
type Call struct {
	Name string
	Args []Node
	Type sqltype.Type
}

func (*ColumnRef) isNode()  {}
func (*Literal) isNode()    {}
func (*Comparison) isNode() {}
func (*Logical) isNode()    {}
func (*Not) isNode()        {}
func (*In) isNode()         {}
func (*Between) isNode()    {}
func (*IsNull) isNode()     {}
func (*IsNotNull) isNode()  {}
func (*Call) isNode()       {}

// True is the boolean TRUE literal.
func True() *Literal { return &Literal{Type: sqltype.Boolean, Value: true} }

// False is the boolean FALSE literal.
func False() *Literal { return &Literal{Type: sqltype.Boolean, Value: false} }

// Null is the bare NULL literal.
func Null() *Literal { return &Literal{Type: sqltype.Unknown} }

// IsTrue reports whether n is the TRUE literal.
func IsTrue(n Node) bool {
	l, ok := n.(*Literal)
	return ok && l.Value == true
}

// IsFalse reports whether n is the FALSE literal.
func IsFalse(n Node) bool {
	l, ok := n.(*Literal)
	return ok && l.Value == false
}

// IsNullLiteral reports whether n is a NULL literal of any type.
func IsNullLiteral(n Node) bool {
	l, ok := n.(*Literal)
	return ok && l.Value == nil
}

// Flip mirrors a comparison operator, for rewriting "literal op column" as
// "column op literal".
func (op CompareOp) Flip() CompareOp {
	switch op {
	case OpLT:
		return OpGT
	case OpLE:
		return OpGE
	case OpGT:
		return OpLT
	case OpGE:
		return OpLE
	default:
		return op
	}
}

func (c *ColumnRef) String() string { return c.Name }

func (l *Literal) String() string {
	return sqltype.NullableValue{Type: l.Type, Value: l.Value}.String()
}

func (c *Comparison) String() string {
	return "(" + c.Left.String() + " " + string(c.Op) + " " + c.Right.String() + ")"
}

func (l *Logical) String() string {
	parts := make([]string, len(l.Terms))
	for i, t := range l.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " "+string(l.Op)+" ") + ")"
}

func (n *Not) String() string { return "(NOT " + n.Term.String() + ")" }

func (i *In) String() string {
	parts := make([]string, len(i.List))
	for j, t := range i.List {
		parts[j] = t.String()
	}
	return "(" + i.Value.String() + " IN (" + strings.Join(parts, ", ") + "))"
}

func (b *Between) String() string {
	return "(" + b.Value.String() + " BETWEEN " + b.Min.String() + " AND " + b.Max.String() + ")"
}

func (n *IsNull) String() string    { return "(" + n.Term.String() + " IS NULL)" }
func (n *IsNotNull) String() string { return "(" + n.Term.String() + " IS NOT NULL)" }

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Equal reports structural equality of two expressions.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *ColumnRef:
		y, ok := b.(*ColumnRef)
		return ok && x.Name == y.Name && x.Type == y.Type
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Type == y.Type && x.Value == y.Value
	case *Comparison:
		y, ok := b.(*Comparison)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Logical:
		y, ok := b.(*Logical)
		if !ok || x.Op != y.Op || len(x.Terms) != len(y.Terms) {
			return false
		}
		for i := range x.Terms {
			if !Equal(x.Terms[i], y.Terms[i]) {
				return false
			}
		}
		return true
	case *Not:
		y, ok := b.(*Not)
		return ok && Equal(x.Term, y.Term)
	case *In:
		y, ok := b.(*In)
		if !ok || !Equal(x.Value, y.Value) || len(x.List) != len(y.List) {
			return false
		}
		for i := range x.List {
			if !Equal(x.List[i], y.List[i]) {
				return false
			}
		}
		return true
	case *Between:
		y, ok := b.(*Between)
		return ok && Equal(x.Value, y.Value) && Equal(x.Min, y.Min) && Equal(x.Max, y.Max)
	case *IsNull:
		y, ok := b.(*IsNull)
		return ok && Equal(x.Term, y.Term)
	case *IsNotNull:
		y, ok := b.(*IsNotNull)
		return ok && Equal(x.Term, y.Term)
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.Name != y.Name || x.Type != y.Type || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

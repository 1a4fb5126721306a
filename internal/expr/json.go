package expr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/stratumdb/stratum/internal/sqltype"
)

// nodeJSON is the wire shape of an expression node: a tagged union keyed by
// the "node" field.
type nodeJSON struct {
	Node  string          `json:"node"`
	Name  string          `json:"name,omitempty"`
	Type  string          `json:"type,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Op    string          `json:"op,omitempty"`
	Left  *nodeJSON       `json:"left,omitempty"`
	Right *nodeJSON       `json:"right,omitempty"`
	Term  *nodeJSON       `json:"term,omitempty"`
	Min   *nodeJSON       `json:"min,omitempty"`
	Max   *nodeJSON       `json:"max,omitempty"`
	Terms []*nodeJSON     `json:"terms,omitempty"`
	List  []*nodeJSON     `json:"list,omitempty"`
	Args  []*nodeJSON     `json:"args,omitempty"`
}

// MarshalNode encodes an expression as tagged-union JSON.
func MarshalNode(n Node) ([]byte, error) {
	enc, err := encodeNode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// UnmarshalNode decodes a tagged-union JSON expression.
func UnmarshalNode(data []byte) (Node, error) {
	var raw nodeJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	return decodeNode(&raw)
}

func encodeNode(n Node) (*nodeJSON, error) {
	switch x := n.(type) {
	case *ColumnRef:
		return &nodeJSON{Node: "column", Name: x.Name, Type: x.Type.Name()}, nil
	case *Literal:
		value, err := json.Marshal(x.Value)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "literal", Type: x.Type.Name(), Value: value}, nil
	case *Comparison:
		left, err := encodeNode(x.Left)
		if err != nil {
			return nil, err
		}
		right, err := encodeNode(x.Right)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "comparison", Op: string(x.Op), Left: left, Right: right}, nil
	case *Logical:
		terms, err := encodeNodes(x.Terms)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "logical", Op: string(x.Op), Terms: terms}, nil
	case *Not:
		term, err := encodeNode(x.Term)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "not", Term: term}, nil
	case *In:
		value, err := encodeNode(x.Value)
		if err != nil {
			return nil, err
		}
		list, err := encodeNodes(x.List)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "in", Term: value, List: list}, nil
	case *Between:
		value, err := encodeNode(x.Value)
		if err != nil {
			return nil, err
		}
		min, err := encodeNode(x.Min)
		if err != nil {
			return nil, err
		}
		max, err := encodeNode(x.Max)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "between", Term: value, Min: min, Max: max}, nil
	case *IsNull:
		term, err := encodeNode(x.Term)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "is_null", Term: term}, nil
	case *IsNotNull:
		term, err := encodeNode(x.Term)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "is_not_null", Term: term}, nil
	case *Call:
		args, err := encodeNodes(x.Args)
		if err != nil {
			return nil, err
		}
		return &nodeJSON{Node: "call", Name: x.Name, Type: x.Type.Name(), Args: args}, nil
	default:
		return nil, fmt.Errorf("encode expression: unknown node %T", n)
	}
}

func encodeNodes(nodes []Node) ([]*nodeJSON, error) {
	out := make([]*nodeJSON, len(nodes))
	for i, n := range nodes {
		enc, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func decodeNode(raw *nodeJSON) (Node, error) {
	if raw == nil {
		return nil, fmt.Errorf("decode expression: missing node")
	}
	switch raw.Node {
	case "column":
		t, ok := sqltype.ForName(raw.Type)
		if !ok {
			return nil, fmt.Errorf("column %s: unknown type %q", raw.Name, raw.Type)
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("column node needs a name")
		}
		return &ColumnRef{Name: raw.Name, Type: t}, nil
	case "literal":
		t, ok := sqltype.ForName(raw.Type)
		if !ok {
			return nil, fmt.Errorf("literal: unknown type %q", raw.Type)
		}
		v, err := decodeLiteralValue(t, raw.Value)
		if err != nil {
			return nil, err
		}
		return &Literal{Type: t, Value: v}, nil
	case "comparison":
		left, err := decodeNode(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeNode(raw.Right)
		if err != nil {
			return nil, err
		}
		op := CompareOp(raw.Op)
		switch op {
		case OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE, OpDistinct:
		default:
			return nil, fmt.Errorf("unknown comparison operator %q", raw.Op)
		}
		return &Comparison{Op: op, Left: left, Right: right}, nil
	case "logical":
		op := LogicalOp(raw.Op)
		if op != OpAnd && op != OpOr {
			return nil, fmt.Errorf("unknown logical operator %q", raw.Op)
		}
		if len(raw.Terms) < 2 {
			return nil, fmt.Errorf("%s needs at least two terms", op)
		}
		terms, err := decodeNodes(raw.Terms)
		if err != nil {
			return nil, err
		}
		return &Logical{Op: op, Terms: terms}, nil
	case "not":
		term, err := decodeNode(raw.Term)
		if err != nil {
			return nil, err
		}
		return &Not{Term: term}, nil
	case "in":
		value, err := decodeNode(raw.Term)
		if err != nil {
			return nil, err
		}
		if len(raw.List) == 0 {
			return nil, fmt.Errorf("IN list is empty")
		}
		list, err := decodeNodes(raw.List)
		if err != nil {
			return nil, err
		}
		return &In{Value: value, List: list}, nil
	case "between":
		value, err := decodeNode(raw.Term)
		if err != nil {
			return nil, err
		}
		min, err := decodeNode(raw.Min)
		if err != nil {
			return nil, err
		}
		max, err := decodeNode(raw.Max)
		if err != nil {
			return nil, err
		}
		return &Between{Value: value, Min: min, Max: max}, nil
	case "is_null":
		term, err := decodeNode(raw.Term)
		if err != nil {
			return nil, err
		}
		return &IsNull{Term: term}, nil
	case "is_not_null":
		term, err := decodeNode(raw.Term)
		if err != nil {
			return nil, err
		}
		return &IsNotNull{Term: term}, nil
	case "call":
		t, ok := sqltype.ForName(raw.Type)
		if !ok {
			return nil, fmt.Errorf("call %s: unknown type %q", raw.Name, raw.Type)
		}
		args, err := decodeNodes(raw.Args)
		if err != nil {
			return nil, err
		}
		return &Call{Name: raw.Name, Args: args, Type: t}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", raw.Node)
	}
}

func decodeNodes(raws []*nodeJSON) ([]Node, error) {
	out := make([]Node, len(raws))
	for i, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// decodeLiteralValue maps a JSON value onto the native representation of t.
// JSON numbers arrive as float64; integral types re-decode as int64 so 5 and
// 5.0 stay distinguishable from true doubles.
func decodeLiteralValue(t sqltype.Type, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch t {
	case sqltype.Boolean:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("boolean literal: %w", err)
		}
		return v, nil
	case sqltype.Integer, sqltype.Bigint, sqltype.Date:
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%s literal: %w", t.Name(), err)
		}
		return v, nil
	case sqltype.Double:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("double literal: %w", err)
		}
		return v, nil
	case sqltype.Varchar, sqltype.JSON:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%s literal: %w", t.Name(), err)
		}
		return v, nil
	case sqltype.Unknown:
		return nil, fmt.Errorf("unknown-typed literal must be null")
	default:
		return nil, fmt.Errorf("unsupported literal type %s", t.Name())
	}
}

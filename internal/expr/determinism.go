package expr

// nondeterministicCalls lists functions whose value can change between
// evaluations of the same row.
var nondeterministicCalls = map[string]struct{}{
	"random":            {},
	"rand":              {},
	"uuid":              {},
	"now":               {},
	"current_timestamp": {},
}

// Deterministic reports whether the expression yields the same value for the
// same inputs. Only calls can introduce nondeterminism.
func Deterministic(n Node) bool {
	switch x := n.(type) {
	case *ColumnRef, *Literal:
		return true
	case *Comparison:
		return Deterministic(x.Left) && Deterministic(x.Right)
	case *Logical:
		for _, t := range x.Terms {
			if !Deterministic(t) {
				return false
			}
		}
		return true
	case *Not:
		return Deterministic(x.Term)
	case *In:
		if !Deterministic(x.Value) {
			return false
		}
		for _, t := range x.List {
			if !Deterministic(t) {
				return false
			}
		}
		return true
	case *Between:
		return Deterministic(x.Value) && Deterministic(x.Min) && Deterministic(x.Max)
	case *IsNull:
		return Deterministic(x.Term)
	case *IsNotNull:
		return Deterministic(x.Term)
	case *Call:
		if _, ok := nondeterministicCalls[x.Name]; ok {
			return false
		}
		for _, a := range x.Args {
			if !Deterministic(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// HasColumns reports whether the expression references any column.
func HasColumns(n Node) bool {
	switch x := n.(type) {
	case *ColumnRef:
		return true
	case *Literal:
		return false
	case *Comparison:
		return HasColumns(x.Left) || HasColumns(x.Right)
	case *Logical:
		for _, t := range x.Terms {
			if HasColumns(t) {
				return true
			}
		}
		return false
	case *Not:
		return HasColumns(x.Term)
	case *In:
		if HasColumns(x.Value) {
			return true
		}
		for _, t := range x.List {
			if HasColumns(t) {
				return true
			}
		}
		return false
	case *Between:
		return HasColumns(x.Value) || HasColumns(x.Min) || HasColumns(x.Max)
	case *IsNull:
		return HasColumns(x.Term)
	case *IsNotNull:
		return HasColumns(x.Term)
	case *Call:
		for _, a := range x.Args {
			if HasColumns(a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Columns collects the distinct column names referenced by the expression,
// in first-appearance order.
func Columns(n Node) []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(Node)
	walk = func(n Node) {
		switch x := n.(type) {
		case *ColumnRef:
			if _, ok := seen[x.Name]; !ok {
				seen[x.Name] = struct{}{}
				out = append(out, x.Name)
			}
		case *Literal:
		case *Comparison:
			walk(x.Left)
			walk(x.Right)
		case *Logical:
			for _, t := range x.Terms {
				walk(t)
			}
		case *Not:
			walk(x.Term)
		case *In:
			walk(x.Value)
			for _, t := range x.List {
				walk(t)
			}
		case *Between:
			walk(x.Value)
			walk(x.Min)
			walk(x.Max)
		case *IsNull:
			walk(x.Term)
		case *IsNotNull:
			walk(x.Term)
		case *Call:
			for _, a := range x.Args {
				walk(a)
			}
		}
	}
	walk(n)
	return out
}

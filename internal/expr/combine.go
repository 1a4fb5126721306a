package expr

// ExtractConjuncts flattens nested ANDs into a list of terms.
func ExtractConjuncts(n Node) []Node {
	return extractTerms(n, OpAnd)
}

// ExtractDisjuncts flattens nested ORs into a list of terms.
func ExtractDisjuncts(n Node) []Node {
	return extractTerms(n, OpOr)
}

func extractTerms(n Node, op LogicalOp) []Node {
	l, ok := n.(*Logical)
	if !ok || l.Op != op {
		return []Node{n}
	}
	var out []Node
	for _, t := range l.Terms {
		out = append(out, extractTerms(t, op)...)
	}
	return out
}

// CombineConjuncts joins terms with AND in canonical form: nested ANDs are
// flattened, TRUE terms and duplicates dropped, and a FALSE term collapses
// the whole expression. No terms yields TRUE.
func CombineConjuncts(terms ...Node) Node {
	var flat []Node
	for _, t := range terms {
		flat = append(flat, ExtractConjuncts(t)...)
	}

	seen := make(map[string]struct{}, len(flat))
	var out []Node
	for _, t := range flat {
		if IsTrue(t) {
			continue
		}
		if IsFalse(t) {
			return False()
		}
		key := t.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}

	switch len(out) {
	case 0:
		return True()
	case 1:
		return out[0]
	default:
		return &Logical{Op: OpAnd, Terms: out}
	}
}

// CombineDisjuncts joins terms with OR in canonical form; no terms yields
// FALSE.
func CombineDisjuncts(terms ...Node) Node {
	return CombineDisjunctsWithDefault(False(), terms...)
}

// CombineDisjunctsWithDefault joins terms with OR, returning emptyDefault
// when every term drops out. Nested ORs are flattened, FALSE terms and
// duplicates dropped, and a TRUE term collapses the whole expression.
func CombineDisjunctsWithDefault(emptyDefault Node, terms ...Node) Node {
	var flat []Node
	for _, t := range terms {
		flat = append(flat, ExtractDisjuncts(t)...)
	}

	seen := make(map[string]struct{}, len(flat))
	var out []Node
	for _, t := range flat {
		if IsFalse(t) {
			continue
		}
		if IsTrue(t) {
			return True()
		}
		key := t.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}

	switch len(out) {
	case 0:
		return emptyDefault
	case 1:
		return out[0]
	default:
		return &Logical{Op: OpOr, Terms: out}
	}
}

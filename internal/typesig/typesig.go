package typesig

import (
	"fmt"
	"strconv"
	"strings"
)

// RowBase is the base name of SQL row types. Row signatures get special
// treatment in both parsing (legacy angle-bracket grammar) and serialization.
const RowBase = "row"

// TypeSignature describes a SQL type structurally: a base name and an
// ordered list of parameters. Immutable after construction.
//
// Base name comparison is case-insensitive: bigint, BIGINT and Bigint are
// the same signature.
type TypeSignature struct {
	base       string
	parameters []TypeSignatureParameter
	calculated bool
}

// New builds a TypeSignature from a base name and parameters.
// The base must be non-empty and must not contain '<', '>' or ','.
func New(base string, parameters ...TypeSignatureParameter) (TypeSignature, error) {
	if base == "" {
		return TypeSignature{}, fmt.Errorf("type signature base is empty")
	}
	if strings.ContainsAny(base, "<>,") {
		return TypeSignature{}, fmt.Errorf("bad characters in base type %q", base)
	}
	calculated := false
	for _, p := range parameters {
		if p.Calculated() {
			calculated = true
			break
		}
	}
	params := make([]TypeSignatureParameter, len(parameters))
	copy(params, parameters)
	return TypeSignature{base: base, parameters: params, calculated: calculated}, nil
}

// NewRow builds a row signature from field types and optional field names.
// When names is empty, field0, field1, ... are generated. When names are
// given, the counts must match exactly.
func NewRow(fieldTypes []TypeSignature, names []string) (TypeSignature, error) {
	if len(names) != 0 && len(names) != len(fieldTypes) {
		return TypeSignature{}, fmt.Errorf("row type has %d field types but %d field names", len(fieldTypes), len(names))
	}
	params := make([]TypeSignatureParameter, len(fieldTypes))
	for i, ft := range fieldTypes {
		name := fmt.Sprintf("field%d", i)
		if len(names) != 0 {
			name = names[i]
		}
		params[i] = NamedTypeParameter(name, ft)
	}
	return New(RowBase, params...)
}

// Base returns the base type name as written.
func (s TypeSignature) Base() string { return s.base }

// Parameters returns the ordered parameter list. The returned slice must not
// be modified.
func (s TypeSignature) Parameters() []TypeSignatureParameter { return s.parameters }

// Calculated reports whether any parameter carries an unresolved symbolic
// literal. Calculated signatures cannot describe a concrete type until bound.
func (s TypeSignature) Calculated() bool { return s.calculated }

// TypeParameters returns all parameters as nested signatures. It fails if
// any parameter is not a plain TYPE parameter.
func (s TypeSignature) TypeParameters() ([]TypeSignature, error) {
	result := make([]TypeSignature, 0, len(s.parameters))
	for _, p := range s.parameters {
		nested, ok := p.TypeSignature()
		if !ok {
			return nil, fmt.Errorf("expected all parameters of %s to be type signatures, found %s", s.base, p)
		}
		result = append(result, nested)
	}
	return result, nil
}

// BindParameters substitutes symbolic variables with the signatures bound to
// their names, recursing into nested parameters. Binding a name that itself
// carries parameters is rejected: a type variable stands for a complete type.
func (s TypeSignature) BindParameters(bindings map[string]TypeSignature) (TypeSignature, error) {
	if bound, ok := bindings[s.base]; ok {
		if len(s.parameters) != 0 {
			return TypeSignature{}, fmt.Errorf("cannot bind parameterized type %s as a type variable", s)
		}
		return bound, nil
	}
	params := make([]TypeSignatureParameter, len(s.parameters))
	for i, p := range s.parameters {
		bound, err := p.bindParameters(bindings)
		if err != nil {
			return TypeSignature{}, err
		}
		params[i] = bound
	}
	return New(s.base, params...)
}

// Equal reports structural equality with a case-insensitive base name.
func (s TypeSignature) Equal(other TypeSignature) bool {
	if !strings.EqualFold(s.base, other.base) {
		return false
	}
	if len(s.parameters) != len(other.parameters) {
		return false
	}
	for i := range s.parameters {
		if !s.parameters[i].Equal(other.parameters[i]) {
			return false
		}
	}
	return true
}

// String renders the canonical form, except for row signatures which keep
// the legacy row<type,...>('name',...) shape for backward compatibility.
func (s TypeSignature) String() string {
	if strings.EqualFold(s.base, RowBase) {
		return s.rowString()
	}
	if len(s.parameters) == 0 {
		return s.base
	}
	var b strings.Builder
	b.WriteString(s.base)
	b.WriteByte('(')
	for i, p := range s.parameters {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (s TypeSignature) rowString() string {
	types := make([]string, len(s.parameters))
	names := make([]string, len(s.parameters))
	for i, p := range s.parameters {
		name, nested, ok := p.NamedTypeSignature()
		if !ok {
			// Row signatures carry named parameters only.
			return s.base
		}
		types[i] = nested.String()
		names[i] = "'" + name + "'"
	}
	return fmt.Sprintf("row<%s>(%s)", strings.Join(types, ","), strings.Join(names, ","))
}

// ParameterKind identifies the variant held by a TypeSignatureParameter.
type ParameterKind string

const (
	// KindType is a nested type signature, e.g. the varchar in array(varchar).
	KindType ParameterKind = "TYPE"
	// KindNamedType is a named field type, e.g. 'a' bigint inside a row type.
	KindNamedType ParameterKind = "NAMED_TYPE"
	// KindLiteral is a concrete integer literal, e.g. the 10 in decimal(10,2).
	KindLiteral ParameterKind = "LITERAL"
	// KindVariable is an unresolved symbolic literal, e.g. the p in decimal(p,s)
	// before binding.
	KindVariable ParameterKind = "VARIABLE"
)

// TypeSignatureParameter is a closed sum over the four parameter variants.
// Exactly one variant is populated; Kind identifies it.
type TypeSignatureParameter struct {
	kind    ParameterKind
	typeSig *TypeSignature
	name    string // field name for NAMED_TYPE, symbol for VARIABLE
	literal int64
}

// TypeParameter wraps a nested type signature.
func TypeParameter(sig TypeSignature) TypeSignatureParameter {
	return TypeSignatureParameter{kind: KindType, typeSig: &sig}
}

// NamedTypeParameter wraps a field name plus its type signature.
func NamedTypeParameter(name string, sig TypeSignature) TypeSignatureParameter {
	return TypeSignatureParameter{kind: KindNamedType, typeSig: &sig, name: name}
}

// LiteralParameter wraps a concrete integer literal.
func LiteralParameter(v int64) TypeSignatureParameter {
	return TypeSignatureParameter{kind: KindLiteral, literal: v}
}

// VariableParameter wraps an unresolved symbolic literal.
func VariableParameter(name string) TypeSignatureParameter {
	return TypeSignatureParameter{kind: KindVariable, name: name}
}

// Kind returns the populated variant.
func (p TypeSignatureParameter) Kind() ParameterKind { return p.kind }

// TypeSignature returns the nested signature for a TYPE parameter.
func (p TypeSignatureParameter) TypeSignature() (TypeSignature, bool) {
	if p.kind != KindType {
		return TypeSignature{}, false
	}
	return *p.typeSig, true
}

// NamedTypeSignature returns the field name and signature for a NAMED_TYPE
// parameter.
func (p TypeSignatureParameter) NamedTypeSignature() (string, TypeSignature, bool) {
	if p.kind != KindNamedType {
		return "", TypeSignature{}, false
	}
	return p.name, *p.typeSig, true
}

// Literal returns the integer for a LITERAL parameter.
func (p TypeSignatureParameter) Literal() (int64, bool) {
	if p.kind != KindLiteral {
		return 0, false
	}
	return p.literal, true
}

// Variable returns the symbol name for a VARIABLE parameter.
func (p TypeSignatureParameter) Variable() (string, bool) {
	if p.kind != KindVariable {
		return "", false
	}
	return p.name, true
}

// Calculated reports whether this parameter carries, directly or nested,
// an unresolved symbolic literal.
func (p TypeSignatureParameter) Calculated() bool {
	switch p.kind {
	case KindVariable:
		return true
	case KindType, KindNamedType:
		return p.typeSig.Calculated()
	case KindLiteral:
		return false
	default:
		return false
	}
}

func (p TypeSignatureParameter) bindParameters(bindings map[string]TypeSignature) (TypeSignatureParameter, error) {
	switch p.kind {
	case KindType:
		bound, err := p.typeSig.BindParameters(bindings)
		if err != nil {
			return TypeSignatureParameter{}, err
		}
		return TypeParameter(bound), nil
	case KindNamedType:
		bound, err := p.typeSig.BindParameters(bindings)
		if err != nil {
			return TypeSignatureParameter{}, err
		}
		return NamedTypeParameter(p.name, bound), nil
	case KindVariable:
		if bound, ok := bindings[p.name]; ok {
			return TypeParameter(bound), nil
		}
		return p, nil
	case KindLiteral:
		return p, nil
	default:
		return TypeSignatureParameter{}, fmt.Errorf("unknown parameter kind %q", p.kind)
	}
}

// Equal reports structural equality of two parameters.
func (p TypeSignatureParameter) Equal(other TypeSignatureParameter) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case KindType:
		return p.typeSig.Equal(*other.typeSig)
	case KindNamedType:
		return p.name == other.name && p.typeSig.Equal(*other.typeSig)
	case KindLiteral:
		return p.literal == other.literal
	case KindVariable:
		return p.name == other.name
	default:
		return false
	}
}

func (p TypeSignatureParameter) String() string {
	switch p.kind {
	case KindType:
		return p.typeSig.String()
	case KindNamedType:
		return p.typeSig.String()
	case KindLiteral:
		return strconv.FormatInt(p.literal, 10)
	case KindVariable:
		return p.name
	default:
		return string(p.kind)
	}
}

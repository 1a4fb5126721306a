package typesig

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError indicates a malformed type signature string. The whole parse
// must be treated as failed; nothing is recovered from a partial result.
type ParseError struct {
	Signature string
	Message   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad type signature %q: %s", e.Signature, e.Message)
}

func parseErrorf(signature, format string, args ...any) error {
	return &ParseError{Signature: signature, Message: fmt.Sprintf(format, args...)}
}

// Parse parses a type signature in either the canonical or the legacy row
// grammar. Equivalent to ParseWithVariables with no calculation symbols.
func Parse(signature string) (TypeSignature, error) {
	return ParseWithVariables(signature, nil)
}

// ParseWithVariables parses a type signature, treating any bare parameter
// token found in calculations as a symbolic VARIABLE parameter rather than a
// nested type. Used when parsing declared signatures of parametric types,
// e.g. decimal(p,s) with calculations = {p, s}.
func ParseWithVariables(signature string, calculations map[string]bool) (TypeSignature, error) {
	if !strings.ContainsAny(signature, "<(") {
		sig, err := New(signature)
		if err != nil {
			return TypeSignature{}, parseErrorf(signature, "%v", err)
		}
		return sig, nil
	}
	if strings.HasPrefix(strings.ToLower(signature), RowBase+"<") {
		return parseRowSignature(signature)
	}

	// Single pass over the string, tracking bracket depth. The base name ends
	// at the first opening bracket; parameters are split on depth-1 commas so
	// nested signatures stay intact. Angle brackets still count as brackets
	// here so that legacy row signatures nested inside canonical ones, e.g.
	// array(row<bigint>('a')), keep their internal commas unsplit.
	var (
		baseName       string
		params         []TypeSignatureParameter
		parameterStart = -1
		bracketCount   int
	)
	for i := 0; i < len(signature); i++ {
		switch c := signature[i]; c {
		case '(', '<':
			if bracketCount == 0 {
				if baseName != "" || parameterStart != -1 {
					return TypeSignature{}, parseErrorf(signature, "unexpected %q", string(c))
				}
				baseName = signature[:i]
				if baseName == "" {
					return TypeSignature{}, parseErrorf(signature, "base name is empty")
				}
				parameterStart = i + 1
			}
			bracketCount++
		case ')', '>':
			bracketCount--
			if bracketCount < 0 {
				return TypeSignature{}, parseErrorf(signature, "unbalanced brackets")
			}
			if bracketCount == 0 {
				if parameterStart < 0 {
					return TypeSignature{}, parseErrorf(signature, "unexpected %q", string(c))
				}
				param, err := parseParameter(signature, parameterStart, i, calculations)
				if err != nil {
					return TypeSignature{}, err
				}
				params = append(params, param)
				parameterStart = i + 1
				if i == len(signature)-1 {
					sig, err := New(baseName, params...)
					if err != nil {
						return TypeSignature{}, parseErrorf(signature, "%v", err)
					}
					return sig, nil
				}
			}
		case ',':
			if bracketCount == 1 {
				if parameterStart < 0 {
					return TypeSignature{}, parseErrorf(signature, "unexpected comma")
				}
				param, err := parseParameter(signature, parameterStart, i, calculations)
				if err != nil {
					return TypeSignature{}, err
				}
				params = append(params, param)
				parameterStart = i + 1
			}
		}
	}
	return TypeSignature{}, parseErrorf(signature, "unbalanced brackets")
}

func parseParameter(signature string, begin, end int, calculations map[string]bool) (TypeSignatureParameter, error) {
	token := signature[begin:end]
	if token == "" {
		return TypeSignatureParameter{}, parseErrorf(signature, "empty parameter")
	}
	if token[0] >= '0' && token[0] <= '9' {
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return TypeSignatureParameter{}, parseErrorf(signature, "bad literal parameter %q", token)
		}
		return LiteralParameter(v), nil
	}
	if calculations[token] {
		return VariableParameter(token), nil
	}
	nested, err := ParseWithVariables(token, calculations)
	if err != nil {
		return TypeSignatureParameter{}, err
	}
	return TypeParameter(nested), nil
}

// parseRowSignature handles the legacy row<type,...>('name',...) grammar:
// a bracketed list of field types followed by a parenthesized list of quoted
// field names, zipped pairwise into NAMED_TYPE parameters.
func parseRowSignature(signature string) (TypeSignature, error) {
	var (
		baseName       string
		fieldTypes     []TypeSignature
		fieldNames     []string
		parameterStart = -1
		bracketCount   int
		inFieldNames   bool
	)
	for i := 0; i < len(signature); i++ {
		switch c := signature[i]; c {
		case '<':
			if bracketCount == 0 {
				if baseName != "" || parameterStart != -1 {
					return TypeSignature{}, parseErrorf(signature, "unexpected %q", string(c))
				}
				baseName = signature[:i]
				parameterStart = i + 1
			}
			bracketCount++
		case '>':
			bracketCount--
			if bracketCount < 0 {
				return TypeSignature{}, parseErrorf(signature, "unbalanced brackets")
			}
			if bracketCount == 0 {
				if parameterStart < 0 {
					return TypeSignature{}, parseErrorf(signature, "unexpected %q", string(c))
				}
				nested, err := Parse(signature[parameterStart:i])
				if err != nil {
					return TypeSignature{}, err
				}
				fieldTypes = append(fieldTypes, nested)
				parameterStart = i + 1
				if i == len(signature)-1 {
					// No field name list; names autogenerate as field0, field1, ...
					row, err := NewRow(fieldTypes, nil)
					if err != nil {
						return TypeSignature{}, parseErrorf(signature, "%v", err)
					}
					return row, nil
				}
			}
		case ',':
			if bracketCount == 1 {
				if parameterStart < 0 {
					return TypeSignature{}, parseErrorf(signature, "unexpected comma")
				}
				if inFieldNames {
					name, err := parseFieldName(signature, signature[parameterStart:i])
					if err != nil {
						return TypeSignature{}, err
					}
					fieldNames = append(fieldNames, name)
				} else {
					nested, err := Parse(signature[parameterStart:i])
					if err != nil {
						return TypeSignature{}, err
					}
					fieldTypes = append(fieldTypes, nested)
				}
				parameterStart = i + 1
			}
		case '(':
			if bracketCount == 0 {
				// The field name list must follow the closing > immediately.
				if inFieldNames || parameterStart != i {
					return TypeSignature{}, parseErrorf(signature, "unexpected %q", string(c))
				}
				inFieldNames = true
				parameterStart = i + 1
			}
			bracketCount++
		case ')':
			bracketCount--
			if bracketCount < 0 {
				return TypeSignature{}, parseErrorf(signature, "unbalanced brackets")
			}
			if bracketCount == 0 {
				if !inFieldNames {
					return TypeSignature{}, parseErrorf(signature, "unexpected %q", string(c))
				}
				if i != len(signature)-1 {
					return TypeSignature{}, parseErrorf(signature, "trailing characters after field name list")
				}
				if parameterStart < 0 {
					return TypeSignature{}, parseErrorf(signature, "unexpected %q", string(c))
				}
				name, err := parseFieldName(signature, signature[parameterStart:i])
				if err != nil {
					return TypeSignature{}, err
				}
				fieldNames = append(fieldNames, name)
				row, err := NewRow(fieldTypes, fieldNames)
				if err != nil {
					return TypeSignature{}, parseErrorf(signature, "%v", err)
				}
				return row, nil
			}
		}
	}
	return TypeSignature{}, parseErrorf(signature, "unbalanced brackets")
}

func parseFieldName(signature, token string) (string, error) {
	if len(token) < 2 || token[0] != '\'' || token[len(token)-1] != '\'' {
		return "", parseErrorf(signature, "bad field name %q: expected single-quoted token", token)
	}
	return token[1 : len(token)-1], nil
}

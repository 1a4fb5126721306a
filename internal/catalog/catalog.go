// Package catalog loads table schemas for the translator: column names mapped
// to type signature strings, resolved against the type catalog. Schemas come
// from CUE or YAML documents.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/stratumdb/stratum/internal/sqltype"
	"github.com/stratumdb/stratum/internal/typesig"
)

// Column is a resolved table column. Signature keeps the parsed form of the
// declared signature string; Type is the catalog type behind its base.
type Column struct {
	Name      string
	Type      sqltype.Type
	Signature typesig.TypeSignature
}

// TableSchema holds the columns of one table, sorted by name.
type TableSchema struct {
	name    string
	columns []Column
	byName  map[string]Column
}

func newTableSchema(name string, columns []Column) *TableSchema {
	sorted := make([]Column, len(columns))
	copy(sorted, columns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	byName := make(map[string]Column, len(sorted))
	for _, c := range sorted {
		byName[c.Name] = c
	}
	return &TableSchema{name: name, columns: sorted, byName: byName}
}

// Name returns the table name.
func (s *TableSchema) Name() string { return s.name }

// Columns returns the columns sorted by name.
func (s *TableSchema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Column looks up a column by name.
func (s *TableSchema) Column(name string) (Column, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Types returns the column name to type mapping used by expression analysis.
func (s *TableSchema) Types() map[string]sqltype.Type {
	out := make(map[string]sqltype.Type, len(s.columns))
	for _, c := range s.columns {
		out[c.Name] = c.Type
	}
	return out
}

// Catalog is a set of table schemas keyed by table name.
type Catalog struct {
	tables map[string]*TableSchema
}

// Table looks up a table schema by name.
func (c *Catalog) Table(name string) (*TableSchema, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Tables returns the table names sorted.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// structuredBases are signature bases without a scalar catalog type of their
// own. Columns declared with them are stored and compared as json.
var structuredBases = map[string]bool{
	"map":   true,
	"array": true,
	"row":   true,
}

// resolveColumn parses a declared signature string and resolves its base
// against the type catalog.
func resolveColumn(table, column, signature string) (Column, error) {
	sig, err := typesig.Parse(signature)
	if err != nil {
		return Column{}, &CompileError{
			Field:   fmt.Sprintf("tables.%s.columns.%s", table, column),
			Message: err.Error(),
		}
	}
	base := strings.ToLower(sig.Base())
	if structuredBases[base] {
		return Column{Name: column, Type: sqltype.JSON, Signature: sig}, nil
	}
	t, ok := sqltype.ForName(base)
	if !ok {
		return Column{}, &CompileError{
			Field:   fmt.Sprintf("tables.%s.columns.%s", table, column),
			Message: fmt.Sprintf("unknown type %q", sig.Base()),
		}
	}
	return Column{Name: column, Type: t, Signature: sig}, nil
}

// CompileError is a schema compilation error with source position when the
// document format provides one.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsCompileError reports whether err is a schema compilation error.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

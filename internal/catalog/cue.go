package catalog

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// CompileCUE parses a CUE value into a catalog. The value should hold a
// tables struct:
//
//	tables: {
//		users: {
//			columns: {
//				id:   "bigint"
//				name: "varchar"
//			}
//		}
//	}
func CompileCUE(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil, &CompileError{
			Field:   "tables",
			Message: "tables is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	tables := make(map[string]*TableSchema)
	for iter.Next() {
		tableName := iter.Label()
		schema, err := compileTable(tableName, iter.Value())
		if err != nil {
			return nil, err
		}
		tables[tableName] = schema
	}
	if len(tables) == 0 {
		return nil, &CompileError{
			Field:   "tables",
			Message: "at least one table is required",
			Pos:     tablesVal.Pos(),
		}
	}
	return &Catalog{tables: tables}, nil
}

func compileTable(name string, v cue.Value) (*TableSchema, error) {
	columnsVal := v.LookupPath(cue.ParsePath("columns"))
	if !columnsVal.Exists() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("tables.%s.columns", name),
			Message: "columns are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := columnsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var columns []Column
	for iter.Next() {
		columnName := iter.Label()
		signature, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("tables.%s.columns.%s", name, columnName),
				Message: "column type must be a signature string",
				Pos:     iter.Value().Pos(),
			}
		}
		col, err := resolveColumn(name, columnName, signature)
		if err != nil {
			if ce, ok := err.(*CompileError); ok && !ce.Pos.IsValid() {
				ce.Pos = iter.Value().Pos()
			}
			return nil, err
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, &CompileError{
			Field:   fmt.Sprintf("tables.%s.columns", name),
			Message: "at least one column is required",
			Pos:     columnsVal.Pos(),
		}
	}
	return newTableSchema(name, columns), nil
}

// LoadCUE reads and compiles a CUE schema file.
func LoadCUE(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return CompileCUE(v)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

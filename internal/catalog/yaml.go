package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type yamlSchemaDoc struct {
	Tables map[string]yamlTableDoc `yaml:"tables"`
}

type yamlTableDoc struct {
	Columns map[string]string `yaml:"columns"`
}

// ParseYAML parses a YAML schema document:
//
//	tables:
//	  users:
//	    columns:
//	      id: bigint
//	      name: varchar
func ParseYAML(data []byte) (*Catalog, error) {
	var doc yamlSchemaDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error()}
	}
	if len(doc.Tables) == 0 {
		return nil, &CompileError{Field: "tables", Message: "at least one table is required"}
	}

	tables := make(map[string]*TableSchema, len(doc.Tables))
	for tableName, tableDoc := range doc.Tables {
		if len(tableDoc.Columns) == 0 {
			return nil, &CompileError{
				Field:   fmt.Sprintf("tables.%s.columns", tableName),
				Message: "at least one column is required",
			}
		}
		columns := make([]Column, 0, len(tableDoc.Columns))
		for columnName, signature := range tableDoc.Columns {
			col, err := resolveColumn(tableName, columnName, signature)
			if err != nil {
				return nil, err
			}
			columns = append(columns, col)
		}
		tables[tableName] = newTableSchema(tableName, columns)
	}
	return &Catalog{tables: tables}, nil
}

// LoadYAML reads and parses a YAML schema file.
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseYAML(data)
}

// Load dispatches on the file extension: .cue goes through the CUE compiler,
// .yaml and .yml through the YAML parser.
func Load(path string) (*Catalog, error) {
	switch filepath.Ext(path) {
	case ".cue":
		return LoadCUE(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported schema file %q: want .cue, .yaml or .yml", path)
	}
}

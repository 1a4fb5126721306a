package pushdown

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stratumdb/stratum/internal/catalog"
	"github.com/stratumdb/stratum/internal/sqltype"
)

// DB is a SQLite database holding the tables scans run against.
// WAL mode, NORMAL synchronous and a busy timeout are applied on open;
// a single connection avoids SQLITE_BUSY on writes.
type DB struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// CreateTable creates the table described by the schema if it does not exist.
func (d *DB) CreateTable(ctx context.Context, schema *catalog.TableSchema) error {
	cols := schema.Columns()
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, quoteIdent(c.Name)+" "+sqliteColumnType(c.Type))
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(schema.Name()), strings.Join(defs, ", "))
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", schema.Name(), err)
	}
	return nil
}

// Insert inserts rows into the schema's table. Missing columns insert as NULL.
func (d *DB) Insert(ctx context.Context, schema *catalog.TableSchema, rows []map[string]any) error {
	cols := schema.Columns()
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, quoteIdent(c.Name))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(schema.Name()), strings.Join(names, ", "), placeholders)

	for _, row := range rows {
		args := make([]any, 0, len(cols))
		for _, c := range cols {
			args = append(args, row[c.Name])
		}
		if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", schema.Name(), err)
		}
	}
	return nil
}

// sqliteColumnType maps a catalog type onto a SQLite column affinity.
func sqliteColumnType(t sqltype.Type) string {
	switch t {
	case sqltype.Boolean, sqltype.Integer, sqltype.Bigint, sqltype.Date:
		return "INTEGER"
	case sqltype.Double:
		return "REAL"
	default:
		return "TEXT"
	}
}

// normalizeDBValue maps driver output back onto the native representation of
// the column type.
func normalizeDBValue(t sqltype.Type, v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return normalizeDBValue(t, string(val))
	case int64:
		switch t {
		case sqltype.Boolean:
			return val != 0, nil
		case sqltype.Double:
			return float64(val), nil
		default:
			return val, nil
		}
	case bool:
		return val, nil
	case float64, string:
		return val, nil
	default:
		return nil, fmt.Errorf("%s: unsupported database value %T", t.Name(), v)
	}
}

package pushdown

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/stratumdb/stratum/internal/catalog"
	"github.com/stratumdb/stratum/internal/expr"
	"github.com/stratumdb/stratum/internal/translator"
)

// Row is one scanned row, column name to native value. NULL columns map to nil.
type Row map[string]any

// Scanner runs extraction results against tables.
type Scanner struct {
	db  *DB
	log *slog.Logger
}

// NewScanner wraps a database for scanning. A nil logger uses the default.
func NewScanner(db *DB, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{db: db, log: log}
}

// Scan selects the rows matching an extraction result: the tuple domain is
// pushed down as a parameterized WHERE clause, the remaining expression is
// evaluated per row, and only rows it accepts are returned. Row order is
// stable across runs.
func (s *Scanner) Scan(ctx context.Context, schema *catalog.TableSchema, result translator.ExtractionResult) ([]Row, error) {
	scanID := uuid.New().String()

	if result.TupleDomain.IsNone() {
		s.log.DebugContext(ctx, "scan short-circuits on NONE domain",
			"scan_id", scanID, "table", schema.Name())
		return nil, nil
	}

	where, args, err := RenderWhere(result.TupleDomain)
	if err != nil {
		return nil, fmt.Errorf("render where: %w", err)
	}

	cols := schema.Columns()
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, quoteIdent(c.Name))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), quoteIdent(schema.Name()))
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + strings.Join(names, ", ")

	s.log.DebugContext(ctx, "scan query",
		"scan_id", scanID, "table", schema.Name(), "where", where, "args", len(args))

	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", schema.Name(), err)
	}
	defer rows.Close()

	var (
		out     []Row
		scanned int
	)
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scanned++

		row := make(Row, len(cols))
		for i, c := range cols {
			v, err := normalizeDBValue(c.Type, *dest[i].(*any))
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			row[c.Name] = v
		}

		keep, err := acceptsRow(result.Remaining, row)
		if err != nil {
			return nil, fmt.Errorf("apply remaining filter: %w", err)
		}
		if keep {
			out = append(out, row)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", schema.Name(), err)
	}

	s.log.InfoContext(ctx, "scan complete",
		"scan_id", scanID, "table", schema.Name(),
		"rows_scanned", scanned, "rows_returned", len(out))
	return out, nil
}

// acceptsRow applies filter semantics: the row passes only when the
// expression evaluates to true, not null and not false.
func acceptsRow(filter expr.Node, row map[string]any) (bool, error) {
	if filter == nil || expr.IsTrue(filter) {
		return true, nil
	}
	v, err := expr.Evaluate(filter, row)
	if err != nil {
		return false, err
	}
	return v == true, nil
}

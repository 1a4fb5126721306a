package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratumdb/stratum/internal/pushdown"
	"github.com/stratumdb/stratum/internal/translator"
)

// scanResult is the JSON payload of the scan command.
type scanResult struct {
	Table     string         `json:"table"`
	Domain    string         `json:"domain"`
	Remaining string         `json:"remaining"`
	Rows      []pushdown.Row `json:"rows"`
}

func (r scanResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "table:     %s\nremaining: %s\nrows:      %d", r.Table, r.Remaining, len(r.Rows))
	for _, row := range r.Rows {
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		parts := make([]string, 0, len(cols))
		for _, col := range cols {
			v := row[col]
			if v == nil {
				parts = append(parts, col+"=NULL")
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%v", col, v))
		}
		b.WriteString("\n  " + strings.Join(parts, " "))
	}
	return b.String()
}

// NewScanCommand creates the scan command: translate a predicate, push the
// tuple domain down to SQLite, and re-filter with the remaining expression.
func NewScanCommand(opts *RootOptions) *cobra.Command {
	var (
		dbPath     string
		schemaPath string
		table      string
	)

	cmd := &cobra.Command{
		Use:   "scan <predicate-json>",
		Short: "Scan a SQLite table with a translated predicate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			pred, schema, err := loadPredicate(formatter, schemaPath, table, args[0])
			if err != nil {
				return err
			}

			result, err := translator.FromPredicate(pred)
			if err != nil {
				formatter.Error(ErrCodeTranslate, err.Error(), nil)
				return WrapExitError(ExitFailure, "translate predicate", err)
			}
			formatter.VerboseLog("remaining expression: %s", result.Remaining)

			db, err := pushdown.Open(dbPath)
			if err != nil {
				formatter.Error(ErrCodeDatabase, err.Error(), nil)
				return WrapExitError(ExitCommandError, "open database", err)
			}
			defer db.Close()

			logLevel := slog.LevelInfo
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))

			rows, err := pushdown.NewScanner(db, log).Scan(cmd.Context(), schema, result)
			if err != nil {
				formatter.Error(ErrCodeDatabase, err.Error(), nil)
				return WrapExitError(ExitCommandError, "scan table", err)
			}

			where, _, err := pushdown.RenderWhere(result.TupleDomain)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "render where clause", err)
			}

			return formatter.Success(scanResult{
				Table:     table,
				Domain:    where,
				Remaining: result.Remaining.String(),
				Rows:      rows,
			})
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file (required)")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (.cue, .yaml) describing the table (required)")
	cmd.Flags().StringVar(&table, "table", "", "table to scan (required)")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("schema")
	cmd.MarkFlagRequired("table")
	return cmd
}

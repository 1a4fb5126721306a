package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratumdb/stratum/internal/catalog"
	"github.com/stratumdb/stratum/internal/expr"
	"github.com/stratumdb/stratum/internal/translator"
	"github.com/stratumdb/stratum/internal/wire"
)

// translateResult is the JSON payload of the translate command.
type translateResult struct {
	Predicate   string          `json:"predicate"`
	Domain      json.RawMessage `json:"domain"`
	Remaining   string          `json:"remaining"`
	Fingerprint string          `json:"fingerprint"`
}

func (r translateResult) String() string {
	return fmt.Sprintf("predicate:   %s\ndomain:      %s\nremaining:   %s\nfingerprint: %s",
		r.Predicate, r.Domain, r.Remaining, r.Fingerprint)
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(opts *RootOptions) *cobra.Command {
	var (
		schemaPath string
		table      string
	)

	cmd := &cobra.Command{
		Use:   "translate <predicate-json>",
		Short: "Translate a predicate into a tuple domain plus remaining expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			pred, _, err := loadPredicate(formatter, schemaPath, table, args[0])
			if err != nil {
				return err
			}

			result, err := translator.FromPredicate(pred)
			if err != nil {
				formatter.Error(ErrCodeTranslate, err.Error(), nil)
				return WrapExitError(ExitFailure, "translate predicate", err)
			}

			canonical, err := wire.MarshalCanonical(result.TupleDomain)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "serialize tuple domain", err)
			}
			fingerprint, err := wire.Fingerprint(result.TupleDomain)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "fingerprint tuple domain", err)
			}

			return formatter.Success(translateResult{
				Predicate:   pred.String(),
				Domain:      canonical,
				Remaining:   result.Remaining.String(),
				Fingerprint: fingerprint,
			})
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (.cue, .yaml) to validate column names against")
	cmd.Flags().StringVar(&table, "table", "", "table within the schema (required with --schema)")
	return cmd
}

// loadPredicate decodes the predicate document and, when a schema is given,
// checks every referenced column against the table. The resolved table schema
// is returned alongside the predicate, nil without a schema.
func loadPredicate(formatter *OutputFormatter, schemaPath, table, doc string) (expr.Node, *catalog.TableSchema, error) {
	pred, err := expr.UnmarshalNode([]byte(doc))
	if err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return nil, nil, WrapExitError(ExitFailure, "parse predicate", err)
	}
	if _, err := expr.Analyze(pred); err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return nil, nil, WrapExitError(ExitFailure, "analyze predicate", err)
	}

	if schemaPath == "" {
		return pred, nil, nil
	}
	if table == "" {
		err := fmt.Errorf("--table is required with --schema")
		formatter.Error(ErrCodeBadSchema, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "load schema", err)
	}

	cat, err := catalog.Load(schemaPath)
	if err != nil {
		formatter.Error(ErrCodeBadSchema, err.Error(), nil)
		code := ExitCommandError
		if catalog.IsCompileError(err) {
			code = ExitFailure
		}
		return nil, nil, WrapExitError(code, "load schema", err)
	}
	schema, ok := cat.Table(table)
	if !ok {
		err := fmt.Errorf("table %q not found in %s", table, schemaPath)
		formatter.Error(ErrCodeBadSchema, err.Error(), nil)
		return nil, nil, WrapExitError(ExitFailure, "load schema", err)
	}
	for _, col := range expr.Columns(pred) {
		if _, ok := schema.Column(col); !ok {
			err := fmt.Errorf("column %q not found in table %q", col, table)
			formatter.Error(ErrCodeBadInput, err.Error(), nil)
			return nil, nil, WrapExitError(ExitFailure, "check predicate columns", err)
		}
	}
	return pred, schema, nil
}

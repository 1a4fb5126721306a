package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratumdb/stratum/internal/typesig"
)

// parseTypeResult is the JSON payload of the parse-type command.
type parseTypeResult struct {
	Input      string `json:"input"`
	Canonical  string `json:"canonical"`
	Base       string `json:"base"`
	Parameters int    `json:"parameters"`
	Calculated bool   `json:"calculated"`
}

func (r parseTypeResult) String() string {
	return fmt.Sprintf("canonical:  %s\nbase:       %s\nparameters: %d", r.Canonical, r.Base, r.Parameters)
}

// NewParseTypeCommand creates the parse-type command.
func NewParseTypeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse-type <signature>",
		Short: "Parse a type signature and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			sig, err := typesig.Parse(args[0])
			if err != nil {
				formatter.Error(ErrCodeBadSig, err.Error(), nil)
				return WrapExitError(ExitFailure, "parse type signature", err)
			}

			// The canonical form must survive a reparse.
			reparsed, err := typesig.Parse(sig.String())
			if err != nil || !sig.Equal(reparsed) {
				formatter.Error(ErrCodeGeneric, fmt.Sprintf("canonical form %q does not round-trip", sig.String()), nil)
				return WrapExitError(ExitFailure, "canonical round-trip", err)
			}

			return formatter.Success(parseTypeResult{
				Input:      args[0],
				Canonical:  sig.String(),
				Base:       sig.Base(),
				Parameters: len(sig.Parameters()),
				Calculated: sig.Calculated(),
			})
		},
	}
	return cmd
}

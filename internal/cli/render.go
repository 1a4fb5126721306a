package cli

import (
	"github.com/spf13/cobra"

	"github.com/stratumdb/stratum/internal/translator"
	"github.com/stratumdb/stratum/internal/wire"
)

// renderResult is the JSON payload of the render command.
type renderResult struct {
	Predicate string `json:"predicate"`
}

func (r renderResult) String() string {
	return r.Predicate
}

// NewRenderCommand creates the render command: the inverse of translate,
// turning a tuple domain document back into a predicate.
func NewRenderCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <tupledomain-json>",
		Short: "Render a tuple domain as an equivalent predicate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			td, err := wire.UnmarshalJSON([]byte(args[0]))
			if err != nil {
				formatter.Error(ErrCodeBadInput, err.Error(), nil)
				return WrapExitError(ExitFailure, "parse tuple domain", err)
			}

			pred, err := translator.ToPredicate(td)
			if err != nil {
				formatter.Error(ErrCodeTranslate, err.Error(), nil)
				return WrapExitError(ExitFailure, "render tuple domain", err)
			}

			return formatter.Success(renderResult{Predicate: pred.String()})
		},
	}
	return cmd
}

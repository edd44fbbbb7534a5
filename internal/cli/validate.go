package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessellate-dev/planemesh/internal/compiler"
)

// ValidateSummary is the validate command's output.
type ValidateSummary struct {
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Lines    int    `json:"lines"`
	Loops    int    `json:"loops"`
	Surfaces int    `json:"surfaces"`
	Roots    int    `json:"roots"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <model-dir>",
		Short: "Compile a geometry model and report structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := compiler.LoadDir(args[0])
			if err != nil {
				return err
			}

			summary := ValidateSummary{
				Name:     model.Name,
				Points:   len(model.Points),
				Lines:    len(model.Curves),
				Loops:    len(model.Loops),
				Surfaces: len(model.Surfaces),
				Roots:    len(model.Roots),
			}

			if rootOpts.Format == "json" {
				data, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model %q is valid\n", summary.Name)
			fmt.Fprintf(out, "  points:   %d\n", summary.Points)
			fmt.Fprintf(out, "  lines:    %d\n", summary.Lines)
			fmt.Fprintf(out, "  loops:    %d\n", summary.Loops)
			fmt.Fprintf(out, "  surfaces: %d\n", summary.Surfaces)
			fmt.Fprintf(out, "  roots:    %d\n", summary.Roots)
			return nil
		},
	}
}

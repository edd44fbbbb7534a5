package cli

import (
	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command: a dry run that prints the
// kernel call sequence the model compiles to, without journaling.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "plan <model-dir>",
		Short: "Dry-run a model and print its kernel op plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ops, err := runBuild(args[0], exportPath)
			if err != nil {
				return err
			}
			return renderOps(cmd.OutOrStdout(), ops, rootOpts.Format)
		},
	}

	cmd.Flags().StringVarP(&exportPath, "output", "o", "", "also export the mesh to this path")
	return cmd
}

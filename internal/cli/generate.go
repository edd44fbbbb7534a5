package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessellate-dev/planemesh/internal/journal"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Journal string
	Output  string
}

// NewGenerateCommand creates the generate command: run the build and
// journal the resulting kernel-op trace under a fresh run token.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <model-dir>",
		Short: "Run a model build and journal the kernel op trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, ops, buildErr := runBuild(args[0], opts.Output)

			// Journal the trace even for failed builds; the last op in a
			// journaled run shows where the build stopped.
			if len(ops) > 0 {
				store, err := journal.Open(opts.Journal)
				if err != nil {
					return err
				}
				defer store.Close()

				name := "unknown"
				if model != nil {
					name = model.Name
				}
				token := journal.UUIDv7Generator{}.Generate()
				if err := store.RecordRun(cmd.Context(), token, name, ops); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run %s journaled (%d ops)\n", token, len(ops))
			}

			return buildErr
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "planemesh.db", "journal database path")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "export the mesh to this path")
	return cmd
}

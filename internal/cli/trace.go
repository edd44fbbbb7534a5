package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessellate-dev/planemesh/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal string
}

// NewTraceCommand creates the trace command. Without arguments it lists
// journaled runs; with a run token it dumps that run's op trace.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-token]",
		Short: "Inspect journaled generation runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := journal.Open(opts.Journal)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				return listRuns(cmd, store, opts)
			}
			return dumpRun(cmd, store, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "planemesh.db", "journal database path")
	return cmd
}

func listRuns(cmd *cobra.Command, store *journal.Store, opts *TraceOptions) error {
	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		type runOut struct {
			Token     string `json:"token"`
			Model     string `json:"model"`
			CreatedAt string `json:"created_at"`
			Ops       int    `json:"ops"`
		}
		out := make([]runOut, len(runs))
		for i, r := range runs {
			out[i] = runOut{Token: r.Token, Model: r.Model, CreatedAt: r.CreatedAt, Ops: r.OpCount}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no journaled runs")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s  %s  (%d ops)\n", r.Token, r.Model, r.CreatedAt, r.OpCount)
	}
	return nil
}

func dumpRun(cmd *cobra.Command, store *journal.Store, opts *TraceOptions, token string) error {
	ops, err := store.Ops(cmd.Context(), token)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return fmt.Errorf("no ops journaled for run %s", token)
	}
	return renderOps(cmd.OutOrStdout(), ops, opts.Format)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/formatconform/internal/harness"
	"github.com/roach88/formatconform/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int    // number of runs to list, 0 for all
	Run   string // show the cases of one run instead of the run list
}

// RunDetail is the JSON payload of history --run.
type RunDetail struct {
	Run     store.RunRecord      `json:"run"`
	Formats []store.FormatRecord `json:"formats"`
	Cases   []store.CaseRecord   `json:"cases"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <ledger-db>",
		Short: "List runs recorded in a ledger",
		Long: `List the runs recorded with "run --ledger", newest first, with per-status
totals. With --run, show the format reports and non-passing cases of one run.

Examples:
  formatconform history runs.db
  formatconform history runs.db --limit 5
  formatconform history runs.db --run 0190c2f4-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show details of a single run")

	return cmd
}

func showHistory(opts *HistoryOptions, ledgerPath string, cmd *cobra.Command) error {
	if _, err := os.Stat(ledgerPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("ledger not found: %s", ledgerPath))
	}

	st, err := store.Open(ledgerPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	out := newFormatter(opts.RootOptions, cmd)
	w := cmd.OutOrStdout()

	if opts.Run != "" {
		run, err := st.Run(ctx, opts.Run)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		formats, err := st.FormatReports(ctx, opts.Run)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		cases, err := st.CaseResults(ctx, opts.Run)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}

		if opts.Format == "json" {
			return out.Success(RunDetail{Run: run, Formats: formats, Cases: cases})
		}

		fmt.Fprintf(w, "Run %s (prefix %s, #%d)\n", run.ID, run.Prefix, run.Seq)
		for _, f := range formats {
			fmt.Fprintf(w, "  %-14s %d passed, %d failed, %d skipped, %d errored\n",
				f.Format, f.Passed, f.Failed, f.Skipped, f.Errored)
		}
		for _, c := range cases {
			if c.Status == harness.StatusPassed || c.Status == harness.StatusSkipped {
				continue
			}
			fmt.Fprintf(w, "  %s case %d [%s]: %s\n", c.Format, c.Index, c.Status, indent(c.Reason, "    "))
		}
		return nil
	}

	runs, err := st.Runs(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{"runs": runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "#%d %s %s: %d formats, %d passed, %d failed, %d skipped, %d errored\n",
			r.Seq, r.ID, r.Prefix, r.Formats, r.Passed, r.Failed, r.Skipped, r.Errored)
	}
	return nil
}

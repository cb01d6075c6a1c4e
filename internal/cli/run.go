package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/formatconform/internal/fixture"
	"github.com/roach88/formatconform/internal/format/builtin"
	"github.com/roach88/formatconform/internal/harness"
	"github.com/roach88/formatconform/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Prefix  string // fixture grouping under format/
	Catalog string // catalog file overlaid on the embedded one
	Ledger  string // SQLite ledger path, empty to disable
	Only    string // format name filter (glob pattern)
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	RunID   string           `json:"run_id,omitempty"`
	Prefix  string           `json:"prefix"`
	Summary *harness.Summary `json:"summary"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <fixtures-dir>",
		Short: "Run fixture suites against the builtin format attributes",
		Long: `Run every fixture under <fixtures-dir>/format/<prefix>/ against the
builtin format attributes. Fixtures for formats without an attribute are
reported as skipped.

Exit codes:
  0 - All cases passed or were skipped
  1 - One or more cases failed or errored
  2 - Command or setup error (missing directory, malformed fixture, etc.)

Examples:
  formatconform run ./testdata
  formatconform run ./testdata --prefix draftv4 --only "date*"
  formatconform run ./testdata --catalog messages.cue --ledger runs.db
  formatconform run ./testdata --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", DefaultPrefix, "fixture prefix under format/")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "message catalog file (.yaml, .cue or .json)")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "record results in this SQLite ledger")
	cmd.Flags().StringVar(&opts.Only, "only", "", "only run formats matching this glob pattern")

	return cmd
}

func runConformance(ctx context.Context, opts *RunOptions, fixturesDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())
	defer func() { _ = logger.Sync() }()

	if info, err := os.Stat(fixturesDir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("fixtures directory not found: %s", fixturesDir))
	}

	catalog, err := loadCatalog(opts.Catalog)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	out.VerboseLog("Catalog %s (%d templates)", catalog.Name(), catalog.Len())

	loader := fixture.NewLoader(os.DirFS(fixturesDir), opts.Prefix)
	names, err := loader.Formats()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list fixtures", err)
	}
	names, err = filterFormats(names, opts.Only)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --only pattern", err)
	}

	result := RunResult{Prefix: opts.Prefix}
	runnerOpts := []harness.Option{harness.WithLogger(logger)}

	if opts.Ledger != "" {
		st, err := store.Open(opts.Ledger)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open ledger", err)
		}
		defer st.Close()

		result.RunID, err = st.BeginRun(ctx, opts.Prefix)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		runnerOpts = append(runnerOpts, harness.WithRecorder(st.Recorder(result.RunID)))
		logger.Infow("recording run", "run_id", result.RunID, "ledger", opts.Ledger)
	}

	runner := harness.NewRunner(builtin.Registry(), catalog, loader, runnerOpts...)
	summary, err := runner.RunAll(ctx, names)
	if err != nil {
		return WrapExitError(ExitCommandError, "run aborted", err)
	}
	result.Summary = summary

	if opts.Format == "json" {
		return outputRunJSON(out, result)
	}
	return outputRunText(cmd.OutOrStdout(), result)
}

// filterFormats keeps the names matching pattern. An empty pattern keeps all.
func filterFormats(names []string, pattern string) ([]string, error) {
	if pattern == "" {
		return names, nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}

	var kept []string
	for _, name := range names {
		if ok, _ := path.Match(pattern, name); ok {
			kept = append(kept, name)
		}
	}
	return kept, nil
}

// runExitError turns a summary into the command's exit status.
func runExitError(s *harness.Summary) *ExitError {
	if len(s.SetupFailures) > 0 {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("%d fixture(s) could not be loaded", len(s.SetupFailures)))
	}
	if bad := s.Failed + s.Errored; bad > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", bad))
	}
	return nil
}

// outputRunJSON outputs the run result as JSON.
func outputRunJSON(out *OutputFormatter, result RunResult) error {
	exitErr := runExitError(result.Summary)

	resp := CLIResponse{Status: "ok", Data: result}
	if exitErr != nil {
		code := "E_CASES_FAILED"
		if exitErr.Code == ExitCommandError {
			code = "E_SETUP_FAILED"
		}
		resp.Status = "error"
		resp.Error = &CLIError{Code: code, Message: exitErr.Message}
	}

	if err := out.JSON(resp); err != nil {
		return err
	}
	if exitErr != nil {
		return exitErr
	}
	return nil
}

// outputRunText outputs the run result as text.
func outputRunText(w io.Writer, result RunResult) error {
	s := result.Summary

	if len(s.Reports) == 0 && len(s.SetupFailures) == 0 {
		fmt.Fprintln(w, "No fixtures found.")
		return nil
	}

	for _, f := range s.SetupFailures {
		fmt.Fprintf(w, "✗ %s\n", f.Format)
		fmt.Fprintf(w, "  Load error: %s\n", f.Error)
	}

	for _, r := range s.Reports {
		switch {
		case r.Unsupported:
			fmt.Fprintf(w, "- %s (unsupported, %d skipped)\n", r.Format, r.Skipped)
		case r.OK():
			fmt.Fprintf(w, "✓ %s (%d passed)\n", r.Format, r.Passed)
		default:
			fmt.Fprintf(w, "✗ %s (%d passed, %d failed, %d errored)\n",
				r.Format, r.Passed, r.Failed, r.Errored)
			for _, c := range r.Failures() {
				fmt.Fprintf(w, "  case %d [%s]: %s\n", c.Index, c.Status, indent(c.Reason, "    "))
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d skipped, %d errored\n",
		s.Passed, s.Failed, s.Skipped, s.Errored)
	if result.RunID != "" {
		fmt.Fprintf(w, "Recorded run %s\n", result.RunID)
	}

	if err := runExitError(s); err != nil {
		return err
	}

	fmt.Fprintln(w, "✓ All formats passed")
	return nil
}

// indent prefixes every line after the first.
func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

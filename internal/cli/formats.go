package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/formatconform/internal/fixture"
	"github.com/roach88/formatconform/internal/format/builtin"
)

// FormatsOptions holds flags for the formats command.
type FormatsOptions struct {
	*RootOptions
	Prefix string
}

// FormatEntry describes one format known to the attribute registry or the
// fixture directory.
type FormatEntry struct {
	Name      string `json:"name"`
	Supported bool   `json:"supported"`
	Fixture   bool   `json:"fixture"`
}

// NewFormatsCommand creates the formats command.
func NewFormatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "formats [fixtures-dir]",
		Short: "List builtin format attributes and fixture coverage",
		Long: `List the builtin format attributes. With a fixtures directory, also
show which formats have a fixture under format/<prefix>/ and which fixtures
have no attribute.

Examples:
  formatconform formats
  formatconform formats ./testdata --prefix draftv4`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return listFormats(opts, dir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", DefaultPrefix, "fixture prefix under format/")

	return cmd
}

func listFormats(opts *FormatsOptions, fixturesDir string, cmd *cobra.Command) error {
	entries := map[string]*FormatEntry{}
	for _, name := range builtin.Registry().Names() {
		entries[name] = &FormatEntry{Name: name, Supported: true}
	}

	if fixturesDir != "" {
		if info, err := os.Stat(fixturesDir); err != nil || !info.IsDir() {
			return NewExitError(ExitCommandError, fmt.Sprintf("fixtures directory not found: %s", fixturesDir))
		}
		names, err := fixture.NewLoader(os.DirFS(fixturesDir), opts.Prefix).Formats()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list fixtures", err)
		}
		for _, name := range names {
			if e, ok := entries[name]; ok {
				e.Fixture = true
				continue
			}
			entries[name] = &FormatEntry{Name: name, Fixture: true}
		}
	}

	list := make([]FormatEntry, 0, len(entries))
	for _, e := range entries {
		list = append(list, *e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(map[string]any{"formats": list})
	}

	w := cmd.OutOrStdout()
	for _, e := range list {
		switch {
		case fixturesDir == "":
			fmt.Fprintln(w, e.Name)
		case e.Supported && e.Fixture:
			fmt.Fprintf(w, "✓ %s\n", e.Name)
		case e.Supported:
			fmt.Fprintf(w, "- %s (no fixture)\n", e.Name)
		default:
			fmt.Fprintf(w, "✗ %s (no attribute)\n", e.Name)
		}
	}
	return nil
}

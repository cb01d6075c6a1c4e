package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/formatconform/internal/ir"
	"github.com/roach88/formatconform/internal/message"
)

// MessageOptions holds flags for the message command.
type MessageOptions struct {
	*RootOptions
	Params  []string // parameter names, in order
	Data    string   // JSON object holding the parameter values
	Catalog string   // catalog file overlaid on the embedded one
}

// MessageResult is the JSON payload of the message command.
type MessageResult struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// NewMessageCommand creates the message command.
func NewMessageCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MessageOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "message <key>",
		Short: "Build a message from the catalog",
		Long: `Build the message a fixture case expects, the same way the harness does.

Without --params the raw template is printed. With --params every named
parameter is looked up in --data, converted and interpolated in order.

Examples:
  formatconform message err.format.invalidEmail
  formatconform message err.format.invalidDate --params value,expected \
    --data '{"value": "2012-13-01", "expected": ["yyyy-MM-dd"]}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params []string
			if cmd.Flags().Changed("params") {
				params = opts.Params
				if params == nil {
					params = []string{}
				}
			}
			return buildMessage(opts, args[0], params, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Params, "params", nil, "comma-separated parameter names")
	cmd.Flags().StringVar(&opts.Data, "data", "{}", "JSON object with parameter values")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "message catalog file (.yaml, .cue or .json)")

	return cmd
}

func buildMessage(opts *MessageOptions, key string, params []string, cmd *cobra.Command) error {
	catalog, err := loadCatalog(opts.Catalog)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}

	parsed, err := ir.UnmarshalIRValue([]byte(opts.Data))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --data", err)
	}
	data, ok := parsed.(ir.IRObject)
	if !ok {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid --data: must be a JSON object, got %s", parsed.Kind()))
	}

	text, err := message.Build(catalog, key, params, data)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build message", err)
	}

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(MessageResult{Key: key, Message: text})
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

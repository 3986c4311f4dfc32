package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"medredact/internal/redact"
)

func newTextCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "text [TEXT...]",
		Short: "Redact a single piece of text (stdin when no argument)",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, _, err := ctx.newEngine()
			if err != nil {
				return err
			}
			input, err := textArgument(cmd, args)
			if err != nil {
				return err
			}

			out, report := engine.SanitizeText(input)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), struct {
					Text   string        `json:"text"`
					Report redact.Report `json:"report"`
				}{out, report})
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the sanitized text and counts as JSON")
	return cmd
}

// textArgument joins args, or reads stdin when there are none.
func textArgument(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

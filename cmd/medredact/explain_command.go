package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newExplainCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "explain [TEXT...]",
		Short: "Show how each token of a text is classified",
		Long: `Run the redaction pipeline on one text and print a decision per token:
preserved (and by which rule), redacted (and which placeholder), or passed
through. Use it to tune preserved_terms and the name dictionary. The output
includes the source tokens, so keep it on the local machine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, _, err := ctx.newEngine()
			if err != nil {
				return err
			}
			input, err := textArgument(cmd, args)
			if err != nil {
				return err
			}

			decisions := engine.Explain(input)
			warnSourceText(cmd.ErrOrStderr())
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), decisions)
			}

			rows := make([][]string, 0, len(decisions))
			for i, d := range decisions {
				span := ""
				if d.Span > 0 {
					span = strconv.Itoa(d.Span)
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), d.Token, d.Action, d.Reason, d.Placeholder, span})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Token", "Action", "Reason", "Placeholder", "Span"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print decisions as JSON")
	return cmd
}

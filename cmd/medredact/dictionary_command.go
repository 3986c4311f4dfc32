package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"medredact/internal/names"
)

func newDictionaryCommand(ctx *commandContext) *cobra.Command {
	dictCmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Name dictionary utilities",
	}
	dictCmd.AddCommand(newDictionaryCheckCommand(ctx))
	return dictCmd
}

func newDictionaryCheckCommand(ctx *commandContext) *cobra.Command {
	var pathFlag string

	cmd := &cobra.Command{
		Use:   "check [WORD...]",
		Short: "Load the name dictionary and classify optional words",
		Long: `Load the configured name dictionary strictly, report its size, and
classify each WORD with the same rules the redactor uses (dictionary
membership, attached title prefix, family-name suffix).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := strings.TrimSpace(pathFlag)
			if path == "" {
				path = strings.TrimSpace(cfg.Redaction.NameDictionaryPath)
			}
			if path == "" {
				return fmt.Errorf("no name dictionary configured; set redaction.name_dictionary_path or pass --path")
			}

			file, err := os.Open(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("name dictionary %s not found", path)
				}
				return fmt.Errorf("open name dictionary: %w", err)
			}
			defer file.Close()
			dict, err := names.ReadDictionary(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printKeyValues(out, [][2]string{
				{"Dictionary", path},
				{"Entries", strconv.Itoa(dict.Len())},
			})
			if len(args) == 0 {
				return nil
			}

			warnSourceText(cmd.ErrOrStderr())
			classifier := names.NewClassifier(dict, cfg.Redaction.NameSuffixes)
			preserve := cfg.Allowlist()
			rows := make([][]string, 0, len(args))
			for _, word := range args {
				verdict := "not a name"
				if reason, ok := preserve.Reason(word); ok {
					verdict = "preserved (" + reason + ")"
				} else if match, ok := classifier.Match(word); ok {
					verdict = "name (" + match.Reason + ")"
				} else if names.IsHonorific(word) {
					verdict = "title"
				}
				rows = append(rows, []string{word, verdict})
			}
			fmt.Fprintln(out, renderTable([]string{"Word", "Classification"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&pathFlag, "path", "", "Dictionary file (default redaction.name_dictionary_path)")
	return cmd
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"medredact/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sanitize runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd.OutOrStdout(), runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						string(run.Status),
						strconv.Itoa(run.Documents),
						strconv.Itoa(run.Changed),
						strconv.Itoa(run.Totals.IDs),
						strconv.Itoa(run.Totals.NameSpans),
						run.Duration.Round(time.Millisecond).String(),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Status", "Docs", "Changed", "IDs", "Names", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one run and its per-file counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				run, files, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput {
					if files == nil {
						files = []history.FileStat{}
					}
					return writeJSON(out, struct {
						Run   *history.Run       `json:"run"`
						Files []history.FileStat `json:"files"`
					}{run, files})
				}

				pairs := [][2]string{
					{"Run", run.ID},
					{"Status", string(run.Status)},
					{"Input", run.InputPath},
					{"Output", run.OutputPath},
					{"Policy", run.Policy},
					{"Started", run.StartedAt.Local().Format(time.RFC3339)},
					{"Documents", strconv.Itoa(run.Documents)},
					{"Changed", strconv.Itoa(run.Changed)},
					{"IDs redacted", strconv.Itoa(run.Totals.IDs)},
					{"Name spans", strconv.Itoa(run.Totals.NameSpans)},
					{"Duration", run.Duration.Round(time.Millisecond).String()},
				}
				if run.Error != "" {
					pairs = append(pairs, [2]string{"Error", run.Error})
				}
				printKeyValues(out, pairs)

				if len(files) > 0 {
					rows := make([][]string, 0, len(files))
					for _, f := range files {
						rows = append(rows, []string{f.Filename, strconv.Itoa(f.Pages), strconv.Itoa(f.ChangedPages), strconv.Itoa(f.IDs), strconv.Itoa(f.NameSpans)})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"File", "Pages", "Changed", "IDs", "Names"},
						rows,
						[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
					))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	var all bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old run records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && olderThan <= 0 {
				return fmt.Errorf("specify --older-than DURATION or --all")
			}
			var cutoff time.Time
			if !all {
				cutoff = time.Now().Add(-olderThan)
			}
			return withHistoryStore(ctx, func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Remove runs started longer ago than this (e.g. 720h)")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every run")
	return cmd
}

func withHistoryStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

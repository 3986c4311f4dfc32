package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"medredact/internal/batch"
	"medredact/internal/config"
	"medredact/internal/document"
	"medredact/internal/history"
	"medredact/internal/logging"
	"medredact/internal/pdftext"
	"medredact/internal/records"
)

type sanitizeOptions struct {
	input       string
	output      string
	format      string
	workers     int
	jsonOutput  bool
	groupByFile bool
}

type sanitizeReport struct {
	RunID   string        `json:"run_id"`
	Input   string        `json:"input"`
	Output  string        `json:"output,omitempty"`
	Summary batch.Summary `json:"summary"`
}

func newSanitizeCommand(ctx *commandContext) *cobra.Command {
	var opts sanitizeOptions

	cmd := &cobra.Command{
		Use:   "sanitize",
		Short: "Redact extracted pages from a table, PDF, or directory of PDFs",
		Long: `Redact 9-digit ID numbers and person names from extracted pages.

Input may be a CSV table (Filename, Page Number, Text Content or OCR Text),
a JSON Lines or JSON array of {filename, pageNumber, text} documents, a PDF,
or a directory of PDFs. Output format follows the --output extension; without
--output the sanitized records are written to stdout and the summary to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSanitize(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input file or directory of PDFs")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (.csv, .jsonl, .json); stdout when empty")
	cmd.Flags().StringVar(&opts.format, "format", "", "Stdout format when --output is empty (csv, jsonl, json)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Concurrent documents (default processing.workers)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().BoolVar(&opts.groupByFile, "group-by-file", false, "Write one JSON entry per source file instead of per page")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runSanitize(cmd *cobra.Command, ctx *commandContext, opts sanitizeOptions) error {
	engine, cfg, logger, err := ctx.newEngine()
	if err != nil {
		return err
	}
	logger = logging.NewComponentLogger(logger, "sanitize")

	input, err := config.ExpandPath(opts.input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	output := strings.TrimSpace(opts.output)
	if output != "" {
		if output, err = config.ExpandPath(output); err != nil {
			return fmt.Errorf("resolve output: %w", err)
		}
		if samePath(input, output) {
			return fmt.Errorf("output %s would overwrite the input", output)
		}
	}

	stdoutFormat, err := resolveStdoutFormat(opts, output)
	if err != nil {
		return err
	}

	docs, layout, err := loadInput(input)
	if err != nil {
		return err
	}

	if output != "" {
		unlock, err := lockOutput(output)
		if err != nil {
			return err
		}
		defer unlock()
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Processing.Workers
	}

	store, run := beginHistory(cmd.Context(), cfg, logger, input, output)
	if store != nil {
		defer store.Close()
	}
	runID := uuid.NewString()
	if run != nil {
		runID = run.ID
	}
	runCtx := logging.WithRunID(cmd.Context(), runID)

	logger.Info("sanitize started",
		logging.String(logging.FieldEventType, "sanitize_started"),
		logging.String(logging.FieldRunID, runID),
		logging.String("input", input),
		logging.Int("documents", len(docs)),
		logging.Int("workers", workers),
	)

	result, runErr := batch.Run(runCtx, engine, docs, batch.Options{Workers: workers, Logger: logger})
	if runErr == nil {
		runErr = writeOutput(cmd.OutOrStdout(), output, stdoutFormat, result.Documents, layout, opts.groupByFile)
	}

	if store != nil && run != nil {
		files := history.FileStats(result.Documents, result.Reports)
		if err := store.FinishRun(context.WithoutCancel(runCtx), run, result.Summary, files, runErr); err != nil {
			logging.WarnWithContext(logger, "failed to record run history", "history_write_failed",
				logging.String(logging.FieldRunID, runID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the state_dir database"),
				logging.String(logging.FieldImpact, "this run is missing from `medredact history`"),
			)
		}
	}
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) {
			logging.ErrorWithContext(logging.WithContext(runCtx, logger), "sanitize failed", "sanitize_failed",
				logging.Error(runErr),
				logging.String(logging.FieldErrorHint, "check the input table and output path"),
			)
		}
		return runErr
	}

	summaryOut := cmd.OutOrStdout()
	if output == "" {
		summaryOut = cmd.ErrOrStderr()
	}
	report := sanitizeReport{RunID: runID, Input: input, Output: output, Summary: result.Summary}
	if opts.jsonOutput {
		return writeJSON(summaryOut, report)
	}
	printKeyValues(summaryOut, summaryPairs(report))
	return nil
}

func resolveStdoutFormat(opts sanitizeOptions, output string) (records.Format, error) {
	if output != "" {
		if opts.groupByFile {
			if format, err := records.DetectFormat(output); err != nil || format != records.FormatJSON {
				return "", fmt.Errorf("--group-by-file writes JSON; use a .json output path")
			}
			return records.FormatJSON, nil
		}
		return records.DetectFormat(output)
	}
	if opts.groupByFile {
		return records.FormatJSON, nil
	}
	switch records.Format(strings.ToLower(strings.TrimSpace(opts.format))) {
	case "":
		return "", nil
	case records.FormatCSV:
		return records.FormatCSV, nil
	case records.FormatJSONL:
		return records.FormatJSONL, nil
	case records.FormatJSON:
		return records.FormatJSON, nil
	}
	return "", fmt.Errorf("%w: --format %q", records.ErrUnsupportedFormat, opts.format)
}

// loadInput reads a record table, a single PDF, or every PDF in a directory.
func loadInput(path string) ([]document.Document, records.Layout, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, records.Layout{}, fmt.Errorf("input: %w", err)
	}
	if info.IsDir() {
		docs, err := pdftext.ExtractDir(path)
		return docs, records.Layout{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		docs, err := pdftext.ExtractFile(path)
		return docs, records.Layout{}, err
	}
	return records.Read(path)
}

func writeOutput(stdout io.Writer, output string, format records.Format, docs []document.Document, layout records.Layout, grouped bool) error {
	if grouped {
		groups := records.GroupByFile(docs)
		if output == "" {
			return records.EncodeFileTexts(stdout, groups)
		}
		return records.WriteFileTexts(output, groups)
	}
	if output != "" {
		return records.Write(output, docs, layout)
	}
	if format == "" {
		format = layout.Format
	}
	if format == "" {
		format = records.FormatJSONL
	}
	return records.Encode(stdout, format, docs, layout)
}

// lockOutput takes an exclusive lock next to output so two runs never write
// the same file.
func lockOutput(output string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lockPath := output + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another sanitize run is writing %s (lock %s)", output, lockPath)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}, nil
}

func beginHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, input, output string) (*history.Store, *history.Run) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the history database or set history.enabled = false"),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
		)
		return nil, nil
	}
	run, err := store.BeginRun(ctx, history.RunRequest{
		InputPath:  input,
		OutputPath: output,
		Policy:     cfg.Redaction.NamePlaceholderPolicy,
	})
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
		)
		return store, nil
	}
	return store, run
}

func summaryPairs(report sanitizeReport) [][2]string {
	s := report.Summary
	output := report.Output
	if output == "" {
		output = "stdout"
	}
	pairs := [][2]string{
		{"Run", shortID(report.RunID)},
		{"Output", output},
		{"Files", strconv.Itoa(s.Files)},
		{"Documents", strconv.Itoa(s.Documents)},
		{"With text", strconv.Itoa(s.WithText)},
		{"Changed", strconv.Itoa(s.Changed)},
		{"IDs redacted", strconv.Itoa(s.Totals.IDs)},
		{"Name spans", strconv.Itoa(s.Totals.NameSpans)},
		{"Name tokens", strconv.Itoa(s.Totals.NameTokens)},
		{"Preserved", strconv.Itoa(s.Totals.Preserved)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	}
	if s.Totals.Recovered > 0 {
		pairs = append(pairs, [2]string{"Recovered", strconv.Itoa(s.Totals.Recovered)})
	}
	return pairs
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

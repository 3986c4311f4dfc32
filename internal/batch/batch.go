// Package batch sanitizes many documents concurrently.
//
// Documents are independent, so they fan out over a bounded errgroup. Each
// Sanitize call owns its own redaction state; results keep input order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"medredact/internal/document"
	"medredact/internal/logging"
	"medredact/internal/redact"
)

// Sanitizer redacts one document. *redact.Engine satisfies it.
type Sanitizer interface {
	Sanitize(doc document.Document) (document.Document, redact.Report)
}

// Options tunes a batch run.
type Options struct {
	Workers int
	Logger  *slog.Logger
	// Progress, when set, is called after each document with the number
	// completed so far. Calls may come from several goroutines.
	Progress func(done, total int)
}

// Summary aggregates a run. It holds counts only.
type Summary struct {
	Documents int           `json:"documents"`
	Files     int           `json:"files"`
	WithText  int           `json:"with_text"`
	Changed   int           `json:"changed"`
	Totals    redact.Report `json:"totals"`
	Duration  time.Duration `json:"duration"`
}

// Result is the output of Run. Documents[i] and Reports[i] correspond to the
// i-th input document.
type Result struct {
	Documents []document.Document
	Reports   []redact.Report
	Summary   Summary
}

// Run sanitizes docs with up to opts.Workers goroutines. It stops early and
// returns the context error when ctx is cancelled.
func Run(ctx context.Context, s Sanitizer, docs []document.Document, opts Options) (Result, error) {
	if s == nil {
		return Result{}, fmt.Errorf("batch: nil sanitizer")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := logging.NewComponentLogger(logging.WithContext(ctx, opts.Logger), "batch")

	start := time.Now()
	out := make([]document.Document, len(docs))
	reports := make([]redact.Report, len(docs))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i], reports[i] = s.Sanitize(docs[i])
			logger.Debug("document sanitized",
				logging.String(logging.FieldFilename, docs[i].Filename),
				logging.Int(logging.FieldPage, docs[i].PageNumber),
				logging.Int("ids", reports[i].IDs),
				logging.Int("name_spans", reports[i].NameSpans),
			)
			n := int(done.Add(1))
			if opts.Progress != nil {
				opts.Progress(n, len(docs))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("sanitize batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("sanitize batch: %w", err)
	}

	summary := Summarize(out, reports)
	summary.Duration = time.Since(start)
	logger.Info("batch complete",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("documents", summary.Documents),
		logging.Int("files", summary.Files),
		logging.Int("changed", summary.Changed),
		logging.Int("ids", summary.Totals.IDs),
		logging.Int("name_spans", summary.Totals.NameSpans),
		logging.Int("workers", workers),
		logging.Duration("duration", summary.Duration),
	)
	if summary.Totals.Recovered > 0 {
		logging.WarnWithContext(logger, "some tokens could not be classified", "batch_tokens_recovered",
			logging.Int("recovered", summary.Totals.Recovered),
			logging.String(logging.FieldErrorHint, "rerun with --log-level debug and review the reported pages"),
			logging.String(logging.FieldImpact, "affected tokens were left unredacted"),
		)
	}
	return Result{Documents: out, Reports: reports, Summary: summary}, nil
}

// Summarize totals per-document reports.
func Summarize(docs []document.Document, reports []redact.Report) Summary {
	summary := Summary{Documents: len(docs)}
	files := make(map[string]struct{})
	for i, doc := range docs {
		files[doc.Filename] = struct{}{}
		if doc.HasText() {
			summary.WithText++
		}
		if i < len(reports) {
			if reports[i].Changed() {
				summary.Changed++
			}
			summary.Totals.Add(reports[i])
		}
	}
	summary.Files = len(files)
	return summary
}

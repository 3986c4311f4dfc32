package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medredact/internal/batch"
)

// ErrRunNotFound is returned by GetRun for unknown identifiers.
var ErrRunNotFound = errors.New("run not found")

const runColumns = "id, status, input_path, output_path, policy, started_at, finished_at, duration_ms, documents, files, with_text, changed, ids, name_spans, name_tokens, preserved, tokens, recovered, error_message"

// BeginRun inserts a running row and returns it with a fresh identifier.
func (s *Store) BeginRun(ctx context.Context, req RunRequest) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		Status:     StatusRunning,
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		Policy:     req.Policy,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, status, input_path, output_path, policy, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Status,
		nullableString(run.InputPath),
		nullableString(run.OutputPath),
		nullableString(run.Policy),
		run.StartedAt.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stores the summary and per-file counts of run. A non-nil runErr
// marks the run failed and records its message.
func (s *Store) FinishRun(ctx context.Context, run *Run, summary batch.Summary, files []FileStat, runErr error) error {
	if run == nil {
		return fmt.Errorf("finish run: nil run")
	}
	ctx = ensureContext(ctx)
	applySummary(run, summary)
	run.FinishedAt = time.Now().UTC()
	run.Status = StatusCompleted
	if runErr != nil {
		run.Status = StatusFailed
		run.Error = runErr.Error()
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin finish tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`UPDATE runs SET status = ?, finished_at = ?, duration_ms = ?, documents = ?, files = ?,
                with_text = ?, changed = ?, ids = ?, name_spans = ?, name_tokens = ?, preserved = ?,
                tokens = ?, recovered = ?, error_message = ?
             WHERE id = ?`,
			run.Status,
			run.FinishedAt.Format(timestampLayout),
			run.Duration.Milliseconds(),
			run.Documents,
			run.Files,
			run.WithText,
			run.Changed,
			run.Totals.IDs,
			run.Totals.NameSpans,
			run.Totals.NameTokens,
			run.Totals.Preserved,
			run.Totals.Tokens,
			run.Totals.Recovered,
			nullableString(run.Error),
			run.ID,
		)
		if err != nil {
			return fmt.Errorf("update run: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
		}

		for _, file := range files {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO run_files (run_id, filename, pages, changed_pages, ids, name_spans) VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, file.Filename, file.Pages, file.ChangedPages, file.IDs, file.NameSpans,
			); err != nil {
				return fmt.Errorf("insert run file: %w", err)
			}
		}
		return tx.Commit()
	})
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run and its per-file counts. id may be a unique prefix.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, []FileStat, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id LIKE ? || '%' LIMIT 2", id)
	if err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()

	switch {
	case id == "" || len(matches) == 0:
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(matches) > 1:
		return nil, nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
	run := matches[0]

	fileRows, err := s.db.QueryContext(ctx,
		"SELECT filename, pages, changed_pages, ids, name_spans FROM run_files WHERE run_id = ? ORDER BY rowid", run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get run files: %w", err)
	}
	defer fileRows.Close()

	var files []FileStat
	for fileRows.Next() {
		var file FileStat
		if err := fileRows.Scan(&file.Filename, &file.Pages, &file.ChangedPages, &file.IDs, &file.NameSpans); err != nil {
			return nil, nil, fmt.Errorf("scan run file: %w", err)
		}
		files = append(files, file)
	}
	return run, files, fileRows.Err()
}

// Prune deletes runs that started before cutoff, with their file rows, and
// returns how many runs were removed. A zero cutoff removes every run.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	where := ""
	var args []any
	if !cutoff.IsZero() {
		where = " WHERE started_at < ?"
		args = append(args, cutoff.UTC().Format(timestampLayout))
	}

	var removed int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin prune tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM run_files WHERE run_id IN (SELECT id FROM runs"+where+")", args...); err != nil {
			return fmt.Errorf("prune run files: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM runs"+where, args...)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	return removed, err
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		status       string
		inputPath    sql.NullString
		outputPath   sql.NullString
		policy       sql.NullString
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
		durationMS   int64
		errorMessage sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&inputPath,
		&outputPath,
		&policy,
		&startedRaw,
		&finishedRaw,
		&durationMS,
		&run.Documents,
		&run.Files,
		&run.WithText,
		&run.Changed,
		&run.Totals.IDs,
		&run.Totals.NameSpans,
		&run.Totals.NameTokens,
		&run.Totals.Preserved,
		&run.Totals.Tokens,
		&run.Totals.Recovered,
		&errorMessage,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = Status(status)
	run.InputPath = inputPath.String
	run.OutputPath = outputPath.String
	run.Policy = policy.String
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Error = errorMessage.String
	return &run, nil
}

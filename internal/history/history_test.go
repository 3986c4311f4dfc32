package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"medredact/internal/batch"
	"medredact/internal/document"
	"medredact/internal/history"
	"medredact/internal/redact"
	"medredact/internal/testsupport"
)

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, history.RunRequest{InputPath: "/in/pages.csv", OutputPath: "/out/pages.csv", Policy: "fixed"})
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" || run.Status != history.StatusRunning {
		t.Fatalf("unexpected run: %+v", run)
	}

	summary := batch.Summary{
		Documents: 3,
		Files:     2,
		WithText:  3,
		Changed:   2,
		Totals:    redact.Report{IDs: 1, NameSpans: 2, NameTokens: 3, Preserved: 4, Tokens: 20},
		Duration:  1500 * time.Millisecond,
	}
	files := []history.FileStat{
		{Filename: "b.pdf", Pages: 2, ChangedPages: 1, IDs: 1, NameSpans: 1},
		{Filename: "a.pdf", Pages: 1, ChangedPages: 1, NameSpans: 1},
	}
	if err := store.FinishRun(ctx, run, summary, files, nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, gotFiles, err := store.GetRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != history.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.Totals != summary.Totals || got.Documents != 3 || got.Files != 2 || got.Changed != 2 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Fatalf("duration = %v", got.Duration)
	}
	if got.InputPath != "/in/pages.csv" || got.Policy != "fixed" {
		t.Fatalf("unexpected paths: %+v", got)
	}
	if got.FinishedAt.IsZero() {
		t.Fatal("expected finished_at to be set")
	}
	if len(gotFiles) != 2 || gotFiles[0].Filename != "b.pdf" || gotFiles[1] != files[1] {
		t.Fatalf("unexpected files: %+v", gotFiles)
	}
}

func TestFinishRunFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, history.RunRequest{InputPath: "in.jsonl"})
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, run, batch.Summary{}, nil, errors.New("context canceled")); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	got, _, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != history.StatusFailed || got.Error != "context canceled" {
		t.Fatalf("unexpected failed run: %+v", got)
	}
}

func TestFinishRunUnknown(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	err := store.FinishRun(context.Background(), &history.Run{ID: "missing"}, batch.Summary{}, nil, nil)
	if !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.BeginRun(ctx, history.RunRequest{})
		if err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
		ids = append(ids, run.ID)
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: %+v", runs)
	}

	all, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	for _, id := range []string{"", "nope"} {
		if _, _, err := store.GetRun(context.Background(), id); !errors.Is(err, history.ErrRunNotFound) {
			t.Fatalf("GetRun(%q) error = %v, want ErrRunNotFound", id, err)
		}
	}
}

func TestPruneRemovesFiles(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	run, err := store.BeginRun(ctx, history.RunRequest{})
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, run, batch.Summary{}, []history.FileStat{{Filename: "a.pdf", Pages: 1}}, nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	removed, err := store.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected recent run to survive, removed %d", removed)
	}

	removed, err = store.Prune(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Prune all: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 run removed, got %d", removed)
	}
	if _, _, err := store.GetRun(ctx, run.ID); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected pruned run to be gone, got %v", err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := history.OpenPath(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestFileStats(t *testing.T) {
	docs := []document.Document{
		document.New("a.pdf", 1, "x"),
		document.New("b.pdf", 1, "y"),
		document.New("a.pdf", 2, "z"),
	}
	reports := []redact.Report{
		{IDs: 1},
		{},
		{NameSpans: 2},
	}
	stats := history.FileStats(docs, reports)
	want := []history.FileStat{
		{Filename: "a.pdf", Pages: 2, ChangedPages: 2, IDs: 1, NameSpans: 2},
		{Filename: "b.pdf", Pages: 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("got %d stats, want %d", len(stats), len(want))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}
}

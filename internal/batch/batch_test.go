package batch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"medredact/internal/batch"
	"medredact/internal/document"
	"medredact/internal/names"
	"medredact/internal/redact"
)

func newEngine() *redact.Engine {
	return redact.New(nil, names.NewClassifier(names.NewDictionary([]string{"כהן"}), nil), redact.Options{}, nil)
}

func TestRunKeepsOrderAndIsolatesState(t *testing.T) {
	docs := make([]document.Document, 50)
	for i := range docs {
		docs[i] = document.New(fmt.Sprintf("file-%d.pdf", i%5), i, fmt.Sprintf("כהן %09d", 100000000+i))
	}

	var mu sync.Mutex
	var progress []int
	result, err := batch.Run(context.Background(), newEngine(), docs, batch.Options{
		Workers: 8,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != len(docs) {
				t.Errorf("total = %d, want %d", total, len(docs))
			}
			progress = append(progress, done)
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, doc := range result.Documents {
		if doc.PageNumber != i {
			t.Fatalf("document %d out of order: page %d", i, doc.PageNumber)
		}
		if doc.TextValue() != "NAME_REDACTED ID_000001" {
			t.Fatalf("document %d = %q", i, doc.TextValue())
		}
	}
	if len(progress) != len(docs) {
		t.Fatalf("progress called %d times, want %d", len(progress), len(docs))
	}

	s := result.Summary
	if s.Documents != 50 || s.Files != 5 || s.WithText != 50 || s.Changed != 50 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Totals.IDs != 50 || s.Totals.NameSpans != 50 {
		t.Fatalf("unexpected totals: %+v", s.Totals)
	}
}

func TestRunPassesDocumentsWithoutText(t *testing.T) {
	docs := []document.Document{
		{Filename: "a.pdf", PageNumber: 1},
		document.New("a.pdf", 2, "שלום"),
	}
	result, err := batch.Run(context.Background(), newEngine(), docs, batch.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Documents[0].HasText() {
		t.Fatal("document without text gained text")
	}
	if result.Summary.WithText != 1 || result.Summary.Changed != 0 {
		t.Fatalf("unexpected summary: %+v", result.Summary)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := []document.Document{document.New("a.pdf", 1, "כהן")}
	_, err := batch.Run(ctx, newEngine(), docs, batch.Options{Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunNilSanitizer(t *testing.T) {
	if _, err := batch.Run(context.Background(), nil, nil, batch.Options{}); err == nil {
		t.Fatal("expected error for nil sanitizer")
	}
}

func TestRunEmpty(t *testing.T) {
	result, err := batch.Run(context.Background(), newEngine(), nil, batch.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Summary.Documents != 0 || len(result.Documents) != 0 {
		t.Fatalf("unexpected result: %+v", result.Summary)
	}
}

package pdftext_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"medredact/internal/pdftext"
)

func TestExtractFileMissing(t *testing.T) {
	_, err := pdftext.ExtractFile(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestExtractFileRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"text", "Filename,Page Number,Text Content\n"},
		{"short", "%P"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.pdf")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			if _, err := pdftext.ExtractFile(path); !errors.Is(err, pdftext.ErrNotPDF) {
				t.Fatalf("expected ErrNotPDF, got %v", err)
			}
		})
	}
}

func TestExtractFileMalformedBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nnot really a pdf\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := pdftext.ExtractFile(path); err == nil {
		t.Fatal("expected error for malformed pdf body")
	}
}

func TestExtractDirSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	docs, err := pdftext.ExtractDir(dir)
	if err != nil {
		t.Fatalf("ExtractDir: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestExtractDirPropagatesErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fake.pdf"), []byte("plain"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := pdftext.ExtractDir(dir); !errors.Is(err, pdftext.ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

// Package pdftext extracts per-page text from searchable PDFs.
//
// Scanned PDFs have no text layer; their pages come back with empty text and
// must go through OCR before redaction.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"medredact/internal/document"
)

// ErrNotPDF is returned when a file lacks the PDF header.
var ErrNotPDF = errors.New("not a pdf file")

var pdfMagic = []byte("%PDF-")

// ExtractFile returns one document per page of path. Page numbers are
// 1-based. Pages whose text cannot be decoded yield an empty text value.
func ExtractFile(path string) (docs []document.Document, err error) {
	if err := checkHeader(path); err != nil {
		return nil, err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("parse %s: %v", filepath.Base(path), r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	name := filepath.Base(path)
	total := reader.NumPage()
	docs = make([]document.Document, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			docs = append(docs, document.New(name, i, ""))
			continue
		}
		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			text = ""
		}
		docs = append(docs, document.New(name, i, strings.TrimSpace(text)))
	}
	return docs, nil
}

// ExtractDir extracts every *.pdf directly under dir, in filename order.
func ExtractDir(dir string) ([]document.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var docs []document.Document
	for _, name := range names {
		pages, err := ExtractFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", name, err)
		}
		docs = append(docs, pages...)
	}
	return docs, nil
}

func checkHeader(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(file, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(path))
	}
	return nil
}

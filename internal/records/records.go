// Package records reads and writes extracted page tables.
//
// Two shapes come out of the extraction step: a CSV table with Filename,
// Page Number, and a text column ("Text Content" for searchable PDFs, "OCR
// Text" for scanned ones), and JSON documents, one per line or as an array.
// Read remembers the table shape in a Layout so Write can emit the sanitized
// table with the same header, column order, and extra columns.
package records

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"medredact/internal/document"
)

// Format is a table encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no reader.
	ErrUnsupportedFormat = errors.New("unsupported record format")
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// Layout describes how a table was encoded.
type Layout struct {
	Format Format
	// Header is the CSV header as read, in order.
	Header []string
	// BOM records whether the CSV started with a UTF-8 byte order mark.
	BOM bool

	filenameCol int
	pageCol     int
	textCol     int
	// rows are the original CSV rows, kept for their extra columns.
	rows [][]string
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Read loads documents from path, choosing the reader by extension.
func Read(path string) ([]document.Document, Layout, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, Layout{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, Layout{}, fmt.Errorf("open records: %w", err)
	}
	defer file.Close()

	var docs []document.Document
	var layout Layout
	switch format {
	case FormatCSV:
		docs, layout, err = ReadCSV(file)
	case FormatJSONL:
		docs, err = ReadJSONL(file)
		layout = Layout{Format: FormatJSONL}
	case FormatJSON:
		docs, err = ReadJSON(file)
		layout = Layout{Format: FormatJSON}
	}
	if err != nil {
		return nil, Layout{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return docs, layout, nil
}

// Write stores docs at path in the format implied by its extension. The file
// is written to a temporary sibling and renamed into place. A CSV layout from
// Read is reused when writing CSV; other sources get the default header.
func Write(path string, docs []document.Document, layout Layout) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(w io.Writer) error {
		return Encode(w, format, docs, layout)
	})
}

// WriteFileTexts stores groups at path as an indented JSON array. Only the
// .json extension is accepted.
func WriteFileTexts(path string, groups []FileText) error {
	if format, err := DetectFormat(path); err != nil || format != FormatJSON {
		return fmt.Errorf("%w: grouped output must be .json, got %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return writeAtomic(path, func(w io.Writer) error {
		return EncodeFileTexts(w, groups)
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := write(tmp); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

// Encode writes docs to w in the given format. CSV uses layout when it came
// from a CSV source.
func Encode(w io.Writer, format Format, docs []document.Document, layout Layout) error {
	switch format {
	case FormatCSV:
		if layout.Format != FormatCSV {
			layout = DefaultCSVLayout()
		}
		return WriteCSV(w, docs, layout)
	case FormatJSONL:
		return WriteJSONL(w, docs)
	case FormatJSON:
		return WriteJSON(w, docs)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

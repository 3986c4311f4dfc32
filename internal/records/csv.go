package records

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"medredact/internal/document"
)

const (
	ColumnFilename    = "Filename"
	ColumnPageNumber  = "Page Number"
	ColumnTextContent = "Text Content"
	ColumnOCRText     = "OCR Text"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	filenameAliases = []string{"filename", "file", "file name"}
	pageAliases     = []string{"page number", "pagenumber", "page_number", "page"}
	textAliases     = []string{"text content", "ocr text", "text", "content"}
)

// DefaultCSVLayout is the searchable-text table shape.
func DefaultCSVLayout() Layout {
	return Layout{
		Format:      FormatCSV,
		Header:      []string{ColumnFilename, ColumnPageNumber, ColumnTextContent},
		filenameCol: 0,
		pageCol:     1,
		textCol:     2,
	}
}

// ReadCSV parses an extraction table. The filename and text columns are
// required; the page column is optional and defaults to 0.
func ReadCSV(r io.Reader) ([]document.Document, Layout, error) {
	br := bufio.NewReader(r)
	layout := Layout{Format: FormatCSV}
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		layout.BOM = true
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, layout, fmt.Errorf("%w: empty table", ErrMissingColumn)
		}
		return nil, layout, fmt.Errorf("read header: %w", err)
	}
	layout.Header = header
	layout.filenameCol = findColumn(header, filenameAliases)
	layout.pageCol = findColumn(header, pageAliases)
	layout.textCol = findColumn(header, textAliases)
	if layout.filenameCol < 0 {
		return nil, layout, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnFilename)
	}
	if layout.textCol < 0 {
		return nil, layout, fmt.Errorf("%w: %s or %s", ErrMissingColumn, ColumnTextContent, ColumnOCRText)
	}

	var docs []document.Document
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, layout, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}

		page := 0
		if layout.pageCol >= 0 {
			if raw := strings.TrimSpace(row[layout.pageCol]); raw != "" {
				page, err = strconv.Atoi(raw)
				if err != nil {
					return nil, layout, fmt.Errorf("row %d: invalid page number %q", line, raw)
				}
			}
		}
		docs = append(docs, document.New(row[layout.filenameCol], page, row[layout.textCol]))
		layout.rows = append(layout.rows, row)
	}
	return docs, layout, nil
}

// WriteCSV writes docs with layout's header. When layout carries the rows it
// was read from, their extra columns are reproduced.
func WriteCSV(w io.Writer, docs []document.Document, layout Layout) error {
	if len(layout.Header) == 0 {
		layout = DefaultCSVLayout()
	}
	if layout.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(layout.Header); err != nil {
		return err
	}
	keepRows := len(layout.rows) == len(docs)
	for i, doc := range docs {
		row := make([]string, len(layout.Header))
		if keepRows {
			copy(row, layout.rows[i])
		}
		row[layout.filenameCol] = doc.Filename
		if layout.pageCol >= 0 {
			row[layout.pageCol] = strconv.Itoa(doc.PageNumber)
		}
		row[layout.textCol] = doc.TextValue()
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), alias) {
				return i
			}
		}
	}
	return -1
}

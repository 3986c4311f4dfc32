// Package document defines the page-level record exchanged between the
// extraction adapters, the redaction engine, and the output writers.
//
// A Document carries the source filename, the 1-based page number, and the
// extracted text. Text is optional: extraction can produce pages with no text
// field at all, a JSON null, or a value of the wrong type. Those documents are
// carried through the pipeline untouched, including the original JSON value on
// re-encoding.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is one extracted page.
type Document struct {
	Filename   string
	PageNumber int
	Text       *string

	// rawText holds a non-string "text" JSON value so it can be written back
	// exactly as it was read.
	rawText json.RawMessage
}

// New returns a document with text set.
func New(filename string, page int, text string) Document {
	return Document{Filename: filename, PageNumber: page, Text: &text}
}

// HasText reports whether the document carries a string text value.
func (d Document) HasText() bool {
	return d.Text != nil
}

// TextValue returns the text or an empty string when absent.
func (d Document) TextValue() string {
	if d.Text == nil {
		return ""
	}
	return *d.Text
}

// WithText returns a copy of d with its text replaced. Filename and page
// number are preserved.
func (d Document) WithText(text string) Document {
	d.Text = &text
	d.rawText = nil
	return d
}

type wireDocument struct {
	Filename   string          `json:"filename"`
	PageNumber int             `json:"pageNumber"`
	Text       json.RawMessage `json:"text,omitempty"`
}

// MarshalJSON encodes the document using the extraction field names.
func (d Document) MarshalJSON() ([]byte, error) {
	wire := wireDocument{Filename: d.Filename, PageNumber: d.PageNumber}
	switch {
	case d.Text != nil:
		encoded, err := json.Marshal(*d.Text)
		if err != nil {
			return nil, fmt.Errorf("encode text: %w", err)
		}
		wire.Text = encoded
	case len(d.rawText) > 0:
		wire.Text = d.rawText
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a document. A string "text" populates Text; any other
// JSON value (including null) is retained verbatim and Text stays nil.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = Document{Filename: wire.Filename, PageNumber: wire.PageNumber}

	raw := bytes.TrimSpace(wire.Text)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return fmt.Errorf("decode text: %w", err)
		}
		d.Text = &text
		return nil
	}
	d.rawText = append(json.RawMessage(nil), raw...)
	return nil
}

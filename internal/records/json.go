package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"medredact/internal/document"
)

const maxLineBytes = 16 * 1024 * 1024

// ReadJSONL parses one document per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var docs []document.Document
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var doc document.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return docs, nil
}

// ReadJSON parses a JSON array of documents.
func ReadJSON(r io.Reader) ([]document.Document, error) {
	var docs []document.Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

// WriteJSONL writes one document per line.
func WriteJSONL(w io.Writer, docs []document.Document) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSON writes docs as an indented JSON array.
func WriteJSON(w io.Writer, docs []document.Document) error {
	if docs == nil {
		docs = []document.Document{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

package main

import (
	"encoding/json"
	"io"
)

// writeJSON encodes v as indented JSON. HTML characters are left unescaped so
// placeholders and Hebrew text read naturally.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

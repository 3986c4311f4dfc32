package records

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"medredact/internal/document"
)

// FileText is all text of one source file.
type FileText struct {
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
	Text     string `json:"text"`
}

// GroupByFile joins page texts per filename in page order, separated by a
// blank line. Files appear in order of first occurrence; pages without text
// count toward Pages but add no text.
func GroupByFile(docs []document.Document) []FileText {
	index := make(map[string]int)
	var order []string
	pages := make(map[string][]document.Document)
	for _, doc := range docs {
		if _, ok := index[doc.Filename]; !ok {
			index[doc.Filename] = len(order)
			order = append(order, doc.Filename)
		}
		pages[doc.Filename] = append(pages[doc.Filename], doc)
	}

	out := make([]FileText, 0, len(order))
	for _, name := range order {
		group := pages[name]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PageNumber < group[j].PageNumber
		})
		parts := make([]string, 0, len(group))
		for _, doc := range group {
			if doc.HasText() && doc.TextValue() != "" {
				parts = append(parts, doc.TextValue())
			}
		}
		out = append(out, FileText{Filename: name, Pages: len(group), Text: strings.Join(parts, "\n\n")})
	}
	return out
}

// EncodeFileTexts writes groups to w as an indented JSON array.
func EncodeFileTexts(w io.Writer, groups []FileText) error {
	if groups == nil {
		groups = []FileText{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(groups)
}

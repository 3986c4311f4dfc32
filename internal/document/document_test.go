package document

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalStringText(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(`{"filename":"a.pdf","pageNumber":2,"text":"שלום"}`), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Filename != "a.pdf" || doc.PageNumber != 2 {
		t.Fatalf("unexpected metadata: %+v", doc)
	}
	if !doc.HasText() || doc.TextValue() != "שלום" {
		t.Fatalf("TextValue() = %q, want %q", doc.TextValue(), "שלום")
	}
}

func TestNonStringTextPassesThrough(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"null", `{"filename":"a.pdf","pageNumber":1,"text":null}`, `{"filename":"a.pdf","pageNumber":1,"text":null}`},
		{"number", `{"filename":"a.pdf","pageNumber":1,"text":42}`, `{"filename":"a.pdf","pageNumber":1,"text":42}`},
		{"object", `{"filename":"a.pdf","pageNumber":1,"text":{"k":"v"}}`, `{"filename":"a.pdf","pageNumber":1,"text":{"k":"v"}}`},
		{"absent", `{"filename":"a.pdf","pageNumber":1}`, `{"filename":"a.pdf","pageNumber":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			if err := json.Unmarshal([]byte(tt.in), &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if doc.HasText() {
				t.Fatalf("expected no string text, got %q", doc.TextValue())
			}
			out, err := json.Marshal(doc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Marshal() = %s, want %s", out, tt.want)
			}
		})
	}
}

func TestWithTextKeepsMetadata(t *testing.T) {
	doc := New("scan.pdf", 3, "before")
	updated := doc.WithText("after")
	if updated.Filename != "scan.pdf" || updated.PageNumber != 3 {
		t.Fatalf("metadata changed: %+v", updated)
	}
	if updated.TextValue() != "after" {
		t.Fatalf("TextValue() = %q, want after", updated.TextValue())
	}
	if doc.TextValue() != "before" {
		t.Fatalf("original mutated: %q", doc.TextValue())
	}
}

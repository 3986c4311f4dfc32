package normalize

import "testing"

func TestRepairRTLSplits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"joins trailing letter", "כה ן", "כהן"},
		{"joins several letters", "ל ו י", "לוי"},
		{"word then letters", "משה כ ה ן", "משהכהן"},
		{"letter before word stays", "ו כהן", "ו כהן"},
		{"non rtl flushes", "כה 12 ן", "כה 12 ן"},
		{"latin untouched", "FIM 90/126", "FIM 90/126"},
		{"collapses whitespace", "  מר \n\t כהן  ", "מר כהן"},
		{"scenario unchanged", "ת.ז. 123456789 מר כהן לוי עצמאי", "ת.ז. 123456789 מר כהן לוי עצמאי"},
		{"empty", "", ""},
		{"blank", " \n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepairRTLSplits(tt.in); got != tt.want {
				t.Errorf("RepairRTLSplits(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRepairRTLSplitsIsIdempotent(t *testing.T) {
	inputs := []string{"כה ן לוי", "ל ו י 123 ש ם", "abc ד ef"}
	for _, in := range inputs {
		once := RepairRTLSplits(in)
		if twice := RepairRTLSplits(once); twice != once {
			t.Errorf("second pass changed %q to %q", once, twice)
		}
	}
}

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"שָׁלוֹם", "שלום"},
		{"כֹּהֵן", "כהן"},
		{"plain text", "plain text"},
		{"café", "café"},
	}
	for _, tt := range tests {
		if got := StripDiacritics(tt.in); got != tt.want {
			t.Errorf("StripDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripArtifacts(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"file:///C:/Users/x/discharge-letter.html סיכום", " סיכום"},
		{"מכתב discharge-letter.html", "מכתב "},
		{"סוף עמוד 2/3", "סוף "},
		{"page 1 of 4", ""},
		{"FIM 90/126", "FIM 90/126"},
	}
	for _, tt := range tests {
		if got := StripArtifacts(tt.in); got != tt.want {
			t.Errorf("StripArtifacts(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizerOptions(t *testing.T) {
	in := "file:///tmp/a.html כֹּהֵ ן ד״ר"

	plain := New(Options{}).Normalize(in)
	if plain != "file:///tmp/a.html כֹּהֵן ד״ר" {
		t.Fatalf("Normalize without options = %q", plain)
	}

	full := New(Options{StripArtifacts: true, StripDiacritics: true}).Normalize(in)
	if full != "כהן ד״ר" {
		t.Fatalf("Normalize with options = %q", full)
	}
}

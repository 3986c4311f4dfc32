package script

import "testing"

func TestIsRTLWord(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"כהן", true},
		{"مرحبا", true},
		{"", false},
		{"ת.ז.", false},
		{"abc", false},
		{"123", false},
		{"כהן,", false},
		{"כֹּהֵן", true},
		{"\u05b8א", false},
	}
	for _, tt := range tests {
		if got := IsRTLWord(tt.in); got != tt.want {
			t.Errorf("IsRTLWord(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsSingleRTLLetter(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ן", true},
		{"א", true},
		{"אב", false},
		{"a", false},
		{"", false},
		{"5", false},
	}
	for _, tt := range tests {
		if got := IsSingleRTLLetter(tt.in); got != tt.want {
			t.Errorf("IsSingleRTLLetter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasRTL(t *testing.T) {
	if !HasRTL("ID: ת.ז.") {
		t.Fatal("expected mixed text to contain RTL")
	}
	if HasRTL("FIM 90/126") {
		t.Fatal("expected Latin text to contain no RTL")
	}
}

func TestFoldQuotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ד״ר", `ד"ר`},
		{"פרופ׳", "פרופ'"},
		{"“x”", `"x"`},
		{`ד"ר`, `ד"ר`},
		{"כהן", "כהן"},
	}
	for _, tt := range tests {
		if got := FoldQuotes(tt.in); got != tt.want {
			t.Errorf("FoldQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package redact

import (
	"strings"
	"testing"
)

func TestNineDigitPlaceholdersAreKept(t *testing.T) {
	ph := withDefaults(Placeholders{IDWidth: idDigits})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"raw id", "ת.ז. 123456789", "ת.ז.: ID_000000001"},
		{"minted placeholder", "ID_000000001 נבדק", "ID_000000001 נבדק"},
		{"labeled placeholder", "ת.ז.: ID_000000001", "ת.ז.: ID_000000001"},
		{"prefix inside a word", "scan_ID_123456789", "scan_ID_ID_000000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactIDs(tt.in, newState(ph)); got != tt.want {
				t.Errorf("redactIDs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	engine := New(nil, nil, Options{Placeholders: ph}, nil)
	once, _ := engine.SanitizeText("מספר זהות 123456789 ושוב 987654321")
	twice, report := engine.SanitizeText(once)
	if twice != once || report.IDs != 0 {
		t.Fatalf("re-sanitizing %q gave %q with %d ids", once, twice, report.IDs)
	}
}

func TestLabelAtWindowEdgeNeedsBoundary(t *testing.T) {
	gap := strings.Repeat(" ", labelWindow-len("ID"))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"glued to a word", "xID" + gap + "123456789", "xID" + gap + "ID_000001"},
		{"after a space", " ID" + gap + "123456789", " ID: ID_000001"},
		{"after a parenthesis", "(ID" + gap + "123456789", "(ID: ID_000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactIDs(tt.in, newState(DefaultPlaceholders())); got != tt.want {
				t.Errorf("redactIDs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

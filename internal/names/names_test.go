package names

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medredact/internal/logging"
)

func TestReadDictionary(t *testing.T) {
	input := "\ufeffכהן\n# comment\n\n  לוי  \nכהן\nMoshe\n"
	dict, err := ReadDictionary(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadDictionary: %v", err)
	}
	if dict.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dict.Len())
	}
	for _, name := range []string{"כהן", "לוי", "Moshe", " לוי "} {
		if !dict.Contains(name) {
			t.Errorf("Contains(%q) = false, want true", name)
		}
	}
	if dict.Contains("# comment") {
		t.Error("comment line should not be an entry")
	}
	if dict.Contains("moshe") {
		t.Error("lookup should be case-sensitive")
	}
}

func TestLoadDictionaryMissingFileIsEmpty(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "names.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	dict := LoadDictionary(filepath.Join(t.TempDir(), "missing.txt"), logger)
	if dict == nil {
		t.Fatal("expected empty dictionary, got nil")
	}
	if dict.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", dict.Len())
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{
		`"level":"warn"`,
		`"event_type":"name_dictionary_unavailable"`,
		`"impact":"names are detected only by suffix and honorific rules"`,
		`"error_hint":"file not found`,
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected %s in log output %q", want, content)
		}
	}
}

func TestLoadDictionaryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	if err := os.WriteFile(path, []byte("כהן\nלוי\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dict := LoadDictionary(path, nil)
	if dict.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dict.Len())
	}
}

func TestNilDictionary(t *testing.T) {
	var dict *Dictionary
	if dict.Contains("כהן") || dict.Len() != 0 {
		t.Fatal("nil dictionary should be empty")
	}
}

func TestClassifierDictionaryStage(t *testing.T) {
	c := NewClassifier(NewDictionary([]string{"כהן", "לוי", "מרים"}), []string{})

	tests := []struct {
		token  string
		reason string
		key    string
		ok     bool
	}{
		{"כהן", ReasonDictionary, "כהן", true},
		{"כהן,", ReasonDictionary, "כהן", true},
		{`"לוי"`, ReasonDictionary, "לוי", true},
		{"מרים", ReasonDictionary, "מרים", true},
		{`ד"רכהן`, ReasonDictionaryPrefix, "כהן", true},
		{"פרופ'לוי", ReasonDictionaryPrefix, "לוי", true},
		{"מר.כהן", ReasonDictionaryPrefix, "כהן", true},
		{"עצמאי", "", "", false},
		{"", "", "", false},
		{"רבינוביץ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, ok := c.Match(tt.token)
			if ok != tt.ok || m.Reason != tt.reason || m.Key != tt.key {
				t.Errorf("Match(%q) = (%+v, %v), want (%s/%s, %v)", tt.token, m, ok, tt.reason, tt.key, tt.ok)
			}
		})
	}
}

func TestClassifierSuffixStage(t *testing.T) {
	c := NewClassifier(NewDictionary(nil), nil)

	tests := []struct {
		token string
		want  bool
	}{
		{"רבינוביץ", true},
		{"אברמוביץ'", true},
		{"קמינסקי", true},
		{"גולדשטיין", true},
		{"גרינברג", true},
		{"סקי", false},  // suffix with no stem
		{"אסקי", false}, // stem too short
		{"Kaminski", false},
		{"מטופל", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := c.IsName(tt.token); got != tt.want {
				t.Errorf("IsName(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestDictionaryStageIsIndependentOfSuffixes(t *testing.T) {
	c := NewClassifier(NewDictionary([]string{"גולדשטיין"}), nil)
	m, ok := c.MatchDictionary("גולדשטיין")
	if !ok || m.Reason != ReasonDictionary {
		t.Fatalf("MatchDictionary = (%+v, %v), want dictionary hit", m, ok)
	}
	m, ok = c.MatchSuffix("גולדשטיין")
	if !ok || m.Reason != ReasonSuffix {
		t.Fatalf("MatchSuffix = (%+v, %v), want suffix hit", m, ok)
	}
}

func TestIsHonorific(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"מר", true},
		{`ד"ר`, true},
		{`ד״ר`, true},
		{"פרופ'", true},
		{"גב'", true},
		{"בן", true},
		{"Dr.", true},
		{"מר:", true},
		{"גב׳", true},
		{"גב", false},
		{"פרופ", false},
		{"דר", false},
		{"כהן", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsHonorific(tt.token); got != tt.want {
			t.Errorf("IsHonorific(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestIntroducesName(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{`ד"ר`, true},
		{"ד״ר", true},
		{"דר'", true},
		{"פרופ׳", true},
		{"גב'", true},
		{"Dr.", true},
		{"מר", false},
		{"גברת", false},
		{"גב", false},
		{"בן", false},
	}
	for _, tt := range tests {
		if got := IntroducesName(tt.token); got != tt.want {
			t.Errorf("IntroducesName(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestDictionaryIgnoresQuoteVariants(t *testing.T) {
	dict := NewDictionary([]string{"בן־צ״ל"})
	if !dict.Contains(`בן־צ"ל`) || !dict.Contains("בן־צ״ל") {
		t.Fatal("quote variants of an entry should match")
	}
}

func TestSplitPunct(t *testing.T) {
	tests := []struct {
		token, lead, core, trail string
	}{
		{"כהן,", "", "כהן", ","},
		{"(לוי)", "(", "לוי", ")"},
		{"גב'", "", "גב'", ""},
		{"...", "...", "", ""},
		{`ד"ר`, "", `ד"ר`, ""},
	}
	for _, tt := range tests {
		lead, core, trail := SplitPunct(tt.token)
		if lead != tt.lead || core != tt.core || trail != tt.trail {
			t.Errorf("SplitPunct(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.token, lead, core, trail, tt.lead, tt.core, tt.trail)
		}
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medredact/internal/document"
	"medredact/internal/records"
)

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDictionary writes one name per line.
func WriteDictionary(t testing.TB, path string, names ...string) {
	t.Helper()
	WriteText(t, path, strings.Join(names, "\n")+"\n")
}

// WriteRecords writes docs to path in the format implied by its extension.
func WriteRecords(t testing.TB, path string, docs ...document.Document) {
	t.Helper()

	if err := records.Write(path, docs, records.Layout{}); err != nil {
		t.Fatalf("write records %s: %v", path, err)
	}
}

// ReadRecords loads documents from path.
func ReadRecords(t testing.TB, path string) []document.Document {
	t.Helper()

	docs, _, err := records.Read(path)
	if err != nil {
		t.Fatalf("read records %s: %v", path, err)
	}
	return docs
}

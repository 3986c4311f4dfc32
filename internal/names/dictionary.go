// Package names recognizes person-name tokens.
//
// Recognition is two-stage: an exact lookup in a Dictionary of known given and
// family names (after stripping an honorific or kinship prefix), then a short
// ordered list of family-name suffix predicates. Both stages work on a single
// token; merging adjacent name tokens into spans is the redactor's job.
package names

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"medredact/internal/logging"
	"medredact/internal/script"
)

// Dictionary is an immutable set of known names. The zero value and nil are
// both valid empty dictionaries.
type Dictionary struct {
	entries map[string]struct{}
}

// NewDictionary builds a dictionary from names. Blank entries are skipped.
func NewDictionary(names []string) *Dictionary {
	d := &Dictionary{entries: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if key := dictionaryKey(name); key != "" {
			d.entries[key] = struct{}{}
		}
	}
	return d
}

// ReadDictionary parses a newline-delimited name list. Lines starting with '#'
// are comments; a leading UTF-8 byte order mark is ignored.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read name dictionary: %w", err)
	}
	return NewDictionary(names), nil
}

// LoadDictionary reads the dictionary at path. It never fails: a missing or
// unreadable file yields an empty dictionary and a warning, and name
// detection falls back to the suffix rules and honorific context.
func LoadDictionary(path string, logger *slog.Logger) *Dictionary {
	if logger == nil {
		logger = logging.NewNop()
	}
	path = strings.TrimSpace(path)
	if path == "" {
		logger.Info("name dictionary not configured; dictionary lookups disabled",
			logging.String(logging.FieldEventType, "name_dictionary_unconfigured"),
		)
		return NewDictionary(nil)
	}

	dict, err := readDictionaryFile(path)
	if err != nil {
		hint := "check redaction.name_dictionary_path"
		if errors.Is(err, os.ErrNotExist) {
			hint = "file not found; check redaction.name_dictionary_path or MEDREDACT_NAME_DICTIONARY"
		}
		logging.WarnWithContext(logger, "name dictionary unavailable", "name_dictionary_unavailable",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "names are detected only by suffix and honorific rules"),
		)
		return NewDictionary(nil)
	}

	logger.Info("name dictionary loaded",
		logging.String("path", path),
		logging.Int("entries", dict.Len()),
	)
	return dict
}

func readDictionaryFile(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadDictionary(file)
}

// Contains reports whether name is a known name.
func (d *Dictionary) Contains(name string) bool {
	if d == nil || len(d.entries) == 0 {
		return false
	}
	_, ok := d.entries[dictionaryKey(name)]
	return ok
}

// Len returns the number of distinct entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

func dictionaryKey(name string) string {
	return script.FoldQuotes(norm.NFC.String(strings.TrimSpace(name)))
}

// Package script classifies runes and tokens by writing direction.
//
// Direction comes from the Unicode bidirectional class (golang.org/x/text),
// so Hebrew, Arabic, Syriac, and Thaana letters are all treated as
// right-to-left without hard-coded code point ranges.
package script

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

// IsRTL reports whether r has a strong right-to-left bidi class.
func IsRTL(r rune) bool {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.R, bidi.AL:
		return true
	}
	return false
}

// IsRTLLetter reports whether r is a right-to-left letter.
func IsRTLLetter(r rune) bool {
	return unicode.IsLetter(r) && IsRTL(r)
}

// IsRTLWord reports whether s is made of right-to-left letters, optionally
// followed by combining marks (points). Empty strings are not words.
func IsRTLWord(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if IsRTLLetter(r) {
			continue
		}
		if i > 0 && unicode.Is(unicode.Mn, r) {
			continue
		}
		return false
	}
	return true
}

// IsSingleRTLLetter reports whether s is exactly one right-to-left letter.
func IsSingleRTLLetter(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && size == len(s) && IsRTLLetter(r)
}

// HasRTL reports whether s contains at least one right-to-left rune.
func HasRTL(s string) bool {
	for _, r := range s {
		if IsRTL(r) {
			return true
		}
	}
	return false
}

var quoteFolder = strings.NewReplacer(
	"״", `"`,
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"׳", "'",
	"‘", "'",
	"’", "'",
)

// FoldQuotes maps gershayim, geresh, and typographic quotes to their ASCII
// forms. It is a comparison key only; output text keeps the marks as written.
func FoldQuotes(s string) string {
	return quoteFolder.Replace(s)
}

// Package normalize repairs OCR damage in extracted text before tokenization.
//
// The central repair rejoins right-to-left words that OCR split into a word
// plus stray single letters ("כה ן" becomes "כהן"). Optional cleanup passes
// remove extraction artifacts (file URLs, page counters) and Hebrew points.
// Quote marks are left as written; matching folds them with
// script.FoldQuotes instead.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"medredact/internal/script"
)

// Options selects the optional cleanup passes.
type Options struct {
	StripArtifacts  bool
	StripDiacritics bool
}

// Normalizer applies cleanup and RTL split repair. The zero value performs
// only split repair.
type Normalizer struct {
	opts Options
}

// New returns a Normalizer with the given options.
func New(opts Options) Normalizer {
	return Normalizer{opts: opts}
}

// Normalize cleans text and repairs RTL splits. The result is a single line of
// space-separated tokens.
func (n Normalizer) Normalize(text string) string {
	return RepairRTLSplits(n.Clean(text))
}

// Clean runs the character-level passes without tokenizing.
func (n Normalizer) Clean(text string) string {
	if n.opts.StripArtifacts {
		text = StripArtifacts(text)
	}
	if n.opts.StripDiacritics {
		text = StripDiacritics(text)
	}
	return text
}

// RepairRTLSplits rejoins right-to-left words split by OCR.
//
// Tokens are scanned once, left to right, with an accumulator. A single RTL
// letter extends the accumulator; a full RTL word flushes it and starts a new
// one; anything else flushes it and is emitted on its own. Token order is
// preserved and no token is dropped.
func RepairRTLSplits(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return ""
	}

	out := make([]string, 0, len(tokens))
	var acc strings.Builder
	flush := func() {
		if acc.Len() > 0 {
			out = append(out, acc.String())
			acc.Reset()
		}
	}

	for _, tok := range tokens {
		switch {
		case script.IsSingleRTLLetter(tok):
			acc.WriteString(tok)
		case script.IsRTLWord(tok):
			flush()
			acc.WriteString(tok)
		default:
			flush()
			out = append(out, tok)
		}
	}
	flush()
	return strings.Join(out, " ")
}

var hebrewMarks = runes.Predicate(func(r rune) bool {
	return unicode.Is(unicode.Mn, r) && unicode.Is(unicode.Hebrew, r)
})

// StripDiacritics removes Hebrew points and cantillation marks. Precomposed
// presentation forms are decomposed first so their marks are removed too.
func StripDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(hebrewMarks), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

var artifactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`file:///\S*`),
	regexp.MustCompile(`\bdischarge-letter\.html\b`),
	regexp.MustCompile(`(?i)(?:עמוד|עמ'|עמ׳|page)\s*\d{1,3}\s*(?:/|מתוך|of)\s*\d{1,3}\s*$`),
}

// StripArtifacts removes browser-print residue: local file URLs, the saved
// letter filename, and a trailing page counter.
func StripArtifacts(text string) string {
	for _, re := range artifactPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}
